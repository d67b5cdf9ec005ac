package kardex

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestAvgCost(t *testing.T) {
	cases := []struct {
		name                                             string
		stockActual, costoActual, cantEntrada, costoEntrada string
		want                                             string
	}{
		{"stock previo cero toma el costo de la entrada", "0", "0", "10", "5", "5"},
		{"promedio ponderado con el stock previo como peso", "10", "5", "10", "7", "6"},
		{"entrada pequeña mueve poco el promedio", "90", "10", "10", "20", "11"},
		{"stock previo negativo toma el costo de la entrada", "-3", "4", "10", "6", "6"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AvgCost(d(tc.stockActual), d(tc.costoActual), d(tc.cantEntrada), d(tc.costoEntrada))
			assert.True(t, got.Equal(d(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}
