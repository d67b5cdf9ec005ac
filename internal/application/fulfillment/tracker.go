package fulfillment

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Tracker lleva el avance de cumplimiento por línea de pedido. El cumplimiento
// es monótono: la cantidad cumplida solo crece, no existe "des-recibir"; la
// cancelación de un documento completo es un flujo aparte que no pasa por aquí.
type Tracker struct {
	allowOverFulfillment bool
}

// NewTracker construye el tracker. allowOverFulfillment permite cumplir más de
// lo pedido (sobre-entregas); por defecto la política es rechazar.
func NewTracker(allowOverFulfillment bool) *Tracker {
	return &Tracker{allowOverFulfillment: allowOverFulfillment}
}

// AllowsOverFulfillment indica la política vigente.
func (t *Tracker) AllowsOverFulfillment() bool { return t.allowOverFulfillment }

// ApplyFulfillmentTx suma delta a la cantidad cumplida de la línea y deriva su
// estado (PENDING/PARTIAL/COMPLETED). releasedReserved es lo que el despacho
// liberó de la reserva de esta línea y se descuenta de ReservedQuantity.
// Debe invocarse dentro de la transacción del documento que se confirma.
func (t *Tracker) ApplyFulfillmentTx(
	orderRepo repository.OrderRepository,
	orderLineID string,
	delta decimal.Decimal,
	releasedReserved decimal.Decimal,
) (*entity.OrderLine, error) {
	if !delta.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	line, err := orderRepo.GetLine(orderLineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrUnknownOrderLine
	}
	if !t.allowOverFulfillment && line.FulfilledQuantity.Add(delta).GreaterThan(line.Quantity) {
		return nil, domain.ErrOverFulfillment
	}
	line.FulfilledQuantity = line.FulfilledQuantity.Add(delta)
	if releasedReserved.GreaterThan(decimal.Zero) {
		line.ReservedQuantity = line.ReservedQuantity.Sub(releasedReserved)
		if line.ReservedQuantity.LessThan(decimal.Zero) {
			line.ReservedQuantity = decimal.Zero
		}
	}
	line.RecomputeStatus()
	if err := orderRepo.UpdateLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

// CheckCapacity valida que delta quepa en lo pendiente de la línea según la
// política vigente. Se usa al agregar líneas a un documento DRAFT para fallar
// temprano, antes de confirmar.
func (t *Tracker) CheckCapacity(line *entity.OrderLine, delta decimal.Decimal) error {
	if t.allowOverFulfillment {
		return nil
	}
	if delta.GreaterThan(line.Outstanding()) {
		return domain.ErrOverFulfillment
	}
	return nil
}
