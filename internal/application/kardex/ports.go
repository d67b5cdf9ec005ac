package kardex

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de kardex: la lectura-
// modificación-escritura del saldo y el append al libro son una sola sección
// crítica por producto+bodega.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		txRepo repository.TransactionRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
