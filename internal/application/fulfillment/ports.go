package fulfillment

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// de kardex, pedidos y documentos atados a esa tx. Confirmar un documento son
// N movimientos de kardex + N updates de líneas de pedido + el cambio de
// estado: o se aplican todos o ninguno (rollback ante el primer error).
type TxRunner interface {
	RunFulfillment(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		txRepo repository.TransactionRepository,
		seqRepo repository.SequenceRepository,
		orderRepo repository.OrderRepository,
		docRepo repository.DocumentRepository,
	) error) error
}
