package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner implementa los TxRunner de kardex, cumplimiento y pedidos sobre el
// Store en memoria. Un mutex global serializa las transacciones; antes de
// ejecutar el closure se toma un snapshot del estado transaccional y, si el
// closure falla, se restaura completo. Eso da la misma semántica todo-o-nada
// que un BEGIN/ROLLBACK de PostgreSQL.
type TxRunner struct {
	txMu  sync.Mutex
	store *Store

	balanceRepo repository.BalanceRepository
	txRepo      repository.TransactionRepository
	seqRepo     repository.SequenceRepository
	orderRepo   repository.OrderRepository
	docRepo     repository.DocumentRepository
}

// NewTxRunner construye el runner compartiendo el Store de los repositorios.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{
		store:       store,
		balanceRepo: NewBalanceRepository(store),
		txRepo:      NewTransactionRepository(store),
		seqRepo:     NewSequenceRepository(store),
		orderRepo:   NewOrderRepository(store),
		docRepo:     NewDocumentRepository(store),
	}
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.store.snapshotLedger()
	if err := fn(); err != nil {
		r.store.restoreLedger(snap)
		return err
	}
	return nil
}

// Run implementa kardex.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	txRepo repository.TransactionRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(r.balanceRepo, r.txRepo, r.seqRepo)
	})
}

// RunFulfillment implementa fulfillment.TxRunner.
func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	txRepo repository.TransactionRepository,
	seqRepo repository.SequenceRepository,
	orderRepo repository.OrderRepository,
	docRepo repository.DocumentRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(r.balanceRepo, r.txRepo, r.seqRepo, r.orderRepo, r.docRepo)
	})
}

// RunOrders implementa orders.TxRunner.
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	seqRepo repository.SequenceRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(r.balanceRepo, r.seqRepo, r.orderRepo)
	})
}
