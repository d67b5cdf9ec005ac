package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ── StockBalance ──

// BalanceRepository implementación en memoria de repository.BalanceRepository.
type BalanceRepository struct {
	store *Store
}

func NewBalanceRepository(store *Store) *BalanceRepository {
	return &BalanceRepository{store: store}
}

func (r *BalanceRepository) Get(productID, warehouseID string) (*entity.StockBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.balances[balanceKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// GetForUpdate en memoria equivale a Get: la exclusión la da el TxRunner, que
// serializa todas las transacciones con un mutex global.
func (r *BalanceRepository) GetForUpdate(productID, warehouseID string) (*entity.StockBalance, error) {
	return r.Get(productID, warehouseID)
}

func (r *BalanceRepository) Upsert(balance *entity.StockBalance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.balances[balanceKey(balance.ProductID, balance.WarehouseID)] = *balance
	return nil
}

func (r *BalanceRepository) ListByCompany(companyID string) ([]*entity.StockBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := make([]entity.StockBalance, 0)
	for _, b := range r.store.balances {
		if b.CompanyID == companyID {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ProductID != all[j].ProductID {
			return all[i].ProductID < all[j].ProductID
		}
		return all[i].WarehouseID < all[j].WarehouseID
	})
	out := make([]*entity.StockBalance, len(all))
	for i := range all {
		b := all[i]
		out[i] = &b
	}
	return out, nil
}

// ── StockTransaction ──

// TransactionRepository implementación en memoria del libro de kardex.
type TransactionRepository struct {
	store *Store
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Append(tx *entity.StockTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transactions = append(r.store.transactions, *tx)
	return nil
}

func (r *TransactionRepository) GetByID(id string) (*entity.StockTransaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.transactions {
		if r.store.transactions[i].ID == id {
			tx := r.store.transactions[i]
			return &tx, nil
		}
	}
	return nil, nil
}

// List devuelve transacciones de la empresa, más recientes primero.
func (r *TransactionRepository) List(filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	matched := make([]entity.StockTransaction, 0)
	for i := range r.store.transactions {
		tx := r.store.transactions[i]
		if tx.CompanyID != filter.CompanyID {
			continue
		}
		if filter.ProductID != "" && tx.ProductID != filter.ProductID {
			continue
		}
		if filter.WarehouseID != "" && tx.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.From != nil && tx.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.CreatedAt.After(*filter.To) {
			continue
		}
		matched = append(matched, tx)
	}
	// El slice ya está en orden de inserción; se invierte para recientes primero.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	out := make([]*entity.StockTransaction, len(matched))
	for i := range matched {
		tx := matched[i]
		out[i] = &tx
	}
	return out, nil
}

func (r *TransactionRepository) SumQuantity(productID, warehouseID string) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	total := decimal.Zero
	for i := range r.store.transactions {
		tx := &r.store.transactions[i]
		if tx.ProductID == productID && tx.WarehouseID == warehouseID {
			total = total.Add(tx.Quantity)
		}
	}
	return total, nil
}

// ── Sequence ──

// SequenceRepository consecutivos en memoria por empresa y nombre.
type SequenceRepository struct {
	store *Store
}

func NewSequenceRepository(store *Store) *SequenceRepository {
	return &SequenceRepository{store: store}
}

func (r *SequenceRepository) Next(companyID, name string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := sequenceKey(companyID, name)
	r.store.sequences[key]++
	return r.store.sequences[key], nil
}
