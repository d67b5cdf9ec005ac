package memory

import (
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// OrderRepository implementación en memoria de repository.OrderRepository.
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Create(order *entity.Order, lines []*entity.OrderLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[order.ID] = *order
	for _, l := range lines {
		r.store.orderLines[l.ID] = *l
		r.store.lineOrder = append(r.store.lineOrder, l.ID)
	}
	return nil
}

func (r *OrderRepository) GetByID(id string) (*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// GetLines devuelve las líneas del pedido en su orden de inserción.
func (r *OrderRepository) GetLines(orderID string) ([]*entity.OrderLine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.OrderLine, 0)
	for _, id := range r.store.lineOrder {
		l, ok := r.store.orderLines[id]
		if !ok || l.OrderID != orderID {
			continue
		}
		line := l
		out = append(out, &line)
	}
	return out, nil
}

func (r *OrderRepository) GetLine(lineID string) (*entity.OrderLine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	l, ok := r.store.orderLines[lineID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *OrderRepository) UpdateLine(line *entity.OrderLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orderLines[line.ID] = *line
	return nil
}

func (r *OrderRepository) ListByCompany(companyID, orderType string, limit, offset int) ([]*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := make([]entity.Order, 0)
	for _, o := range r.store.orders {
		if o.CompanyID != companyID {
			continue
		}
		if orderType != "" && o.Type != orderType {
			continue
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.Order, len(all))
	for i := range all {
		o := all[i]
		out[i] = &o
	}
	return out, nil
}
