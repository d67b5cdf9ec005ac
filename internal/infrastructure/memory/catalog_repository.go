package memory

import (
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ── Company ──

// CompanyRepository implementación en memoria de repository.CompanyRepository.
type CompanyRepository struct {
	store *Store
}

func NewCompanyRepository(store *Store) *CompanyRepository {
	return &CompanyRepository{store: store}
}

func (r *CompanyRepository) Create(company *entity.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.companies[company.ID] = *company
	return nil
}

func (r *CompanyRepository) GetByID(id string) (*entity.Company, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepository) List(limit, offset int) ([]*entity.Company, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := make([]entity.Company, 0, len(r.store.companies))
	for _, c := range r.store.companies {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return pageCompanies(all, limit, offset), nil
}

func pageCompanies(all []entity.Company, limit, offset int) []*entity.Company {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.Company, len(all))
	for i := range all {
		c := all[i]
		out[i] = &c
	}
	return out
}

// ── User ──

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email && u.CompanyID == companyID {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// ── Product ──

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if p.CompanyID == companyID && p.SKU == sku {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) Update(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := make([]entity.Product, 0)
	for _, p := range r.store.products {
		if p.CompanyID == companyID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.Product, len(all))
	for i := range all {
		p := all[i]
		out[i] = &p
	}
	return out, nil
}

func (r *ProductRepository) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, id)
	return nil
}

// ── Warehouse ──

// WarehouseRepository implementación en memoria de repository.WarehouseRepository.
type WarehouseRepository struct {
	store *Store
}

func NewWarehouseRepository(store *Store) *WarehouseRepository {
	return &WarehouseRepository{store: store}
}

func (r *WarehouseRepository) Create(warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *WarehouseRepository) GetByID(id string) (*entity.Warehouse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepository) Update(warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *WarehouseRepository) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := make([]entity.Warehouse, 0)
	for _, w := range r.store.warehouses {
		if w.CompanyID == companyID {
			all = append(all, w)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.Warehouse, len(all))
	for i := range all {
		w := all[i]
		out[i] = &w
	}
	return out, nil
}

func (r *WarehouseRepository) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.warehouses, id)
	return nil
}
