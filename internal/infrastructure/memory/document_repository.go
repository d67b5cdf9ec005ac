package memory

import (
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// DocumentRepository implementación en memoria de repository.DocumentRepository.
type DocumentRepository struct {
	store *Store
}

func NewDocumentRepository(store *Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) Create(doc *entity.FulfillmentDocument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.documents[doc.ID] = *doc
	return nil
}

func (r *DocumentRepository) GetByID(id string) (*entity.FulfillmentDocument, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d, ok := r.store.documents[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DocumentRepository) Update(doc *entity.FulfillmentDocument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.documents[doc.ID] = *doc
	return nil
}

func (r *DocumentRepository) ListByCompany(companyID, kind string, limit, offset int) ([]*entity.FulfillmentDocument, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := make([]entity.FulfillmentDocument, 0)
	for _, d := range r.store.documents {
		if d.CompanyID != companyID {
			continue
		}
		if kind != "" && d.Kind != kind {
			continue
		}
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.FulfillmentDocument, len(all))
	for i := range all {
		d := all[i]
		out[i] = &d
	}
	return out, nil
}

func (r *DocumentRepository) CreateLine(line *entity.DocumentLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.docLines[line.ID] = *line
	r.store.docLineOrder = append(r.store.docLineOrder, line.ID)
	return nil
}

func (r *DocumentRepository) GetLine(lineID string) (*entity.DocumentLine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	l, ok := r.store.docLines[lineID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *DocumentRepository) UpdateLine(line *entity.DocumentLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.docLines[line.ID] = *line
	return nil
}

func (r *DocumentRepository) DeleteLine(lineID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.docLines, lineID)
	for i, id := range r.store.docLineOrder {
		if id == lineID {
			r.store.docLineOrder = append(r.store.docLineOrder[:i], r.store.docLineOrder[i+1:]...)
			break
		}
	}
	return nil
}

// GetLines devuelve las líneas del documento en su orden de inserción.
func (r *DocumentRepository) GetLines(documentID string) ([]*entity.DocumentLine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.DocumentLine, 0)
	for _, id := range r.store.docLineOrder {
		l, ok := r.store.docLines[id]
		if !ok || l.DocumentID != documentID {
			continue
		}
		line := l
		out = append(out, &line)
	}
	return out, nil
}
