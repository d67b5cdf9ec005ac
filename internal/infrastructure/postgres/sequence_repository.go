package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por empresa y nombre sobre PostgreSQL. El upsert
// atómico con RETURNING garantiza números únicos bajo concurrencia.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo de la secuencia companyID+name.
func (r *SequenceRepo) Next(companyID, name string) (int64, error) {
	query := `
		INSERT INTO sequences (company_id, name, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, name)
		DO UPDATE SET value = sequences.value + 1
		RETURNING value`
	var n int64
	err := r.q.QueryRow(context.Background(), query, companyID, name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return n, nil
}
