package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, company_id, document_no, kind, order_id, counterparty_id,
	warehouse_id, document_date, status, operator, total_quantity, total_amount,
	created_at, updated_at`

const documentLineColumns = `id, document_id, order_line_id, product_id, quantity, unit_price, amount`

// Create persiste un documento nuevo (en DRAFT, sin líneas).
func (r *DocumentRepo) Create(doc *entity.FulfillmentDocument) error {
	query := `
		INSERT INTO fulfillment_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.CompanyID, doc.DocumentNo, doc.Kind, doc.OrderID, doc.CounterpartyID,
		doc.WarehouseID, doc.DocumentDate, doc.Status, doc.Operator,
		doc.TotalQuantity, doc.TotalAmount, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento por ID. Devuelve nil si no existe.
func (r *DocumentRepo) GetByID(id string) (*entity.FulfillmentDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM fulfillment_documents WHERE id = $1`
	var d entity.FulfillmentDocument
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.CompanyID, &d.DocumentNo, &d.Kind, &d.OrderID, &d.CounterpartyID,
		&d.WarehouseID, &d.DocumentDate, &d.Status, &d.Operator,
		&d.TotalQuantity, &d.TotalAmount, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

// Update persiste estado, operador y totales del documento.
func (r *DocumentRepo) Update(doc *entity.FulfillmentDocument) error {
	query := `
		UPDATE fulfillment_documents
		SET status = $2, operator = $3, total_quantity = $4, total_amount = $5,
		    document_date = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Status, doc.Operator, doc.TotalQuantity, doc.TotalAmount,
		doc.DocumentDate, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany devuelve documentos de la empresa, más recientes primero.
func (r *DocumentRepo) ListByCompany(companyID, kind string, limit, offset int) ([]*entity.FulfillmentDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM fulfillment_documents WHERE company_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*entity.FulfillmentDocument
	for rows.Next() {
		var d entity.FulfillmentDocument
		if err := rows.Scan(
			&d.ID, &d.CompanyID, &d.DocumentNo, &d.Kind, &d.OrderID, &d.CounterpartyID,
			&d.WarehouseID, &d.DocumentDate, &d.Status, &d.Operator,
			&d.TotalQuantity, &d.TotalAmount, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// CreateLine inserta una línea del documento.
func (r *DocumentRepo) CreateLine(line *entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (` + documentLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, line.OrderLineID, line.ProductID,
		line.Quantity, line.UnitPrice, line.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert document line: %w", err)
	}
	return nil
}

// GetLine obtiene una línea. Devuelve nil si no existe.
func (r *DocumentRepo) GetLine(lineID string) (*entity.DocumentLine, error) {
	query := `SELECT ` + documentLineColumns + ` FROM document_lines WHERE id = $1`
	var l entity.DocumentLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.DocumentID, &l.OrderLineID, &l.ProductID,
		&l.Quantity, &l.UnitPrice, &l.Amount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document line: %w", err)
	}
	return &l, nil
}

// UpdateLine actualiza cantidad, precio e importe de la línea.
func (r *DocumentRepo) UpdateLine(line *entity.DocumentLine) error {
	query := `
		UPDATE document_lines SET quantity = $2, unit_price = $3, amount = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		line.ID, line.Quantity, line.UnitPrice, line.Amount,
	)
	if err != nil {
		return fmt.Errorf("update document line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLine elimina una línea del documento.
func (r *DocumentRepo) DeleteLine(lineID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM document_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete document line: %w", err)
	}
	return nil
}

// GetLines devuelve las líneas del documento en orden de inserción.
func (r *DocumentRepo) GetLines(documentID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT ` + documentLineColumns + `
		FROM document_lines WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.OrderLineID, &l.ProductID,
			&l.Quantity, &l.UnitPrice, &l.Amount,
		); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
