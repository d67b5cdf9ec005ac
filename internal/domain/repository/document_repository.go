package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para documentos de
// cumplimiento (recepciones y despachos) y sus líneas.
type DocumentRepository interface {
	Create(doc *entity.FulfillmentDocument) error
	GetByID(id string) (*entity.FulfillmentDocument, error)
	Update(doc *entity.FulfillmentDocument) error
	ListByCompany(companyID, kind string, limit, offset int) ([]*entity.FulfillmentDocument, error)

	CreateLine(line *entity.DocumentLine) error
	GetLine(lineID string) (*entity.DocumentLine, error)
	UpdateLine(line *entity.DocumentLine) error
	DeleteLine(lineID string) error
	GetLines(documentID string) ([]*entity.DocumentLine, error)
}
