package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order, lines []*entity.OrderLine) error
	GetByID(id string) (*entity.Order, error)
	GetLines(orderID string) ([]*entity.OrderLine, error)
	GetLine(lineID string) (*entity.OrderLine, error)
	UpdateLine(line *entity.OrderLine) error
	ListByCompany(companyID, orderType string, limit, offset int) ([]*entity.Order, error)
}
