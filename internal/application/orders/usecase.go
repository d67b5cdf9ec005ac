package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta la creación de un pedido (cabecera + líneas + reservas de
// kardex si aplica) como una sola transacción.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		seqRepo repository.SequenceRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// UseCase crea y consulta órdenes de compra y pedidos de venta. Las líneas de
// pedido nacen PENDING y solo los flujos de recepción/despacho mueven su
// cantidad cumplida.
type UseCase struct {
	txRunner      TxRunner
	kardexUC      *appkardex.UseCase
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	orderRepo     repository.OrderRepository // lecturas fuera de tx
}

// NewUseCase construye el caso de uso de pedidos.
func NewUseCase(
	txRunner TxRunner,
	kardexUC *appkardex.UseCase,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	orderRepo repository.OrderRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		kardexUC:      kardexUC,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		orderRepo:     orderRepo,
	}
}

func seqNameFor(orderType string) string {
	if orderType == entity.OrderTypePurchase {
		return "OC" // orden de compra
	}
	return "PV" // pedido de venta
}

// Create crea un pedido con sus líneas. Para ventas con in.Reserve, aparta el
// stock disponible de cada línea en el kardex dentro de la misma transacción
// (sin disponible suficiente, el pedido completo se rechaza).
func (uc *UseCase) Create(ctx context.Context, companyID, userID, orderType string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if orderType != entity.OrderTypePurchase && orderType != entity.OrderTypeSales {
		return nil, domain.ErrInvalidInput
	}
	if in.CounterpartyID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Reserve && orderType != entity.OrderTypeSales {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || wh == nil {
		return nil, domain.ErrUnknownWarehouse
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	for _, l := range in.Lines {
		if !l.Quantity.GreaterThan(decimal.Zero) || l.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
		if l.DiscountRate.LessThan(decimal.Zero) || l.DiscountRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrUnknownProduct
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}

	now := time.Now()
	order := &entity.Order{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Type:           orderType,
		CounterpartyID: in.CounterpartyID,
		WarehouseID:    in.WarehouseID,
		Reserved:       in.Reserve,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	lines := make([]*entity.OrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		line := &entity.OrderLine{
			ID:                uuid.New().String(),
			OrderID:           order.ID,
			ProductID:         l.ProductID,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			DiscountRate:      l.DiscountRate,
			Amount:            entity.LineAmount(l.Quantity, l.UnitPrice, l.DiscountRate),
			FulfilledQuantity: decimal.Zero,
			ReservedQuantity:  decimal.Zero,
			Status:            entity.LineStatusPending,
		}
		lines = append(lines, line)
	}

	err = uc.txRunner.RunOrders(ctx, func(
		balanceRepo repository.BalanceRepository,
		seqRepo repository.SequenceRepository,
		orderRepo repository.OrderRepository,
	) error {
		n, err := seqRepo.Next(companyID, seqNameFor(orderType))
		if err != nil {
			return err
		}
		order.OrderNo = fmt.Sprintf("%s-%06d", seqNameFor(orderType), n)

		if in.Reserve {
			for _, line := range lines {
				if _, err := uc.kardexUC.ReserveTx(balanceRepo, line.ProductID, in.WarehouseID, line.Quantity); err != nil {
					return err
				}
				line.ReservedQuantity = line.Quantity
			}
		}
		return orderRepo.Create(order, lines)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// GetByID devuelve un pedido con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, companyID, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.orderRepo.GetLines(orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// List lista pedidos por tipo (sin líneas).
func (uc *UseCase) List(ctx context.Context, companyID, orderType string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.ListByCompany(companyID, orderType, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o, nil))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toOrderResponse(order *entity.Order, lines []*entity.OrderLine) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:             order.ID,
		CompanyID:      order.CompanyID,
		Type:           order.Type,
		OrderNo:        order.OrderNo,
		CounterpartyID: order.CounterpartyID,
		WarehouseID:    order.WarehouseID,
		Reserved:       order.Reserved,
		CreatedAt:      order.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
			ID:                l.ID,
			ProductID:         l.ProductID,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			DiscountRate:      l.DiscountRate,
			Amount:            l.Amount,
			FulfilledQuantity: l.FulfilledQuantity,
			ReservedQuantity:  l.ReservedQuantity,
			Status:            l.Status,
		})
	}
	return resp
}
