package fulfillment

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

// UseCase maneja recepciones de compra y despachos de venta. Ambos flujos son
// simétricos: un documento DRAFT acumula líneas; al confirmar/despachar se
// aplican sus efectos al kardex (entradas o salidas) y a las líneas del pedido
// en una sola transacción.
type UseCase struct {
	txRunner      TxRunner
	kardexUC      *appkardex.UseCase
	tracker       *Tracker
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	orderRepo     repository.OrderRepository    // lecturas fuera de tx
	docRepo       repository.DocumentRepository // lecturas fuera de tx
}

// NewUseCase construye el caso de uso de cumplimiento.
func NewUseCase(
	txRunner TxRunner,
	kardexUC *appkardex.UseCase,
	tracker *Tracker,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	orderRepo repository.OrderRepository,
	docRepo repository.DocumentRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		kardexUC:      kardexUC,
		tracker:       tracker,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		orderRepo:     orderRepo,
		docRepo:       docRepo,
	}
}

// Prefijos de consecutivo por clase de documento.
func docSeqName(kind string) string {
	if kind == entity.DocumentKindReceipt {
		return "REC"
	}
	return "DES"
}

// Tipo de pedido que corresponde a cada clase de documento.
func orderTypeFor(kind string) string {
	if kind == entity.DocumentKindReceipt {
		return entity.OrderTypePurchase
	}
	return entity.OrderTypeSales
}

// CreateDocument crea una recepción o un despacho en DRAFT con totales en cero.
func (uc *UseCase) CreateDocument(ctx context.Context, companyID, userID, kind string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if kind != entity.DocumentKindReceipt && kind != entity.DocumentKindDelivery {
		return nil, domain.ErrInvalidInput
	}
	if in.CounterpartyID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || wh == nil {
		return nil, domain.ErrUnknownWarehouse
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.OrderID != "" {
		order, err := uc.orderRepo.GetByID(in.OrderID)
		if err != nil || order == nil {
			return nil, domain.ErrNotFound
		}
		if order.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		if order.Type != orderTypeFor(kind) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	docDate := now
	if in.DocumentDate != "" {
		parsed, err := time.Parse("2006-01-02", in.DocumentDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		docDate = parsed
	}

	var doc *entity.FulfillmentDocument
	err = uc.txRunner.RunFulfillment(ctx, func(
		_ repository.BalanceRepository,
		_ repository.TransactionRepository,
		seqRepo repository.SequenceRepository,
		_ repository.OrderRepository,
		docRepo repository.DocumentRepository,
	) error {
		n, err := seqRepo.Next(companyID, docSeqName(kind))
		if err != nil {
			return err
		}
		doc = &entity.FulfillmentDocument{
			ID:             uuid.New().String(),
			CompanyID:      companyID,
			DocumentNo:     fmt.Sprintf("%s-%06d", docSeqName(kind), n),
			Kind:           kind,
			OrderID:        in.OrderID,
			CounterpartyID: in.CounterpartyID,
			WarehouseID:    in.WarehouseID,
			DocumentDate:   docDate,
			Status:         entity.DocumentStatusDraft,
			Operator:       userID,
			TotalQuantity:  decimal.Zero,
			TotalAmount:    decimal.Zero,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return docRepo.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc, nil), nil
}

// AddLine agrega una línea a un documento DRAFT y recalcula los totales.
// Si la línea referencia una línea de pedido, valida producto y capacidad
// pendiente según la política de sobre-cumplimiento.
func (uc *UseCase) AddLine(ctx context.Context, companyID, documentID string, in dto.DocumentLineRequest) (*dto.DocumentResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrUnknownProduct
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	var doc *entity.FulfillmentDocument
	var lines []*entity.DocumentLine
	err = uc.txRunner.RunFulfillment(ctx, func(
		_ repository.BalanceRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
		orderRepo repository.OrderRepository,
		docRepo repository.DocumentRepository,
	) error {
		var txErr error
		doc, txErr = uc.draftDocument(docRepo, companyID, documentID)
		if txErr != nil {
			return txErr
		}
		if in.OrderLineID != "" {
			if txErr = uc.checkOrderLine(orderRepo, doc, in); txErr != nil {
				return txErr
			}
		}
		line := &entity.DocumentLine{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			OrderLineID: in.OrderLineID,
			ProductID:   in.ProductID,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      in.Quantity.Mul(in.UnitPrice),
		}
		if txErr = docRepo.CreateLine(line); txErr != nil {
			return txErr
		}
		return uc.refreshTotals(docRepo, doc, &lines)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc, lines), nil
}

// UpdateLine edita una línea de un documento DRAFT y recalcula los totales.
func (uc *UseCase) UpdateLine(ctx context.Context, companyID, documentID, lineID string, in dto.DocumentLineRequest) (*dto.DocumentResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	var doc *entity.FulfillmentDocument
	var lines []*entity.DocumentLine
	err := uc.txRunner.RunFulfillment(ctx, func(
		_ repository.BalanceRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
		orderRepo repository.OrderRepository,
		docRepo repository.DocumentRepository,
	) error {
		var txErr error
		doc, txErr = uc.draftDocument(docRepo, companyID, documentID)
		if txErr != nil {
			return txErr
		}
		line, txErr := docRepo.GetLine(lineID)
		if txErr != nil {
			return txErr
		}
		if line == nil || line.DocumentID != doc.ID {
			return domain.ErrNotFound
		}
		if in.OrderLineID != "" {
			if txErr = uc.checkOrderLine(orderRepo, doc, in); txErr != nil {
				return txErr
			}
			line.OrderLineID = in.OrderLineID
		}
		line.Quantity = in.Quantity
		if !in.UnitPrice.LessThan(decimal.Zero) {
			line.UnitPrice = in.UnitPrice
		}
		line.Amount = line.Quantity.Mul(line.UnitPrice)
		if txErr = docRepo.UpdateLine(line); txErr != nil {
			return txErr
		}
		return uc.refreshTotals(docRepo, doc, &lines)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc, lines), nil
}

// RemoveLine elimina una línea de un documento DRAFT y recalcula los totales.
func (uc *UseCase) RemoveLine(ctx context.Context, companyID, documentID, lineID string) (*dto.DocumentResponse, error) {
	var doc *entity.FulfillmentDocument
	var lines []*entity.DocumentLine
	err := uc.txRunner.RunFulfillment(ctx, func(
		_ repository.BalanceRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
		_ repository.OrderRepository,
		docRepo repository.DocumentRepository,
	) error {
		var txErr error
		doc, txErr = uc.draftDocument(docRepo, companyID, documentID)
		if txErr != nil {
			return txErr
		}
		line, txErr := docRepo.GetLine(lineID)
		if txErr != nil {
			return txErr
		}
		if line == nil || line.DocumentID != doc.ID {
			return domain.ErrNotFound
		}
		if txErr = docRepo.DeleteLine(lineID); txErr != nil {
			return txErr
		}
		return uc.refreshTotals(docRepo, doc, &lines)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc, lines), nil
}

// Confirm es la operación pivote: aplica los efectos del documento una sola
// vez. Recepción: DRAFT → CONFIRMED con entradas de kardex. Despacho: DRAFT →
// SHIPPED con salidas (liberando antes lo reservado del pedido, si lo hay).
// Reintentar sobre un documento ya confirmado/despachado es un no-op
// idempotente; cualquier falla por línea revierte todo y el documento queda en
// DRAFT sin efecto alguno en el kardex.
func (uc *UseCase) Confirm(ctx context.Context, companyID, userID, documentID string) (*dto.DocumentResponse, error) {
	existing, err := uc.docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if existing.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	// Reintento idempotente: los efectos ya se aplicaron exactamente una vez.
	if existing.Status != entity.DocumentStatusDraft {
		switch existing.Status {
		case entity.DocumentStatusConfirmed, entity.DocumentStatusShipped, entity.DocumentStatusCompleted:
			lines, err := uc.docRepo.GetLines(documentID)
			if err != nil {
				return nil, err
			}
			return uc.toResponse(existing, lines), nil
		default:
			return nil, domain.ErrInvalidDocumentState
		}
	}

	now := time.Now()
	var doc *entity.FulfillmentDocument
	var lines []*entity.DocumentLine
	err = uc.txRunner.RunFulfillment(ctx, func(
		balanceRepo repository.BalanceRepository,
		txRepo repository.TransactionRepository,
		seqRepo repository.SequenceRepository,
		orderRepo repository.OrderRepository,
		docRepo repository.DocumentRepository,
	) error {
		// Releer dentro de la tx: otro confirm pudo ganar la carrera.
		var txErr error
		doc, txErr = docRepo.GetByID(documentID)
		if txErr != nil {
			return txErr
		}
		if doc == nil || doc.Status != entity.DocumentStatusDraft {
			return domain.ErrInvalidDocumentState
		}
		lines, txErr = docRepo.GetLines(documentID)
		if txErr != nil {
			return txErr
		}
		if len(lines) == 0 {
			return domain.ErrInvalidInput
		}

		var order *entity.Order
		if doc.OrderID != "" {
			order, txErr = orderRepo.GetByID(doc.OrderID)
			if txErr != nil {
				return txErr
			}
		}

		for _, line := range lines {
			product, txErr := uc.productRepo.GetByID(line.ProductID)
			if txErr != nil || product == nil {
				return domain.ErrUnknownProduct
			}

			movIn := appkardex.MovementInput{
				ProductID:     line.ProductID,
				WarehouseID:   doc.WarehouseID,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice,
				ReferenceType: doc.Kind,
				ReferenceID:   doc.ID,
				Operator:      userID,
			}

			released := decimal.Zero
			if doc.Kind == entity.DocumentKindReceipt {
				if _, txErr = uc.kardexUC.StockInTx(balanceRepo, txRepo, seqRepo, product, companyID, movIn, now); txErr != nil {
					return txErr
				}
			} else {
				// Despacho de pedido con reserva: lo apartado es lo que sale.
				if order != nil && order.Reserved && line.OrderLineID != "" {
					ol, txErr := orderRepo.GetLine(line.OrderLineID)
					if txErr != nil {
						return txErr
					}
					if ol != nil && ol.ReservedQuantity.GreaterThan(decimal.Zero) {
						released, txErr = uc.kardexUC.ReleaseUpToTx(balanceRepo, line.ProductID, doc.WarehouseID, decimal.Min(line.Quantity, ol.ReservedQuantity))
						if txErr != nil {
							return txErr
						}
					}
				}
				if _, txErr = uc.kardexUC.StockOutTx(balanceRepo, txRepo, seqRepo, product, companyID, movIn, now); txErr != nil {
					return txErr
				}
			}

			if line.OrderLineID != "" {
				if _, txErr = uc.tracker.ApplyFulfillmentTx(orderRepo, line.OrderLineID, line.Quantity, released); txErr != nil {
					return txErr
				}
			}
		}

		if doc.Kind == entity.DocumentKindReceipt {
			doc.Status = entity.DocumentStatusConfirmed
		} else {
			doc.Status = entity.DocumentStatusShipped
		}
		doc.Operator = userID
		doc.UpdatedAt = now
		return docRepo.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc, lines), nil
}

// Complete cierra administrativamente un despacho ya SHIPPED. Sin efecto en
// kardex. Idempotente sobre COMPLETED.
func (uc *UseCase) Complete(ctx context.Context, companyID, documentID string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if doc.Kind != entity.DocumentKindDelivery {
		return nil, domain.ErrInvalidInput
	}
	switch doc.Status {
	case entity.DocumentStatusCompleted:
		// ya cerrado
	case entity.DocumentStatusShipped:
		doc.Status = entity.DocumentStatusCompleted
		doc.UpdatedAt = time.Now()
		if err := uc.docRepo.Update(doc); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidDocumentState
	}
	lines, err := uc.docRepo.GetLines(documentID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc, lines), nil
}

// GetByID devuelve un documento con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, companyID, documentID string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.docRepo.GetLines(documentID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc, lines), nil
}

// List lista documentos de una clase (sin líneas).
func (uc *UseCase) List(ctx context.Context, companyID, kind string, limit, offset int) (*dto.DocumentListResponse, error) {
	docs, err := uc.docRepo.ListByCompany(companyID, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, *uc.toResponse(d, nil))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// draftDocument obtiene el documento y valida empresa y estado DRAFT
// (las líneas solo se editan en borrador).
func (uc *UseCase) draftDocument(docRepo repository.DocumentRepository, companyID, documentID string) (*entity.FulfillmentDocument, error) {
	doc, err := docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if doc.Status != entity.DocumentStatusDraft {
		return nil, domain.ErrInvalidDocumentState
	}
	return doc, nil
}

// checkOrderLine valida que la línea de pedido exista, pertenezca al pedido
// del documento, coincida en producto y tenga capacidad pendiente.
func (uc *UseCase) checkOrderLine(orderRepo repository.OrderRepository, doc *entity.FulfillmentDocument, in dto.DocumentLineRequest) error {
	ol, err := orderRepo.GetLine(in.OrderLineID)
	if err != nil {
		return err
	}
	if ol == nil {
		return domain.ErrUnknownOrderLine
	}
	if doc.OrderID == "" || ol.OrderID != doc.OrderID {
		return domain.ErrInvalidInput
	}
	if ol.ProductID != in.ProductID {
		return domain.ErrInvalidInput
	}
	return uc.tracker.CheckCapacity(ol, in.Quantity)
}

// refreshTotals recarga las líneas, recalcula totales y persiste el documento.
func (uc *UseCase) refreshTotals(docRepo repository.DocumentRepository, doc *entity.FulfillmentDocument, out *[]*entity.DocumentLine) error {
	lines, err := docRepo.GetLines(doc.ID)
	if err != nil {
		return err
	}
	doc.RecomputeTotals(lines)
	doc.UpdatedAt = time.Now()
	if err := docRepo.Update(doc); err != nil {
		return err
	}
	*out = lines
	return nil
}

func (uc *UseCase) toResponse(doc *entity.FulfillmentDocument, lines []*entity.DocumentLine) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:             doc.ID,
		DocumentNo:     doc.DocumentNo,
		Kind:           doc.Kind,
		OrderID:        doc.OrderID,
		CounterpartyID: doc.CounterpartyID,
		WarehouseID:    doc.WarehouseID,
		DocumentDate:   doc.DocumentDate.Format("2006-01-02"),
		Status:         doc.Status,
		Operator:       doc.Operator,
		TotalQuantity:  doc.TotalQuantity,
		TotalAmount:    doc.TotalAmount,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.DocumentLineResponse{
			ID:          l.ID,
			OrderLineID: l.OrderLineID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}
	return resp
}
