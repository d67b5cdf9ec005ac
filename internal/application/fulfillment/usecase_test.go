package fulfillment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/fulfillment"
	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: kardex + pedidos + cumplimiento sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fulfillmentFixture struct {
	uc          *fulfillment.UseCase
	ordersUC    *orders.UseCase
	kardexUC    *appkardex.UseCase
	orderRepo   *memory.OrderRepository
	balanceRepo *memory.BalanceRepository
	txRepo      *memory.TransactionRepository
	companyID   string
	warehouseID string
	productA    string
	productB    string
	userID      string
}

func newFulfillmentFixture(t *testing.T, allowOverage bool) *fulfillmentFixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()

	company := &entity.Company{ID: uuid.New().String(), Name: "ACME SAS", NIT: "900123456-7", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewCompanyRepository(store).Create(company))

	warehouse := &entity.Warehouse{ID: uuid.New().String(), CompanyID: company.ID, Name: "Bodega Principal", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewWarehouseRepository(store).Create(warehouse))

	productRepo := memory.NewProductRepository(store)
	f := &fulfillmentFixture{
		orderRepo:   memory.NewOrderRepository(store),
		balanceRepo: memory.NewBalanceRepository(store),
		txRepo:      memory.NewTransactionRepository(store),
		companyID:   company.ID,
		warehouseID: warehouse.ID,
		productA:    uuid.New().String(),
		productB:    uuid.New().String(),
		userID:      uuid.New().String(),
	}
	for id, sku := range map[string]string{f.productA: "SKU-A", f.productB: "SKU-B"} {
		require.NoError(t, productRepo.Create(&entity.Product{
			ID: id, CompanyID: company.ID, SKU: sku, Name: sku, CreatedAt: now, UpdatedAt: now,
		}))
	}

	warehouseRepo := memory.NewWarehouseRepository(store)
	txRunner := memory.NewTxRunner(store)
	f.kardexUC = appkardex.NewUseCase(txRunner, productRepo, warehouseRepo, f.balanceRepo, f.txRepo)
	f.ordersUC = orders.NewUseCase(txRunner, f.kardexUC, productRepo, warehouseRepo, f.orderRepo)
	f.uc = fulfillment.NewUseCase(
		txRunner,
		f.kardexUC,
		fulfillment.NewTracker(allowOverage),
		productRepo,
		warehouseRepo,
		f.orderRepo,
		memory.NewDocumentRepository(store),
	)
	return f
}

func (f *fulfillmentFixture) stockIn(t *testing.T, productID, qty, price string) {
	t.Helper()
	_, err := f.kardexUC.StockIn(context.Background(), f.companyID, appkardex.MovementInput{
		ProductID:   productID,
		WarehouseID: f.warehouseID,
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
	})
	require.NoError(t, err)
}

// createOrder crea un pedido de una sola línea y devuelve (orderID, orderLineID).
func (f *fulfillmentFixture) createOrder(t *testing.T, orderType, productID, qty string, reserve bool) (string, string) {
	t.Helper()
	resp, err := f.ordersUC.Create(context.Background(), f.companyID, f.userID, orderType, dto.CreateOrderRequest{
		CounterpartyID: "tercero-1",
		WarehouseID:    f.warehouseID,
		Reserve:        reserve,
		Lines:          []dto.OrderLineRequest{{ProductID: productID, Quantity: dec(qty), UnitPrice: dec("10")}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	return resp.ID, resp.Lines[0].ID
}

func (f *fulfillmentFixture) createDocument(t *testing.T, kind, orderID string) *dto.DocumentResponse {
	t.Helper()
	doc, err := f.uc.CreateDocument(context.Background(), f.companyID, f.userID, kind, dto.CreateDocumentRequest{
		OrderID:        orderID,
		CounterpartyID: "tercero-1",
		WarehouseID:    f.warehouseID,
	})
	require.NoError(t, err)
	return doc
}

func (f *fulfillmentFixture) addLine(t *testing.T, docID, orderLineID, productID, qty, price string) *dto.DocumentResponse {
	t.Helper()
	doc, err := f.uc.AddLine(context.Background(), f.companyID, docID, dto.DocumentLineRequest{
		OrderLineID: orderLineID,
		ProductID:   productID,
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
	})
	require.NoError(t, err)
	return doc
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos en borrador
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDocument_NaceEnBorradorConConsecutivo(t *testing.T) {
	f := newFulfillmentFixture(t, false)

	receipt := f.createDocument(t, entity.DocumentKindReceipt, "")
	delivery := f.createDocument(t, entity.DocumentKindDelivery, "")

	assert.Equal(t, "REC-000001", receipt.DocumentNo)
	assert.Equal(t, "DES-000001", delivery.DocumentNo, "recepciones y despachos llevan consecutivos separados")
	assert.Equal(t, entity.DocumentStatusDraft, receipt.Status)
	assert.True(t, receipt.TotalQuantity.IsZero())
	assert.True(t, receipt.TotalAmount.IsZero())
}

func TestCreateDocument_PedidoDeOtroTipoSeRechaza(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	orderID, _ := f.createOrder(t, entity.OrderTypeSales, f.productA, "5", false)

	// Una recepción solo puede colgar de una orden de compra.
	_, err := f.uc.CreateDocument(context.Background(), f.companyID, f.userID, entity.DocumentKindReceipt, dto.CreateDocumentRequest{
		OrderID:        orderID,
		CounterpartyID: "tercero-1",
		WarehouseID:    f.warehouseID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLineas_RecalculanTotales(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	doc := f.createDocument(t, entity.DocumentKindReceipt, "")

	doc = f.addLine(t, doc.ID, "", f.productA, "10", "4")
	doc = f.addLine(t, doc.ID, "", f.productB, "5", "6")
	assert.True(t, doc.TotalQuantity.Equal(dec("15")))
	assert.True(t, doc.TotalAmount.Equal(dec("70")))
	require.Len(t, doc.Lines, 2)

	updated, err := f.uc.UpdateLine(context.Background(), f.companyID, doc.ID, doc.Lines[0].ID, dto.DocumentLineRequest{
		ProductID: f.productA,
		Quantity:  dec("2"),
		UnitPrice: dec("4"),
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalQuantity.Equal(dec("7")))
	assert.True(t, updated.TotalAmount.Equal(dec("38")))

	trimmed, err := f.uc.RemoveLine(context.Background(), f.companyID, doc.ID, doc.Lines[1].ID)
	require.NoError(t, err)
	assert.True(t, trimmed.TotalQuantity.Equal(dec("2")))
	assert.True(t, trimmed.TotalAmount.Equal(dec("8")))
}

func TestAddLine_CapacidadDeLaLineaDePedido(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	orderID, lineID := f.createOrder(t, entity.OrderTypePurchase, f.productA, "10", false)
	doc := f.createDocument(t, entity.DocumentKindReceipt, orderID)

	// 12 > 10 pendientes: con la política por defecto se rechaza de una vez.
	_, err := f.uc.AddLine(context.Background(), f.companyID, doc.ID, dto.DocumentLineRequest{
		OrderLineID: lineID,
		ProductID:   f.productA,
		Quantity:    dec("12"),
		UnitPrice:   dec("4"),
	})
	assert.ErrorIs(t, err, domain.ErrOverFulfillment)

	// La línea de pedido debe corresponder al pedido del documento.
	_, otherLine := f.createOrder(t, entity.OrderTypePurchase, f.productA, "5", false)
	_, err = f.uc.AddLine(context.Background(), f.companyID, doc.ID, dto.DocumentLineRequest{
		OrderLineID: otherLine,
		ProductID:   f.productA,
		Quantity:    dec("1"),
		UnitPrice:   dec("4"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación de recepciones
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_RecepcionAplicaEntradasYAvanzaElPedido(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	orderID, lineID := f.createOrder(t, entity.OrderTypePurchase, f.productA, "10", false)

	doc := f.createDocument(t, entity.DocumentKindReceipt, orderID)
	f.addLine(t, doc.ID, lineID, f.productA, "4", "5")

	confirmed, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusConfirmed, confirmed.Status)

	bal, err := f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, bal.CurrentStock.Equal(dec("4")))
	assert.True(t, bal.AvgCost.Equal(dec("5")))

	line, err := f.orderRepo.GetLine(lineID)
	require.NoError(t, err)
	assert.True(t, line.FulfilledQuantity.Equal(dec("4")))
	assert.Equal(t, entity.LineStatusPartial, line.Status, "recepción parcial deja la línea PARTIAL")

	// Segunda recepción por el resto: la línea queda COMPLETED.
	second := f.createDocument(t, entity.DocumentKindReceipt, orderID)
	f.addLine(t, second.ID, lineID, f.productA, "6", "5")
	_, err = f.uc.Confirm(context.Background(), f.companyID, f.userID, second.ID)
	require.NoError(t, err)

	line, err = f.orderRepo.GetLine(lineID)
	require.NoError(t, err)
	assert.True(t, line.FulfilledQuantity.Equal(dec("10")))
	assert.Equal(t, entity.LineStatusCompleted, line.Status)

	require.NoError(t, f.kardexUC.CheckConsistency(context.Background(), f.productA, f.warehouseID))
}

func TestConfirm_ReintentoEsIdempotente(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	doc := f.createDocument(t, entity.DocumentKindReceipt, "")
	f.addLine(t, doc.ID, "", f.productA, "4", "5")

	first, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	require.NoError(t, err)
	again, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	require.NoError(t, err, "reconfirmar no es un error")
	assert.Equal(t, first.Status, again.Status)

	// Los efectos se aplicaron exactamente una vez.
	bal, err := f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, bal.CurrentStock.Equal(dec("4")))
	sum, err := f.txRepo.SumQuantity(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("4")), "el libro no registra la entrada dos veces")
}

func TestConfirm_DocumentoVacioSeRechaza(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	doc := f.createDocument(t, entity.DocumentKindReceipt, "")

	_, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.uc.GetByID(context.Background(), f.companyID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusDraft, got.Status, "el documento sigue editable")
}

func TestConfirm_DocumentoConfirmadoNoSeEdita(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	doc := f.createDocument(t, entity.DocumentKindReceipt, "")
	withLine := f.addLine(t, doc.ID, "", f.productA, "4", "5")
	_, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	require.NoError(t, err)

	_, err = f.uc.AddLine(context.Background(), f.companyID, doc.ID, dto.DocumentLineRequest{
		ProductID: f.productB, Quantity: dec("1"), UnitPrice: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentState)

	_, err = f.uc.RemoveLine(context.Background(), f.companyID, doc.ID, withLine.Lines[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Despachos
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_DespachoAplicaSalidas(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	f.stockIn(t, f.productA, "10", "5")
	orderID, lineID := f.createOrder(t, entity.OrderTypeSales, f.productA, "6", false)

	doc := f.createDocument(t, entity.DocumentKindDelivery, orderID)
	f.addLine(t, doc.ID, lineID, f.productA, "6", "10")

	shipped, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusShipped, shipped.Status, "el despacho confirmado queda SHIPPED")

	bal, err := f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, bal.CurrentStock.Equal(dec("4")))
	assert.True(t, bal.AvailableStock.Equal(dec("4")))

	line, err := f.orderRepo.GetLine(lineID)
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusCompleted, line.Status)
}

// Falla a mitad de documento: la primera línea ya había salido, pero la segunda
// no tiene disponible. Todo se revierte y el documento queda en DRAFT sin dejar
// rastro en el kardex.
func TestConfirm_FallaParcialNoDejaRastro(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	f.stockIn(t, f.productA, "10", "5")
	f.stockIn(t, f.productB, "2", "5")

	doc := f.createDocument(t, entity.DocumentKindDelivery, "")
	f.addLine(t, doc.ID, "", f.productA, "4", "10")
	f.addLine(t, doc.ID, "", f.productB, "5", "10") // solo hay 2

	_, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.GetByID(context.Background(), f.companyID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusDraft, got.Status)

	balA, err := f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, balA.CurrentStock.Equal(dec("10")), "la salida de la primera línea se revirtió")

	sumA, err := f.txRepo.SumQuantity(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, sumA.Equal(dec("10")), "el libro no conserva transacciones del intento fallido")
	require.NoError(t, f.kardexUC.CheckConsistency(context.Background(), f.productA, f.warehouseID))
}

// Pedido de venta con reserva: el despacho consume lo apartado, no el
// disponible de otros pedidos.
func TestConfirm_DespachoDePedidoReservadoLiberaYDescuenta(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	f.stockIn(t, f.productA, "10", "5")
	orderID, lineID := f.createOrder(t, entity.OrderTypeSales, f.productA, "4", true)

	bal, err := f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, bal.ReservedStock.Equal(dec("4")))
	assert.True(t, bal.AvailableStock.Equal(dec("6")))

	doc := f.createDocument(t, entity.DocumentKindDelivery, orderID)
	f.addLine(t, doc.ID, lineID, f.productA, "4", "10")
	_, err = f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	require.NoError(t, err)

	bal, err = f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, bal.CurrentStock.Equal(dec("6")))
	assert.True(t, bal.ReservedStock.IsZero(), "la reserva se consumió con el despacho")
	assert.True(t, bal.AvailableStock.Equal(dec("6")), "el disponible de otros pedidos no se tocó")

	line, err := f.orderRepo.GetLine(lineID)
	require.NoError(t, err)
	assert.True(t, line.ReservedQuantity.IsZero())
	assert.True(t, line.FulfilledQuantity.Equal(dec("4")))
	assert.Equal(t, entity.LineStatusCompleted, line.Status)
}

func TestComplete_CierraUnDespachoEnviado(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	f.stockIn(t, f.productA, "10", "5")
	doc := f.createDocument(t, entity.DocumentKindDelivery, "")
	f.addLine(t, doc.ID, "", f.productA, "4", "10")

	// Cerrar un borrador no es válido: primero se despacha.
	_, err := f.uc.Complete(context.Background(), f.companyID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentState)

	_, err = f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	require.NoError(t, err)

	done, err := f.uc.Complete(context.Background(), f.companyID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusCompleted, done.Status)

	// Idempotente sobre COMPLETED, y sin efecto en kardex.
	again, err := f.uc.Complete(context.Background(), f.companyID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusCompleted, again.Status)
	bal, err := f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, bal.CurrentStock.Equal(dec("6")))
}

func TestComplete_SoloAplicaADespachos(t *testing.T) {
	f := newFulfillmentFixture(t, false)
	doc := f.createDocument(t, entity.DocumentKindReceipt, "")
	f.addLine(t, doc.ID, "", f.productA, "4", "5")
	_, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), f.companyID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de sobre-cumplimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_SobreCumplimientoSegunPolitica(t *testing.T) {
	t.Run("por defecto se rechaza", func(t *testing.T) {
		f := newFulfillmentFixture(t, false)
		orderID, lineID := f.createOrder(t, entity.OrderTypePurchase, f.productA, "10", false)

		first := f.createDocument(t, entity.DocumentKindReceipt, orderID)
		f.addLine(t, first.ID, lineID, f.productA, "8", "5")
		_, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, first.ID)
		require.NoError(t, err)

		// Quedan 2 pendientes: recibir 5 más excede el pedido.
		second := f.createDocument(t, entity.DocumentKindReceipt, orderID)
		_, err = f.uc.AddLine(context.Background(), f.companyID, second.ID, dto.DocumentLineRequest{
			OrderLineID: lineID, ProductID: f.productA, Quantity: dec("5"), UnitPrice: dec("5"),
		})
		assert.ErrorIs(t, err, domain.ErrOverFulfillment)
	})

	t.Run("habilitada permite sobre-entregas", func(t *testing.T) {
		f := newFulfillmentFixture(t, true)
		orderID, lineID := f.createOrder(t, entity.OrderTypePurchase, f.productA, "10", false)

		doc := f.createDocument(t, entity.DocumentKindReceipt, orderID)
		f.addLine(t, doc.ID, lineID, f.productA, "12", "5")
		_, err := f.uc.Confirm(context.Background(), f.companyID, f.userID, doc.ID)
		require.NoError(t, err)

		line, err := f.orderRepo.GetLine(lineID)
		require.NoError(t, err)
		assert.True(t, line.FulfilledQuantity.Equal(dec("12")))
		assert.Equal(t, entity.LineStatusCompleted, line.Status)
		assert.True(t, line.Outstanding().Equal(dec("-2")), "el pendiente queda negativo con sobre-entrega")
	})
}
