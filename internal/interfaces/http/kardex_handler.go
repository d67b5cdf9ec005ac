package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// KardexHandler maneja las peticiones HTTP del motor de kardex (protegido).
type KardexHandler struct {
	uc *kardex.UseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *kardex.UseCase) *KardexHandler {
	return &KardexHandler{uc: uc}
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Description  Suma stock, recalcula el costo promedio ponderado y agrega una
//	transacción IN al libro.
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "product_id, warehouse_id, quantity, unit_price"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/kardex/in [post]
func (h *KardexHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.StockIn(c.Context(), GetCompanyID(c), kardex.MovementInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		ReferenceID: in.Reference,
		Operator:    GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// StockOut godoc
// @Summary      Registrar salida de stock
// @Description  Resta stock disponible (rechaza si no alcanza) y agrega una
//	transacción OUT con cantidad negativa. El costo promedio no cambia.
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "product_id, warehouse_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/out [post]
func (h *KardexHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.StockOut(c.Context(), GetCompanyID(c), kardex.MovementInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		ReferenceID: in.Reference,
		Operator:    GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// StockAdjust godoc
// @Summary      Ajustar stock a una cantidad absoluta
// @Description  Registra un ADJUST con el delta necesario para llegar a
//	new_quantity. Delta cero se rechaza; bajar de la reserva vigente también.
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustRequest  true  "product_id, warehouse_id, new_quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/adjust [post]
func (h *KardexHandler) StockAdjust(c *fiber.Ctx) error {
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.StockAdjust(c.Context(), GetCompanyID(c), kardex.AdjustInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		NewQuantity: in.NewQuantity,
		UnitPrice:   in.UnitPrice,
		Operator:    GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Reserve godoc
// @Summary      Apartar stock disponible
// @Description  Mueve cantidad de disponible a reservado. No toca el stock
//	total ni agrega transacción al libro.
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/reserve [post]
func (h *KardexHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	balance, err := h.uc.Reserve(c.Context(), GetCompanyID(c), in.ProductID, in.WarehouseID, in.Quantity)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// Release godoc
// @Summary      Liberar stock reservado
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/release [post]
func (h *KardexHandler) Release(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	balance, err := h.uc.Release(c.Context(), GetCompanyID(c), in.ProductID, in.WarehouseID, in.Quantity)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// GetBalance godoc
// @Summary      Consultar saldo de un producto en una bodega
// @Description  Si aún no hay movimientos devuelve un saldo en cero.
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Product ID"
// @Param        warehouse_id  query  string  true  "Warehouse ID"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/kardex/balance [get]
func (h *KardexHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.uc.FindBalance(c.Context(), GetCompanyID(c), c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// ListBalances godoc
// @Summary      Listar todos los saldos de la empresa
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/kardex/balances [get]
func (h *KardexHandler) ListBalances(c *fiber.Ctx) error {
	balances, err := h.uc.ListBalances(c.Context(), GetCompanyID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Consultar el libro de kardex
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        type          query  string  false  "IN | OUT | ADJUST"
// @Param        from          query  string  false  "RFC3339"
// @Param        to            query  string  false  "RFC3339"
// @Param        limit         query  int     false  "default 50"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/kardex/transactions [get]
func (h *KardexHandler) ListTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		CompanyID:   GetCompanyID(c),
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Type:        c.Query("type"),
		Limit:       c.QueryInt("limit"),
		Offset:      c.QueryInt("offset"),
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido (RFC3339)"})
		}
		filter.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido (RFC3339)"})
		}
		filter.To = &t
	}
	txs, err := h.uc.ListTransactions(c.Context(), filter)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return c.JSON(out)
}

// CheckConsistency godoc
// @Summary      Verificar consistencia del saldo contra el libro
// @Description  Comprueba la identidad disponible+reservado=actual y que la
//	suma de cantidades del libro reproduce el saldo.
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Product ID"
// @Param        warehouse_id  query  string  true  "Warehouse ID"
// @Success      200  {object}  map[string]bool
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/kardex/consistency [get]
func (h *KardexHandler) CheckConsistency(c *fiber.Ctx) error {
	if err := h.uc.CheckConsistency(c.Context(), c.Query("product_id"), c.Query("warehouse_id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"consistent": true})
}

// ── Mapeo entidad → DTO ──

func toBalanceResponse(b *entity.StockBalance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ProductID:      b.ProductID,
		WarehouseID:    b.WarehouseID,
		CurrentStock:   b.CurrentStock,
		ReservedStock:  b.ReservedStock,
		AvailableStock: b.AvailableStock,
		AvgCost:        b.AvgCost,
		MinStock:       b.MinStock,
		MaxStock:       b.MaxStock,
		LastInAt:       b.LastInAt,
		LastOutAt:      b.LastOutAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toTransactionResponse(t *entity.StockTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID,
		TransactionNo: t.TransactionNo,
		ProductID:     t.ProductID,
		WarehouseID:   t.WarehouseID,
		Type:          t.Type,
		Quantity:      t.Quantity,
		UnitPrice:     t.UnitPrice,
		TotalAmount:   t.TotalAmount,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		Operator:      t.Operator,
		CreatedAt:     t.CreatedAt,
	}
}

func toMovementResponse(m *kardex.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		Balance:     toBalanceResponse(m.Balance),
		Transaction: toTransactionResponse(m.Transaction),
	}
}
