package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/fulfillment"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// DocumentHandler maneja las peticiones HTTP de documentos de cumplimiento:
// recepciones (/api/receipts) y despachos (/api/deliveries). El mismo handler
// sirve ambos grupos, parametrizado por la clase de documento.
type DocumentHandler struct {
	uc   *fulfillment.UseCase
	kind string // receipt | delivery
}

// NewReceiptHandler construye el handler de recepciones de compra.
func NewReceiptHandler(uc *fulfillment.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, kind: entity.DocumentKindReceipt}
}

// NewDeliveryHandler construye el handler de despachos de venta.
func NewDeliveryHandler(uc *fulfillment.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, kind: entity.DocumentKindDelivery}
}

// Create godoc
// @Summary      Crear documento en borrador
// @Description  Crea una recepción o despacho en DRAFT contra un pedido. Las
//	líneas se agregan después; confirmar aplica los efectos al kardex.
// @Tags         fulfillment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "order_id, counterparty_id, warehouse_id, document_date"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.CreateDocument(c.Context(), GetCompanyID(c), GetUserID(c), h.kind, in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// AddLine godoc
// @Summary      Agregar línea a un documento en DRAFT
// @Tags         fulfillment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Document ID"
// @Param        body  body  dto.DocumentLineRequest  true  "product_id, quantity, unit_price, order_line_id"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/lines [post]
func (h *DocumentHandler) AddLine(c *fiber.Ctx) error {
	var in dto.DocumentLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.AddLine(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(doc)
}

// UpdateLine godoc
// @Summary      Editar línea de un documento en DRAFT
// @Tags         fulfillment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "Document ID"
// @Param        lineId  path  string  true  "Line ID"
// @Param        body    body  dto.DocumentLineRequest  true  "quantity, unit_price"
// @Success      200     {object}  dto.DocumentResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/lines/{lineId} [put]
func (h *DocumentHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.DocumentLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.UpdateLine(c.Context(), GetCompanyID(c), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(doc)
}

// RemoveLine godoc
// @Summary      Eliminar línea de un documento en DRAFT
// @Tags         fulfillment
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "Document ID"
// @Param        lineId  path  string  true  "Line ID"
// @Success      200     {object}  dto.DocumentResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/lines/{lineId} [delete]
func (h *DocumentHandler) RemoveLine(c *fiber.Ctx) error {
	doc, err := h.uc.RemoveLine(c.Context(), GetCompanyID(c), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(doc)
}

// Confirm godoc
// @Summary      Confirmar documento
// @Description  Aplica los efectos al kardex y a las líneas del pedido en una
//	sola transacción. Recepción queda CONFIRMED; despacho queda SHIPPED.
//	Re-confirmar un documento ya aplicado es un no-op exitoso.
// @Tags         fulfillment
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	doc, err := h.uc.Confirm(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(doc)
}

// Complete godoc
// @Summary      Completar despacho
// @Description  Marca un despacho SHIPPED como COMPLETED (entregado). Cambio
//	administrativo: el stock ya salió al confirmar.
// @Tags         fulfillment
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/complete [post]
func (h *DocumentHandler) Complete(c *fiber.Ctx) error {
	doc, err := h.uc.Complete(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(doc)
}

// GetByID godoc
// @Summary      Obtener documento con sus líneas
// @Tags         fulfillment
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(doc)
}

// List godoc
// @Summary      Listar documentos
// @Tags         fulfillment
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/receipts [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), GetCompanyID(c), h.kind, page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}
