package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/reporting"
)

// DashboardHandler maneja los reportes de inventario (protegido).
type DashboardHandler struct {
	dashboardUC *reporting.DashboardUseCase
	valuationUC *reporting.ValuationReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboardUC *reporting.DashboardUseCase, valuationUC *reporting.ValuationReportUseCase) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC, valuationUC: valuationUC}
}

// StockDashboard godoc
// @Summary      Dashboard de inventario
// @Description  Resumen (SKUs, valorización, conteos), bajos de stock,
//	agotados, top 5 por valor y transacciones recientes.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard/stock [get]
func (h *DashboardHandler) StockDashboard(c *fiber.Ctx) error {
	resp, err := h.dashboardUC.StockDashboard(c.Context(), GetCompanyID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// ValuationPDF godoc
// @Summary      Reporte de valorización de inventario en PDF
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/dashboard/valuation.pdf [get]
func (h *DashboardHandler) ValuationPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.valuationUC.GeneratePDF(c.Context(), GetCompanyID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	filename := fmt.Sprintf("valorizacion-%s.pdf", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
