package http

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
)

// reportService lo implementa *usecase.AnalyticsUseCase (consultas en vivo).
type reportService interface {
	SalesSummary(ctx context.Context, req dto.SalesSummaryRequest) (*dto.SalesSummaryDTO, error)
	TopSellers(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error)
	BottomSellers(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error)
	StockReconciliation(ctx context.Context) ([]dto.StockReconciliationDTO, error)
}

// summaryService lo implementa *summary.UseCase (caché materializado).
type summaryService interface {
	Rebuild(ctx context.Context) (*dto.RebuildResultDTO, error)
	MostSold(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error)
	LeastSold(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error)
}

// reportRenderer lo implementa *pdf.SalesReportGenerator.
type reportRenderer interface {
	Generate(ctx context.Context, summary *dto.SalesSummaryDTO, top []dto.ProductSalesDTO) ([]byte, error)
}

// pdfTopProducts filas del ranking incluidas en el PDF.
const pdfTopProducts = 10

// AnalyticsHandler maneja los endpoints de /api/reportes.
type AnalyticsHandler struct {
	reports reportService
	summary summaryService
	pdf     reportRenderer
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(reports reportService, summary summaryService, pdf reportRenderer) *AnalyticsHandler {
	return &AnalyticsHandler{reports: reports, summary: summary, pdf: pdf}
}

// Rebuild godoc
// @Summary      Reconstruir el caché de más y menos vendidos
// @Description  Reemplaza el contenido en una sola transacción; los lectores nunca ven un caché vacío a medias.
// @Tags         reportes
// @Security     Bearer
// @Success      204
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reportes/rebuild [post]
func (h *AnalyticsHandler) Rebuild(c *fiber.Ctx) error {
	if _, err := h.summary.Rebuild(c.Context()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MostSold godoc
// @Summary      Más vendidos (caché)
// @Description  Lee el último rebuild; puede estar desactualizado respecto de las ventas recientes.
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "1..100"  default(10)
// @Success      200  {array}   dto.ProductSalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/mas-vendidos [get]
func (h *AnalyticsHandler) MostSold(c *fiber.Ctx) error {
	return h.list(c, h.summary.MostSold)
}

// LeastSold godoc
// @Summary      Menos vendidos (caché)
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "1..100"  default(10)
// @Success      200  {array}   dto.ProductSalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/menos-vendidos [get]
func (h *AnalyticsHandler) LeastSold(c *fiber.Ctx) error {
	return h.list(c, h.summary.LeastSold)
}

// TopSellers godoc
// @Summary      Más vendidos (en vivo)
// @Description  Ranking sobre las ventas actuales; productos sin ventas cuentan 0.
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "1..100"  default(10)
// @Success      200  {array}   dto.ProductSalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/top [get]
func (h *AnalyticsHandler) TopSellers(c *fiber.Ctx) error {
	return h.list(c, h.reports.TopSellers)
}

// BottomSellers godoc
// @Summary      Menos vendidos (en vivo)
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "1..100"  default(10)
// @Success      200  {array}   dto.ProductSalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/bottom [get]
func (h *AnalyticsHandler) BottomSellers(c *fiber.Ctx) error {
	return h.list(c, h.reports.BottomSellers)
}

func (h *AnalyticsHandler) list(c *fiber.Ctx, fn func(context.Context, int) ([]dto.ProductSalesDTO, error)) error {
	limit, err := queryLimit(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := fn(c.Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesSummary godoc
// @Summary      Resumen de ventas
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  false  "RFC3339 o YYYY-MM-DD (inclusivo)"
// @Param        hasta  query  string  false  "RFC3339 o YYYY-MM-DD (inclusivo, día completo)"
// @Success      200  {object}  dto.SalesSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/resumen [get]
func (h *AnalyticsHandler) SalesSummary(c *fiber.Ctx) error {
	var req dto.SalesSummaryRequest
	if err := bindQuery(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.SalesSummary(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockReconciliation godoc
// @Summary      Conciliación de stock
// @Description  Compara la cantidad de cada producto con Σentradas − Σsalidas. Solo informa, no corrige.
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockReconciliationDTO
// @Router       /api/reportes/conciliacion [get]
func (h *AnalyticsHandler) StockReconciliation(c *fiber.Ctx) error {
	out, err := h.reports.StockReconciliation(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesReportPDF godoc
// @Summary      Resumen de ventas en PDF
// @Tags         reportes
// @Security     Bearer
// @Produce      application/pdf
// @Param        desde  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        hasta  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/resumen.pdf [get]
func (h *AnalyticsHandler) SalesReportPDF(c *fiber.Ctx) error {
	var req dto.SalesSummaryRequest
	if err := bindQuery(c, &req); err != nil {
		return writeError(c, err)
	}
	summary, err := h.reports.SalesSummary(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	top, err := h.reports.TopSellers(c.Context(), pdfTopProducts)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.pdf.Generate(c.Context(), summary, top)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="resumen-ventas.pdf"`)
	return c.Send(doc)
}

// queryLimit lee ?limit; ausente = 0 (el caso de uso aplica el default).
func queryLimit(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return n, nil
}
