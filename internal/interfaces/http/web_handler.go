package http

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/pkg/money"
)

//go:embed templates/*.html
var templatesFS embed.FS

var productsPage = template.Must(template.ParseFS(templatesFS, "templates/productos.html"))

// productCatalog lo implementa *usecase.ProductUseCase.
type productCatalog interface {
	Search(ctx context.Context, in dto.ProductSearchRequest) (*dto.ProductListResponse, error)
	CreateWithImage(ctx context.Context, in dto.CreateProductRequest, filename, contentType string, data []byte) (*dto.ProductResponse, error)
}

// WebHandler vistas HTML del catálogo.
type WebHandler struct {
	products productCatalog
	barName  string
}

// NewWebHandler construye el handler de vistas.
func NewWebHandler(products productCatalog, barName string) *WebHandler {
	return &WebHandler{products: products, barName: barName}
}

type productRow struct {
	Name, Category, Brand string
	Quantity              string
	Price                 string
	ImageURL              *string
	Active                bool
}

// ListProducts GET /web/productos?q=
func (h *WebHandler) ListProducts(c *fiber.Ctx) error {
	q := c.Query("q")
	list, err := h.products.Search(c.Context(), dto.ProductSearchRequest{Query: q, Limit: 100})
	if err != nil {
		return writeError(c, err)
	}
	rows := make([]productRow, 0, len(list.Items))
	for _, p := range list.Items {
		rows = append(rows, productRow{
			Name: p.Name, Category: p.Category, Brand: p.Brand,
			Quantity: money.FormatUnits(int64(p.Quantity)),
			Price:    money.Format(p.Price),
			ImageURL: p.ImageURL,
			Active:   p.Active,
		})
	}

	var buf bytes.Buffer
	if err := productsPage.Execute(&buf, map[string]any{"Bar": h.barName, "Query": q, "Items": rows}); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// CreateProduct POST /web/productos/nuevo (multipart; "imagen" opcional). Redirige al listado.
func (h *WebHandler) CreateProduct(c *fiber.Ctx) error {
	in, err := productFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}

	var filename, contentType string
	var data []byte
	if fh, ferr := c.FormFile("imagen"); ferr == nil && fh.Size > 0 {
		if filename, contentType, data, err = readFormFile(c, "imagen"); err != nil {
			return writeError(c, err)
		}
	}
	if _, err := h.products.CreateWithImage(c.Context(), in, filename, contentType, data); err != nil {
		return writeError(c, err)
	}
	return c.Redirect("/web/productos", fiber.StatusFound)
}

func productFromForm(c *fiber.Ctx) (dto.CreateProductRequest, error) {
	in := dto.CreateProductRequest{
		Name:     strings.TrimSpace(c.FormValue("nombre")),
		Category: strings.TrimSpace(c.FormValue("categoria")),
		Brand:    strings.TrimSpace(c.FormValue("marca")),
	}
	if raw := strings.TrimSpace(c.FormValue("cantidad")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, domain.ErrInvalidInput
		}
		in.Quantity = n
	}
	price, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("precio_venta")))
	if err != nil {
		return in, domain.ErrInvalidInput
	}
	in.Price = price
	return in, nil
}
