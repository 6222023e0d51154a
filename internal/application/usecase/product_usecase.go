package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/application/ports"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La cantidad solo cambia vía ventas y movimientos.
type ProductUseCase struct {
	repo    repository.ProductRepository
	storage ports.ImageStorage // nil si Supabase no está configurado
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, storage ports.ImageStorage) *ProductUseCase {
	return &ProductUseCase{repo: repo, storage: storage}
}

// Create crea un producto. La cantidad inicial no genera movimiento, por lo que la conciliación la
// mostrará como diferencia hasta que se registre una entrada equivalente.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	product := &entity.Product{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Brand:    strings.TrimSpace(in.Brand),
		Quantity: in.Quantity,
		Price:    in.Price.Round(2),
		ImageURL: in.ImageURL,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// Update actualiza nombre, categoría, marca, precio e imagen. No permite modificar la cantidad.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Brand != nil {
		product.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		product.Price = in.Price.Round(2)
	}
	if in.ImageURL != nil {
		product.ImageURL = in.ImageURL
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Search busca por nombre, categoría o marca.
func (uc *ProductUseCase) Search(ctx context.Context, in dto.ProductSearchRequest) (*dto.ProductListResponse, error) {
	list, err := uc.repo.Search(ctx, repository.ProductFilter{
		Query:      in.Query,
		OnlyActive: in.OnlyActive,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete da de baja el producto (borrado lógico).
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Deactivate(ctx, id)
}

// UploadImage sube la imagen al storage y guarda la URL pública en el producto.
func (uc *ProductUseCase) UploadImage(ctx context.Context, id int64, filename, contentType string, data []byte) (string, error) {
	if uc.storage == nil {
		return "", domain.ErrUpload
	}
	if _, err := uc.get(ctx, id); err != nil {
		return "", err
	}
	url, err := uc.storage.Upload(ctx, ports.FolderProducts, filename, contentType, data)
	if err != nil {
		return "", err
	}
	if err := uc.repo.SetImageURL(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

// CreateWithImage crea el producto y, si llega archivo, sube la imagen. Usado por el formulario web.
// Un fallo de subida no deshace el producto: queda sin imagen y se devuelve el error.
func (uc *ProductUseCase) CreateWithImage(ctx context.Context, in dto.CreateProductRequest, filename, contentType string, data []byte) (*dto.ProductResponse, error) {
	created, err := uc.Create(ctx, in)
	if err != nil || len(data) == 0 {
		return created, err
	}
	url, err := uc.UploadImage(ctx, created.ID, filename, contentType, data)
	if err != nil {
		return created, err
	}
	created.ImageURL = &url
	return created, nil
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Brand:     p.Brand,
		Quantity:  p.Quantity,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}
