package inventory

import (
	"context"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/application/usecase"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

// RecordSaleFromRequest adapta el body HTTP a RecordSale. headerKey es el header Idempotency-Key;
// si el body trae clave, manda el body.
func (uc *LedgerUseCase) RecordSaleFromRequest(ctx context.Context, in dto.RecordSaleRequest, headerKey string) (*dto.SaleResponse, error) {
	key := in.IdempotencyKey
	if key == "" {
		key = headerKey
	}
	res, err := uc.RecordSale(ctx, SaleInput{
		UserID:         in.UserID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}
	out := ToSaleResponse(res.Sale)
	out.Replayed = res.Replayed
	return &out, nil
}

// RegisterMovementFromRequest adapta el body HTTP a RecordMovement.
func (uc *LedgerUseCase) RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	res, err := uc.RecordMovement(ctx, MovementInput{
		ProductID:   in.ProductID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(res.Movement)
	out.StockAfter = res.StockAfter
	return &out, nil
}

// ListSalesFromRequest traduce la query de GET /api/ventas a un SaleFilter.
func (uc *LedgerUseCase) ListSalesFromRequest(ctx context.Context, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	from, to, err := usecase.ParsePeriod(in.From, in.To)
	if err != nil {
		return nil, err
	}
	f := repository.SaleFilter{From: from, To: to, OnlyActive: in.OnlyActive, Limit: in.Limit, Offset: in.Offset}
	if in.ProductID > 0 {
		f.ProductID = &in.ProductID
	}
	if in.UserID > 0 {
		f.UserID = &in.UserID
	}
	list, err := uc.ListSales(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, ToSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// ListMovementsFromRequest lista movimientos; productID 0 = todos.
func (uc *LedgerUseCase) ListMovementsFromRequest(ctx context.Context, productID int64, limit, offset int) (*dto.MovementListResponse, error) {
	f := repository.MovementFilter{Limit: limit, Offset: offset}
	if productID > 0 {
		f.ProductID = &productID
	}
	list, err := uc.ListMovements(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// ToSaleResponse convierte una venta en su DTO.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		ProductID:      s.ProductID,
		Quantity:       s.Quantity,
		Total:          s.Total,
		SoldAt:         s.SoldAt,
		IdempotencyKey: s.IdempotencyKey,
	}
}

// ToMovementResponse convierte un movimiento en su DTO (sin stock resultante).
func ToMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Description: m.Description,
		Date:        m.Date,
		SaleID:      m.SaleID,
	}
}
