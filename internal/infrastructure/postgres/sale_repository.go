package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `v.id_venta, v.id_usuario, v.id_producto, v.cantidad_vendida, v.total_venta, v.fecha_venta, v.clave_idempotencia`

// SaleRepo ventas sobre PostgreSQL. Solo INSERT y SELECT: la tabla tiene trigger de inmutabilidad.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta y completa ID y SoldAt.
// Una clave de idempotencia repetida devuelve ErrDuplicate (constraint ventas_clave_idempotencia_key).
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	const query = `
		INSERT INTO ventas (id_usuario, id_producto, cantidad_vendida, total_venta, clave_idempotencia)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_venta, fecha_venta`
	err := r.q.QueryRow(ctx, query, s.UserID, s.ProductID, s.Quantity, s.Total, s.IdempotencyKey).
		Scan(&s.ID, &s.SoldAt)
	if isUniqueViolation(err, constraintIdempotencyKey) {
		return fmt.Errorf("insert venta: clave de idempotencia repetida: %w", domain.ErrDuplicate)
	}
	return mapError("insert venta", err)
}

// GetByID obtiene una venta; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM ventas v WHERE v.id_venta = $1`, id)
}

// GetByIdempotencyKey obtiene la venta registrada con esa clave; (nil, nil) si no hay.
func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM ventas v WHERE v.clave_idempotencia = $1`, key)
}

func (r *SaleRepo) getOne(ctx context.Context, query string, arg any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get venta", err)
	}
	return s, nil
}

// List ventas filtradas por fecha, producto y usuario, de la más reciente a la más antigua.
// OnlyActive excluye ventas de productos o usuarios dados de baja.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	limit, offset := page(f.Limit, f.Offset, 100, 500)
	qb := psql.Select(saleColumns).From("ventas v").OrderBy("v.id_venta DESC").Limit(limit).Offset(offset)
	if f.OnlyActive {
		qb = qb.
			Join("productos p ON p.id_producto = v.id_producto").
			Join("usuarios u ON u.id_usuario = v.id_usuario").
			Where(squirrel.Eq{"p.activo": true, "u.activo": true})
	}
	if f.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"v.fecha_venta": *f.From})
	}
	if f.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"v.fecha_venta": *f.To})
	}
	if f.ProductID != nil {
		qb = qb.Where(squirrel.Eq{"v.id_producto": *f.ProductID})
	}
	if f.UserID != nil {
		qb = qb.Where(squirrel.Eq{"v.id_usuario": *f.UserID})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, mapError("build list ventas", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list ventas", err)
	}
	defer rows.Close()
	list := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, mapError("scan venta", err)
		}
		list = append(list, s)
	}
	return list, mapError("list ventas", rows.Err())
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.UserID, &s.ProductID, &s.Quantity, &s.Total, &s.SoldAt, &s.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
