package postgres

import (
	"context"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

var _ repository.SalesSummaryRepository = (*SalesSummaryRepo)(nil)

// SalesSummaryRepo caché materializado resumen_ventas_producto.
type SalesSummaryRepo struct {
	q Querier
}

// NewSalesSummaryRepository construye el adaptador. Clear y Populate requieren una tx (RunSummary).
func NewSalesSummaryRepository(q Querier) *SalesSummaryRepo {
	return &SalesSummaryRepo{q: q}
}

// Clear bloquea la tabla frente a otros rebuilds y borra todas las filas.
// EXCLUSIVE permite lecturas concurrentes: los lectores siguen viendo el estado anterior hasta el Commit.
func (r *SalesSummaryRepo) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `LOCK TABLE resumen_ventas_producto IN EXCLUSIVE MODE`); err != nil {
		return mapError("lock resumen", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM resumen_ventas_producto`); err != nil {
		return mapError("delete resumen", err)
	}
	return nil
}

// Populate recalcula el total vendido por producto desde ventas.
func (r *SalesSummaryRepo) Populate(ctx context.Context) (int64, error) {
	const query = `
	INSERT INTO resumen_ventas_producto (id_producto, nombre, total_vendido, actualizado_en)
	SELECT v.id_producto, p.nombre, SUM(v.cantidad_vendida), now()
	FROM ventas v
	JOIN productos p ON p.id_producto = v.id_producto
	GROUP BY v.id_producto, p.nombre`
	cmd, err := r.q.Exec(ctx, query)
	if err != nil {
		return 0, mapError("populate resumen", err)
	}
	return cmd.RowsAffected(), nil
}

// List lee el caché ordenado por total (desc = más vendidos, asc = menos vendidos), empates por id.
func (r *SalesSummaryRepo) List(ctx context.Context, limit int, ascending bool) ([]*entity.SalesSummaryEntry, error) {
	order := "total_vendido DESC"
	if ascending {
		order = "total_vendido ASC"
	}
	query, args, err := psql.
		Select("id_producto", "nombre", "total_vendido", "actualizado_en").
		From("resumen_ventas_producto").
		OrderBy(order, "id_producto ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, mapError("build list resumen", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list resumen", err)
	}
	defer rows.Close()
	list := []*entity.SalesSummaryEntry{}
	for rows.Next() {
		var e entity.SalesSummaryEntry
		if err := rows.Scan(&e.ProductID, &e.Name, &e.TotalSold, &e.UpdatedAt); err != nil {
			return nil, mapError("scan resumen", err)
		}
		list = append(list, &e)
	}
	return list, mapError("list resumen", rows.Err())
}
