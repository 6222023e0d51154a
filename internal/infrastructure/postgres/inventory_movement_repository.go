package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id_movimiento, id_producto, tipo_movimiento, cantidad, descripcion, fecha_movimiento, id_venta`

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento y completa ID y Date.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	const query = `
		INSERT INTO inventario_movimientos (id_producto, tipo_movimiento, cantidad, descripcion, id_venta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_movimiento, fecha_movimiento`
	err := r.q.QueryRow(ctx, query, m.ProductID, m.Type, m.Quantity, m.Description, m.SaleID).
		Scan(&m.ID, &m.Date)
	return mapError("insert movimiento", err)
}

// List movimientos del más reciente al más antiguo, opcionalmente de un producto.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	limit, offset := page(f.Limit, f.Offset, 100, 500)
	qb := psql.Select(movementColumns).From("inventario_movimientos").
		OrderBy("id_movimiento DESC").Limit(limit).Offset(offset)
	if f.ProductID != nil {
		qb = qb.Where(squirrel.Eq{"id_producto": *f.ProductID})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, mapError("build list movimientos", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list movimientos", err)
	}
	defer rows.Close()
	list := []*entity.InventoryMovement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan movimiento", err)
		}
		list = append(list, m)
	}
	return list, mapError("list movimientos", rows.Err())
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Description, &m.Date, &m.SaleID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
