package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id_producto, nombre, categoria, marca, cantidad, precio_venta, imagen_url, activo, fecha_agregado`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto con su cantidad inicial (sin movimiento asociado).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const query = `
		INSERT INTO productos (nombre, categoria, marca, cantidad, precio_venta, imagen_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_producto, activo, fecha_agregado`
	err := r.q.QueryRow(ctx, query, p.Name, p.Category, p.Brand, p.Quantity, p.Price, p.ImageURL).
		Scan(&p.ID, &p.Active, &p.CreatedAt)
	return mapError("insert producto", err)
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM productos WHERE id_producto = $1`, id)
}

// GetForUpdate igual que GetByID pero bloqueando la fila hasta el fin de la tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM productos WHERE id_producto = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get producto", err)
	}
	return p, nil
}

// Update actualiza datos descriptivos y precio. La cantidad no se toca aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	const query = `
		UPDATE productos SET nombre = $2, categoria = $3, marca = $4, precio_venta = $5, imagen_url = $6, activo = $7
		WHERE id_producto = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Category, p.Brand, p.Price, p.ImageURL, p.Active)
	if err != nil {
		return mapError("update producto", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AdjustQuantity suma delta a la cantidad con un UPDATE condicional: si el resultado fuese
// negativo no se afecta ninguna fila y se devuelve ErrInsufficientStock.
// Se usa después de GetForUpdate, por lo que la ausencia de fila no puede deberse a un producto inexistente.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	const query = `
		UPDATE productos SET cantidad = cantidad + $2
		WHERE id_producto = $1 AND cantidad + $2 >= 0
		RETURNING cantidad`
	var qty int
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, mapError("ajustar cantidad", err)
	}
	return qty, nil
}

// SetImageURL guarda la URL pública devuelta por el storage.
func (r *ProductRepo) SetImageURL(ctx context.Context, id int64, url string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE productos SET imagen_url = $2 WHERE id_producto = $1`, id, url)
	if err != nil {
		return mapError("update imagen producto", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Search busca por nombre, categoría o marca (ILIKE) con paginación; orden por id.
func (r *ProductRepo) Search(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	limit, offset := page(f.Limit, f.Offset, 50, 100)
	qb := psql.Select(productColumns).From("productos").OrderBy("id_producto").Limit(limit).Offset(offset)
	if f.Query != "" {
		pattern := likePattern(f.Query)
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"nombre": pattern},
			squirrel.ILike{"categoria": pattern},
			squirrel.ILike{"marca": pattern},
		})
	}
	if f.OnlyActive {
		qb = qb.Where(squirrel.Eq{"activo": true})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, mapError("build search productos", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("search productos", err)
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("scan producto", err)
		}
		list = append(list, p)
	}
	return list, mapError("search productos", rows.Err())
}

// Deactivate borrado lógico; las ventas y movimientos siguen apuntando al producto.
func (r *ProductRepo) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE productos SET activo = FALSE WHERE id_producto = $1`, id)
	if err != nil {
		return mapError("desactivar producto", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Brand, &p.Quantity, &p.Price, &p.ImageURL, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
