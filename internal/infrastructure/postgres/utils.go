package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/bar-inventario-api/internal/domain"
)

// Querier es el subconjunto común de *pgxpool.Pool y pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builder de squirrel con placeholders $1, $2...
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Constraints con traducción específica a error de dominio.
const (
	constraintEmailUnique    = "usuarios_correo_key"
	constraintQuantityCheck  = "productos_cantidad_check"
	constraintIdempotencyKey = "ventas_clave_idempotencia_key"
)

// mapError traduce errores de PostgreSQL a errores de dominio.
// 23505 unique, 23503 foreign key, 23514 check; el resto es ErrStorage envolviendo el original.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == constraintEmailUnique {
				return domain.ErrEmailAlreadyExists
			}
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrDuplicate)
		case "23503":
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrNotFound)
		case "23514":
			if pgErr.ConstraintName == constraintQuantityCheck {
				return domain.ErrInsufficientStock
			}
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return false
}

// likePattern arma "%q%" escapando los comodines de LIKE.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

// page aplica límite por defecto y tope a un listado.
func page(limit, offset, def, max int) (uint64, uint64) {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return uint64(limit), uint64(offset)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
