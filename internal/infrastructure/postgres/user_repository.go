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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id_usuario, nombre_usuario, correo, rol, foto_url, COALESCE(password_hash, ''), activo, creado_en`

// UserRepo implementación de UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste el usuario. Correo duplicado → ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const query = `
		INSERT INTO usuarios (nombre_usuario, correo, rol, foto_url, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_usuario, activo, creado_en`
	err := r.q.QueryRow(ctx, query, u.Name, u.Email, u.Role, u.PhotoURL, nullIfEmpty(u.PasswordHash)).
		Scan(&u.ID, &u.Active, &u.CreatedAt)
	return mapError("insert usuario", err)
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id_usuario = $1`, id)
}

// GetByEmail obtiene un usuario por correo; (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE correo = $1`, email)
}

// GetForShare bloquea la fila del usuario en modo compartido hasta el fin de la tx.
func (r *UserRepo) GetForShare(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id_usuario = $1 FOR SHARE`, id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get usuario", err)
	}
	return u, nil
}

// Update actualiza nombre, correo, rol, foto y estado.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	const query = `
		UPDATE usuarios SET nombre_usuario = $2, correo = $3, rol = $4, foto_url = $5, activo = $6
		WHERE id_usuario = $1`
	cmd, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Email, u.Role, u.PhotoURL, u.Active)
	if err != nil {
		return mapError("update usuario", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetPhotoURL guarda la URL pública de la foto.
func (r *UserRepo) SetPhotoURL(ctx context.Context, id int64, url string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE usuarios SET foto_url = $2 WHERE id_usuario = $1`, id, url)
	if err != nil {
		return mapError("update foto usuario", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista usuarios ordenados por id.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, error) {
	limit, offset := page(f.Limit, f.Offset, 50, 100)
	qb := psql.Select(userColumns).From("usuarios").OrderBy("id_usuario").Limit(limit).Offset(offset)
	if f.OnlyActive {
		qb = qb.Where(squirrel.Eq{"activo": true})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, mapError("build list usuarios", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list usuarios", err)
	}
	defer rows.Close()
	list := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("scan usuario", err)
		}
		list = append(list, u)
	}
	return list, mapError("list usuarios", rows.Err())
}

// Deactivate borrado lógico del usuario.
func (r *UserRepo) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE usuarios SET activo = FALSE WHERE id_usuario = $1`, id)
	if err != nil {
		return mapError("desactivar usuario", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PhotoURL, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
