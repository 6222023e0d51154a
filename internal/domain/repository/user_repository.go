package repository

import (
	"context"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
)

// UserFilter filtros para listar usuarios.
type UserFilter struct {
	OnlyActive bool
	Limit      int
	Offset     int
}

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID y GetByEmail devuelven (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetForShare igual que GetByID pero con FOR SHARE: una desactivación concurrente espera al fin de la tx.
	GetForShare(ctx context.Context, id int64) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetPhotoURL(ctx context.Context, id int64, url string) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, error)
	// Deactivate es el borrado lógico (activo = false); las ventas siguen referenciando al usuario.
	Deactivate(ctx context.Context, id int64) error
}
