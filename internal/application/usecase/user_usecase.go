package usecase

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/application/ports"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo    repository.UserRepository
	storage ports.ImageStorage // nil si Supabase no está configurado
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, storage ports.ImageStorage) *UserUseCase {
	return &UserUseCase{repo: repo, storage: storage}
}

// Create registra un usuario. El correo se guarda en minúsculas; un correo repetido es ErrEmailAlreadyExists.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleConsulta
	}
	if !entity.ValidRole(role) || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	user := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    NormalizeEmail(in.Email),
		Role:     role,
		PhotoURL: in.PhotoURL,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// GetByID obtiene un usuario por ID (activo o no).
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *UserUseCase) get(ctx context.Context, id int64) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(ctx context.Context, onlyActive bool, limit, offset int) (*dto.UserListResponse, error) {
	list, err := uc.repo.List(ctx, repository.UserFilter{OnlyActive: onlyActive, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update modifica los campos enviados.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = NormalizeEmail(*in.Email)
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, domain.ErrInvalidInput
		}
		user.Role = *in.Role
	}
	if in.PhotoURL != nil {
		user.PhotoURL = in.PhotoURL
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete da de baja al usuario (borrado lógico). Sus ventas se conservan.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Deactivate(ctx, id)
}

// UploadPhoto sube la foto al storage y guarda la URL pública.
func (uc *UserUseCase) UploadPhoto(ctx context.Context, id int64, filename, contentType string, data []byte) (string, error) {
	if uc.storage == nil {
		return "", domain.ErrUpload
	}
	if _, err := uc.get(ctx, id); err != nil {
		return "", err
	}
	url, err := uc.storage.Upload(ctx, ports.FolderUsers, filename, contentType, data)
	if err != nil {
		return "", err
	}
	if err := uc.repo.SetPhotoURL(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

// NormalizeEmail correo en minúsculas y sin espacios.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		PhotoURL:  u.PhotoURL,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserResponse exportado para auth.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return *toUserResponse(u)
}
