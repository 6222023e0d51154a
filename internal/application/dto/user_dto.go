package dto

import "time"

// CreateUserRequest entrada para crear un usuario. Password es opcional: sin él no puede iniciar sesión.
type CreateUserRequest struct {
	Name     string  `json:"nombre_usuario" validate:"required,min=1,max=100"`
	Email    string  `json:"correo" validate:"required,email"`
	Role     string  `json:"rol" validate:"omitempty,oneof=admin consulta"`
	PhotoURL *string `json:"foto_url,omitempty" validate:"omitempty,url"`
	Password string  `json:"password,omitempty" validate:"omitempty,min=8"`
}

// UpdateUserRequest campos editables de un usuario.
type UpdateUserRequest struct {
	Name     *string `json:"nombre_usuario" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"correo" validate:"omitempty,email"`
	Role     *string `json:"rol" validate:"omitempty,oneof=admin consulta"`
	PhotoURL *string `json:"foto_url" validate:"omitempty,url"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id_usuario"`
	Name      string    `json:"nombre_usuario"`
	Email     string    `json:"correo"`
	Role      string    `json:"rol"`
	PhotoURL  *string   `json:"foto_url,omitempty"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"creado_en"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UploadResponse URL pública del archivo subido.
type UploadResponse struct {
	URL string `json:"url"`
}
