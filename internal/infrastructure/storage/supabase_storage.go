// Package storage sube imágenes de productos y fotos de usuarios a Supabase Storage.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/bar-inventario-api/internal/application/ports"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/pkg/config"
)

// Verificar en tiempo de compilación que SupabaseStorage implementa ImageStorage.
var _ ports.ImageStorage = (*SupabaseStorage)(nil)

// maxImageBytes tope de tamaño aceptado para una imagen.
const maxImageBytes = 5 << 20

// SupabaseStorage adaptador REST de Supabase Storage (PUT /storage/v1/object/{bucket}/{ruta}).
type SupabaseStorage struct {
	baseURL string
	bucket  string
	client  *resty.Client
}

// NewSupabaseStorage construye el adaptador. Devuelve nil si faltan credenciales;
// los casos de uso tratan un storage nil como "subidas deshabilitadas".
func NewSupabaseStorage(cfg config.StorageConfig) *SupabaseStorage {
	if !cfg.Enabled() {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(timeout).
		SetAuthToken(cfg.ServiceRole).
		SetHeader("apikey", cfg.ServiceRole)
	return &SupabaseStorage{baseURL: cfg.URL, bucket: cfg.Bucket, client: client}
}

type supabaseError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Upload sube data con un nombre único dentro de folder y devuelve la URL pública.
func (s *SupabaseStorage) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("storage: archivo vacío: %w", domain.ErrInvalidInput)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("storage: archivo de %d bytes excede el máximo: %w", len(data), domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("storage: tipo %q no es una imagen: %w", contentType, domain.ErrInvalidInput)
	}

	objectPath := path.Join(folder, uuid.NewString()+strings.ToLower(path.Ext(filename)))
	var apiErr supabaseError
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(data).
		SetError(&apiErr).
		SetPathParams(map[string]string{"bucket": s.bucket}).
		Put("/storage/v1/object/{bucket}/" + objectPath)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("storage: timeout o cancelación: %w: %w", domain.ErrUpload, ctx.Err())
		}
		return "", fmt.Errorf("storage: llamada HTTP fallida: %w: %w", domain.ErrUpload, err)
	}
	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("storage: Supabase HTTP %d: %s: %w", resp.StatusCode(), msg, domain.ErrUpload)
	}
	return s.PublicURL(objectPath), nil
}

// PublicURL URL pública de un objeto del bucket.
func (s *SupabaseStorage) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}
