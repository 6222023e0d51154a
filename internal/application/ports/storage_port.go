package ports

import "context"

// Carpetas del bucket.
const (
	FolderProducts = "productos"
	FolderUsers    = "usuarios"
)

// ImageStorage puerto de salida para subir imágenes (Supabase Storage u otro).
// Devuelve la URL pública; la aplicación solo la guarda, nunca la descarga.
type ImageStorage interface {
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error)
}
