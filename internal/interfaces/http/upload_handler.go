package http

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
)

// maxUploadBytes tope del archivo multipart; el storage aplica el mismo límite.
const maxUploadBytes = 5 << 20

type imageUploader func(ctx context.Context, id int64, filename, contentType string, data []byte) (string, error)

// UploadHandler sube imágenes de productos y fotos de usuarios (campo multipart "file").
type UploadHandler struct {
	productImage imageUploader
	userPhoto    imageUploader
}

// NewUploadHandler construye el handler a partir de los métodos de subida de cada caso de uso.
func NewUploadHandler(productImage, userPhoto imageUploader) *UploadHandler {
	return &UploadHandler{productImage: productImage, userPhoto: userPhoto}
}

// ProductImage godoc
// @Summary      Subir imagen de producto
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "ID del producto"
// @Param        file  formData  file  true  "Imagen"
// @Success      200   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/upload/productos/{id}/imagen [post]
func (h *UploadHandler) ProductImage(c *fiber.Ctx) error {
	return h.handle(c, h.productImage)
}

// UserPhoto godoc
// @Summary      Subir foto de usuario
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "ID del usuario"
// @Param        file  formData  file  true  "Imagen"
// @Success      200   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/upload/usuarios/{id}/foto [post]
func (h *UploadHandler) UserPhoto(c *fiber.Ctx) error {
	return h.handle(c, h.userPhoto)
}

func (h *UploadHandler) handle(c *fiber.Ctx, upload imageUploader) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	filename, contentType, data, err := readFormFile(c, "file")
	if err != nil {
		return writeError(c, err)
	}
	url, err := upload(c.Context(), id, filename, contentType, data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UploadResponse{URL: url})
}

// readFormFile lee el archivo multipart completo. Sin archivo o vacío → ErrInvalidInput.
func readFormFile(c *fiber.Ctx, field string) (filename, contentType string, data []byte, err error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", "", nil, domain.ErrInvalidInput
	}
	if fh.Size == 0 || fh.Size > maxUploadBytes {
		return "", "", nil, domain.ErrInvalidInput
	}
	f, err := fh.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	if err != nil {
		return "", "", nil, err
	}
	return fh.Filename, fh.Header.Get("Content-Type"), data, nil
}
