package summary

import (
	"context"

	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

// TxRunner ejecuta fn con el repositorio del caché atado a una transacción.
type TxRunner interface {
	RunSummary(ctx context.Context, fn func(summaryRepo repository.SalesSummaryRepository) error) error
}
