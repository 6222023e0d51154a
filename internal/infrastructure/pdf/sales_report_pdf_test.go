package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
)

func TestSalesReportGenerator_Generate(t *testing.T) {
	g := NewSalesReportGenerator("Bar La Esquina")
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	summary := &dto.SalesSummaryDTO{
		From: &from, TotalSales: 42, UnitsSold: 120,
		TotalAmount: decimal.RequireFromString("1250000"), AverageTicket: decimal.RequireFromString("29761.90"),
	}
	top := []dto.ProductSalesDTO{{ProductID: 1, Name: "Club Colombia", TotalSold: 80}, {ProductID: 2, Name: "Ron", TotalSold: 40}}

	out, err := g.Generate(context.Background(), summary, top)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := g.Generate(context.Background(), &dto.SalesSummaryDTO{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}

func TestPeriodLabel(t *testing.T) {
	d1 := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "histórico", periodLabel(nil, nil))
	assert.Equal(t, "desde 05/01/2026", periodLabel(&d1, nil))
	assert.Equal(t, "hasta 31/01/2026", periodLabel(nil, &d2))
	assert.Equal(t, "05/01/2026 – 31/01/2026", periodLabel(&d1, &d2))
}
