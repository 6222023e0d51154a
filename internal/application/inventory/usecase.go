package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/inventory"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
	"github.com/jhoicas/bar-inventario-api/pkg/logger"
	"github.com/jhoicas/bar-inventario-api/pkg/telemetry"
)

const instrumentationName = "bar-inventario/ledger"

// LedgerUseCase registra ventas y movimientos de forma transaccional.
// Cada operación bloquea la fila del producto (SELECT FOR UPDATE) y ajusta la cantidad con un
// UPDATE condicional, por lo que dos ventas concurrentes del mismo producto nunca dejan stock negativo.
type LedgerUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	movRepo  repository.InventoryMovementRepository
	log      *logger.Logger

	salesCounter        metric.Int64Counter
	movementsCounter    metric.Int64Counter
	insufficientCounter metric.Int64Counter
}

// NewLedgerUseCase construye el caso de uso. saleRepo y movRepo son los de lectura (pool).
func NewLedgerUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	movRepo repository.InventoryMovementRepository,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		movRepo:  movRepo,
		log:      log.Component("ledger"),

		salesCounter:        telemetry.Counter(instrumentationName, "ventas_registradas", "ventas confirmadas"),
		movementsCounter:    telemetry.Counter(instrumentationName, "movimientos_registrados", "movimientos manuales confirmados"),
		insufficientCounter: telemetry.Counter(instrumentationName, "stock_insuficiente", "operaciones rechazadas por falta de stock"),
	}
}

// SaleInput datos de una venta.
type SaleInput struct {
	UserID         int64
	ProductID      int64
	Quantity       int
	IdempotencyKey string // opcional, UUID
}

// SaleResult venta registrada (o reproducida) y si fue un reintento.
type SaleResult struct {
	Sale     *entity.Sale
	Replayed bool
}

// RecordSale descuenta stock, inserta la venta y su movimiento de salida en una sola transacción.
// Con clave de idempotencia, un reintento con los mismos datos devuelve la venta original sin mutar nada;
// la misma clave con datos distintos es ErrConflict.
func (uc *LedgerUseCase) RecordSale(ctx context.Context, in SaleInput) (result *SaleResult, err error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "ledger.RecordSale")
	span.SetAttributes(
		attribute.Int64("venta.id_usuario", in.UserID),
		attribute.Int64("venta.id_producto", in.ProductID),
		attribute.Int("venta.cantidad", in.Quantity),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if in.Quantity <= 0 || in.UserID <= 0 || in.ProductID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var key *string
	if k := strings.TrimSpace(in.IdempotencyKey); k != "" {
		if _, perr := uuid.Parse(k); perr != nil {
			return nil, fmt.Errorf("clave de idempotencia: %w", domain.ErrInvalidInput)
		}
		key = &k
	}

	result = &SaleResult{}
	err = uc.txRunner.Run(ctx, func(
		userRepo repository.UserRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		// La clave se consulta con la fila del producto ya bloqueada: si otra tx con la misma
		// clave confirmó mientras esperábamos, su venta ya es visible aquí.
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if key != nil {
			prev, err := saleRepo.GetByIdempotencyKey(ctx, *key)
			if err != nil {
				return err
			}
			if prev != nil {
				if !sameSale(prev, in) {
					return fmt.Errorf("clave %s usada con otros datos: %w", *key, domain.ErrConflict)
				}
				result.Sale, result.Replayed = prev, true
				return nil
			}
		}
		// FOR SHARE: una desactivación concurrente del usuario espera a que la venta confirme.
		user, err := userRepo.GetForShare(ctx, in.UserID)
		if err != nil {
			return err
		}
		if user == nil || !user.Active {
			return domain.ErrUserNotFound
		}
		if product == nil || !product.Active {
			return domain.ErrProductNotFound
		}
		if _, err := inventory.ApplyMovement(product.Quantity, entity.MovementTypeSalida, in.Quantity); err != nil {
			return err
		}
		if _, err := productRepo.AdjustQuantity(ctx, product.ID, -in.Quantity); err != nil {
			return err
		}

		sale := &entity.Sale{
			UserID:         in.UserID,
			ProductID:      product.ID,
			Quantity:       in.Quantity,
			Total:          inventory.SaleTotal(product.Price, in.Quantity),
			IdempotencyKey: key,
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		desc := entity.SaleMovementDescription
		mov := &entity.InventoryMovement{
			ProductID:   product.ID,
			Type:        entity.MovementTypeSalida,
			Quantity:    in.Quantity,
			Description: &desc,
			SaleID:      &sale.ID,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		result.Sale = sale
		return nil
	})

	// Dos envíos simultáneos con la misma clave: el perdedor puede chocar con el UNIQUE o
	// encontrar el stock ya consumido por el ganador. Si la clave ya tiene venta, se devuelve esa.
	if err != nil && key != nil && (errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrInsufficientStock)) {
		prev, gerr := uc.saleRepo.GetByIdempotencyKey(ctx, *key)
		if gerr == nil && prev != nil {
			if !sameSale(prev, in) {
				return nil, fmt.Errorf("clave %s usada con otros datos: %w", *key, domain.ErrConflict)
			}
			result.Sale, result.Replayed, err = prev, true, nil
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.insufficientCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operacion", "venta")))
		}
		return nil, err
	}

	if result.Replayed {
		uc.log.Debug().Int64("id_venta", result.Sale.ID).Str("clave", *key).Msg("venta reproducida por clave de idempotencia")
		span.SetAttributes(attribute.Bool("venta.reintento", true))
		return result, nil
	}
	uc.salesCounter.Add(ctx, 1)
	span.SetAttributes(attribute.Int64("venta.id", result.Sale.ID))
	uc.log.Info().
		Int64("id_venta", result.Sale.ID).
		Int64("id_producto", result.Sale.ProductID).
		Int("cantidad", result.Sale.Quantity).
		Str("total", result.Sale.Total.StringFixed(2)).
		Msg("venta registrada")
	return result, nil
}

func sameSale(s *entity.Sale, in SaleInput) bool {
	return s.UserID == in.UserID && s.ProductID == in.ProductID && s.Quantity == in.Quantity
}

// MovementInput datos de un movimiento manual.
type MovementInput struct {
	ProductID   int64
	Type        string
	Quantity    int
	Description string
}

// MovementResult movimiento confirmado y stock resultante.
type MovementResult struct {
	Movement   *entity.InventoryMovement
	StockAfter int
}

// RecordMovement aplica una entrada o salida manual y registra exactamente un movimiento.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (result *MovementResult, err error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "ledger.RecordMovement")
	span.SetAttributes(
		attribute.Int64("movimiento.id_producto", in.ProductID),
		attribute.String("movimiento.tipo", in.Type),
		attribute.Int("movimiento.cantidad", in.Quantity),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if !inventory.ValidMovementType(in.Type) {
		return nil, domain.ErrInvalidMovementType
	}
	if in.Quantity <= 0 || in.ProductID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	result = &MovementResult{}
	err = uc.txRunner.Run(ctx, func(
		_ repository.UserRepository,
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.Active {
			return domain.ErrProductNotFound
		}
		if _, err := inventory.ApplyMovement(product.Quantity, in.Type, in.Quantity); err != nil {
			return err
		}
		stock, err := productRepo.AdjustQuantity(ctx, product.ID, inventory.Delta(in.Type, in.Quantity))
		if err != nil {
			return err
		}

		mov := &entity.InventoryMovement{
			ProductID: product.ID,
			Type:      in.Type,
			Quantity:  in.Quantity,
		}
		if d := strings.TrimSpace(in.Description); d != "" {
			mov.Description = &d
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		result.Movement, result.StockAfter = mov, stock
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.insufficientCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operacion", "movimiento")))
		}
		return nil, err
	}

	uc.movementsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("tipo", in.Type)))
	uc.log.Info().
		Int64("id_movimiento", result.Movement.ID).
		Int64("id_producto", in.ProductID).
		Str("tipo", in.Type).
		Int("cantidad", in.Quantity).
		Int("stock", result.StockAfter).
		Msg("movimiento registrado")
	return result, nil
}

// GetSale obtiene una venta por ID.
func (uc *LedgerUseCase) GetSale(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	return sale, nil
}

// ListSales lista ventas con filtros.
func (uc *LedgerUseCase) ListSales(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, fmt.Errorf("desde posterior a hasta: %w", domain.ErrInvalidInput)
	}
	return uc.saleRepo.List(ctx, f)
}

// ListMovements lista movimientos, opcionalmente de un producto.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return uc.movRepo.List(ctx, f)
}
