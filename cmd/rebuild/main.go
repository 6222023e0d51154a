// rebuild reconstruye el caché de más y menos vendidos desde la línea de comandos.
//
// Uso: go run ./cmd/rebuild [-migrate] [-timeout 2m]
// Lee la misma configuración que la API (DATABASE_URL, DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/bar-inventario-api/internal/application/summary"
	"github.com/jhoicas/bar-inventario-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bar-inventario-api/pkg/config"
	"github.com/jhoicas/bar-inventario-api/pkg/logger"
)

func main() {
	migrate := flag.Bool("migrate", false, "aplicar migraciones pendientes antes del rebuild")
	timeout := flag.Duration("timeout", 2*time.Minute, "tiempo máximo de la operación")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, log, *migrate); err != nil {
		log.Error().Err(err).Msg("rebuild")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) error {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	if migrate {
		if _, err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migraciones: %w", err)
		}
	}

	uc := summary.NewUseCase(postgres.NewTxRunner(pool), postgres.NewSalesSummaryRepository(pool), log)
	res, err := uc.Rebuild(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("resumen reconstruido: %d productos en %d ms\n", res.Rows, res.DurationMS)
	return nil
}
