// Package worker contiene las tareas en segundo plano del servicio.
package worker

import (
	"context"
	"time"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/pkg/logger"
)

// Rebuilder lo implementa summary.UseCase.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*dto.RebuildResultDTO, error)
}

// StartRebuildCron reconstruye el resumen de ventas cada interval hasta que ctx se cancele.
// Devuelve un canal que se cierra cuando la goroutine termina. interval <= 0 no arranca nada.
func StartRebuildCron(ctx context.Context, r Rebuilder, interval time.Duration, log *logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	log = log.Component("rebuild_cron")

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("intervalo", interval).Msg("rebuild programado iniciado")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("rebuild programado detenido")
				return
			case <-ticker.C:
				// Un fallo deja el caché anterior intacto; se reintenta en el próximo tick.
				if _, err := r.Rebuild(ctx); err != nil && ctx.Err() == nil {
					log.Warn().Err(err).Msg("rebuild programado falló")
				}
			}
		}
	}()
	return done
}
