package worker

// vencimientos_cron.go
// Background goroutine that periodically scans cuentas por cobrar vencidas
// and notifies their responsables. A Redis SETNX key dedupes reminders so
// each cuenta produces at most one aviso per day.

import (
	"context"
	"fmt"
	"time"

	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	vencimientosTickInterval = time.Hour
	recordatorioTTL          = 26 * time.Hour
)

// VencimientosCronConfig holds all dependencies for the reminder goroutine.
type VencimientosCronConfig struct {
	FinanzasRepo repository.FinanzasRepository
	NotifRepo    repository.NotificacionRepository
	RDB          *redis.Client
}

// StartVencimientosCron launches a background goroutine that ticks hourly,
// queries overdue receivables, and creates reminder notifications.
// It respects the context for graceful shutdown.
func StartVencimientosCron(ctx context.Context, cfg VencimientosCronConfig) {
	go func() {
		ticker := time.NewTicker(vencimientosTickInterval)
		defer ticker.Stop()

		log.Info().Msg("vencimientos_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimientos_cron: shutting down")
				return
			case <-ticker.C:
				procesarVencimientos(ctx, cfg)
			}
		}
	}()
}

func procesarVencimientos(ctx context.Context, cfg VencimientosCronConfig) {
	cuentas, err := cfg.FinanzasRepo.ListCobrarPendientes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("vencimientos_cron: failed to query pending receivables")
		return
	}

	hoy := time.Now().Format("2006-01-02")
	avisos := 0
	for i := range cuentas {
		c := &cuentas[i]
		if !c.FechaVencimiento.Before(time.Now()) {
			continue
		}

		// One reminder per cuenta per day.
		key := fmt.Sprintf("recordatorio:%s:%s", c.ID, hoy)
		ok, err := cfg.RDB.SetNX(ctx, key, 1, recordatorioTTL).Result()
		if err != nil {
			log.Warn().Err(err).Str("cuenta_id", c.ID.String()).Msg("vencimientos_cron: dedupe check failed")
			continue
		}
		if !ok {
			continue
		}

		dias := int(time.Since(c.FechaVencimiento).Hours() / 24)
		n := model.Notificacion{
			UsuarioID:     c.ResponsableID,
			DocumentoID:   c.ID,
			TipoDocumento: model.TipoCuentaCobrar,
			Titulo:        fmt.Sprintf("Cuenta por cobrar %s vencida", c.Codigo),
			Mensaje: fmt.Sprintf("La cuenta %s de %s lleva %d día(s) vencida con saldo pendiente de %s %s.",
				c.Codigo, c.ClienteNombre, dias, c.Moneda, c.Saldo.StringFixed(2)),
		}
		if err := cfg.NotifRepo.Create(ctx, &n); err != nil {
			log.Error().Err(err).Str("cuenta_id", c.ID.String()).Msg("vencimientos_cron: failed to create reminder")
			continue
		}
		avisos++
	}

	if avisos > 0 {
		log.Info().Int("avisos", avisos).Msg("vencimientos_cron: reminders created")
	}
}
