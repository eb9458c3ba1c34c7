package worker

// notificacion_worker.go
// Processes post-transition notification jobs from QueueNotificacion.
// Persists in-app Notificacion rows and fans out emails to the users that
// must act on the document's new state.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificacionJobPayload is the job envelope sent to QueueNotificacion.
type NotificacionJobPayload struct {
	TipoDocumento string `json:"tipo_documento"`
	DocumentoID   string `json:"documento_id"`
	Codigo        string `json:"codigo,omitempty"`
	Estado        string `json:"estado"`
	PropietarioID string `json:"propietario_id"`
	// AdjuntoPath apunta a un archivo local (ej. la rendición en PDF) que se
	// adjunta a los correos de esta notificación.
	AdjuntoPath string `json:"adjunto_path,omitempty"`
}

// rolesPorEstado decide quién debe enterarse además del propietario: los
// estados que esperan revisión notifican a los roles que pueden resolverla.
var rolesPorEstado = map[string][]string{
	string(model.EstadoEnviado): {model.RolGerente, model.RolCoordinador},
	string(model.EstadoRendido): {model.RolCoordinador},
	string(model.EstadoEmitida): {model.RolAdministracion},
}

// NotificacionWorker persists notifications and enqueues follow-up emails.
type NotificacionWorker struct {
	notifRepo   repository.NotificacionRepository
	usuarioRepo repository.UsuarioRepository
	dispatcher  *Dispatcher
}

func NewNotificacionWorker(
	notifRepo repository.NotificacionRepository,
	usuarioRepo repository.UsuarioRepository,
	dispatcher *Dispatcher,
) *NotificacionWorker {
	return &NotificacionWorker{notifRepo: notifRepo, usuarioRepo: usuarioRepo, dispatcher: dispatcher}
}

// Process handles a single notification job:
//  1. Parse NotificacionJobPayload from the job envelope
//  2. Persist an in-app Notificacion for the document owner
//  3. Fan out to reviewer roles when the new state awaits action
//  4. Enqueue email jobs for every recipient with a registered address
func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}

	docID, err := uuid.Parse(payload.DocumentoID)
	if err != nil {
		log.Error().Str("documento_id", payload.DocumentoID).Msg("notificacion_worker: invalid documento_id")
		return
	}
	propietarioID, err := uuid.Parse(payload.PropietarioID)
	if err != nil {
		log.Error().Str("propietario_id", payload.PropietarioID).Msg("notificacion_worker: invalid propietario_id")
		return
	}

	titulo, mensaje := redactar(payload)

	destinatarios := map[uuid.UUID]*model.Usuario{}
	if u, err := w.usuarioRepo.FindByID(ctx, propietarioID); err == nil && u.Activo {
		destinatarios[u.ID] = u
	}
	for _, rol := range rolesPorEstado[payload.Estado] {
		usuarios, err := w.usuarioRepo.ListByRol(ctx, rol)
		if err != nil {
			log.Warn().Err(err).Str("rol", rol).Msg("notificacion_worker: fan-out query failed")
			continue
		}
		for i := range usuarios {
			destinatarios[usuarios[i].ID] = &usuarios[i]
		}
	}

	for _, u := range destinatarios {
		n := model.Notificacion{
			UsuarioID:     u.ID,
			DocumentoID:   docID,
			TipoDocumento: model.TipoDocumento(payload.TipoDocumento),
			Titulo:        titulo,
			Mensaje:       mensaje,
		}
		if err := w.notifRepo.Create(ctx, &n); err != nil {
			log.Error().Err(err).Str("usuario_id", u.ID.String()).Msg("notificacion_worker: failed to persist notification")
			continue
		}
		if u.Email != nil && *u.Email != "" {
			emailJob := EmailJobPayload{
				ToEmail:     *u.Email,
				Subject:     titulo,
				Body:        mensaje,
				AdjuntoPath: payload.AdjuntoPath,
			}
			if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
				log.Warn().Err(err).Str("email", *u.Email).Msg("notificacion_worker: failed to enqueue email")
			}
		}
	}

	log.Info().
		Str("tipo", payload.TipoDocumento).
		Str("documento_id", payload.DocumentoID).
		Str("estado", payload.Estado).
		Int("destinatarios", len(destinatarios)).
		Msg("notificacion_worker: notifications delivered")
}

func redactar(p NotificacionJobPayload) (titulo, mensaje string) {
	ref := p.Codigo
	if ref == "" {
		ref = p.DocumentoID
	}
	titulo = fmt.Sprintf("%s %s: %s", nombreTipo(p.TipoDocumento), ref, p.Estado)
	mensaje = fmt.Sprintf("El documento %s cambió a estado %s.", ref, p.Estado)
	return
}

func nombreTipo(tipo string) string {
	switch model.TipoDocumento(tipo) {
	case model.TipoHojaGastos:
		return "Hoja de gastos"
	case model.TipoOrdenCompra:
		return "Orden de compra"
	case model.TipoCuentaCobrar:
		return "Cuenta por cobrar"
	case model.TipoCuentaPagar:
		return "Cuenta por pagar"
	case model.TipoCotizacion:
		return "Cotización"
	default:
		return "Documento"
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
