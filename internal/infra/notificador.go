package infra

import (
	"context"

	"gyscontrol/internal/model"
	"gyscontrol/internal/workflow"

	"github.com/rs/zerolog/log"
)

// notificadorLog deja constancia de cada transición aplicada en el log
// estructurado. Corre después del commit y nunca bloquea.
type notificadorLog struct{}

func NewNotificadorLog() workflow.Notificador { return notificadorLog{} }

func (notificadorLog) TransicionAplicada(
	_ context.Context,
	doc workflow.Documento,
	accion model.AccionDocumento,
	actor workflow.Actor,
	anterior, nuevo model.EstadoDocumento,
) {
	log.Info().
		Str("tipo", string(doc.TipoDocumento())).
		Str("documento_id", doc.DocumentoID().String()).
		Str("accion", string(accion)).
		Str("actor_id", actor.ID.String()).
		Str("estado_anterior", string(anterior)).
		Str("estado_nuevo", string(nuevo)).
		Msg("transicion aplicada")
}
