package dto

// EventoAuditoriaResponse is one entry of a document's timeline.
type EventoAuditoriaResponse struct {
	ID             string  `json:"id"`
	DocumentoID    string  `json:"documento_id"`
	TipoDocumento  string  `json:"tipo_documento"`
	Accion         string  `json:"accion"`
	EstadoAnterior string  `json:"estado_anterior"`
	EstadoNuevo    string  `json:"estado_nuevo"`
	ActorID        string  `json:"actor_id"`
	ActorNombre    string  `json:"actor_nombre,omitempty"`
	Metadata       *string `json:"metadata,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type TimelineResponse struct {
	DocumentoID   string                    `json:"documento_id"`
	TipoDocumento string                    `json:"tipo_documento"`
	Eventos       []EventoAuditoriaResponse `json:"eventos"`
}

type NotificacionResponse struct {
	ID            string `json:"id"`
	Titulo        string `json:"titulo"`
	Mensaje       string `json:"mensaje"`
	DocumentoID   string `json:"documento_id"`
	TipoDocumento string `json:"tipo_documento"`
	Leida         bool   `json:"leida"`
	CreatedAt     string `json:"created_at"`
}
