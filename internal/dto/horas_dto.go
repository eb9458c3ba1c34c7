package dto

import "github.com/shopspring/decimal"

type RegistrarHorasRequest struct {
	ProyectoID  string          `json:"proyecto_id" validate:"required,uuid"`
	Fecha       string          `json:"fecha"       validate:"required,datetime=2006-01-02"`
	Horas       decimal.Decimal `json:"horas"       validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required,min=3,max=300"`
}

type RevisarHorasRequest struct {
	Aprobar bool    `json:"aprobar"`
	Motivo  *string `json:"motivo" validate:"omitempty,max=300"`
}

type RegistroHorasResponse struct {
	ID            string          `json:"id"`
	ProyectoID    string          `json:"proyecto_id"`
	ColaboradorID string          `json:"colaborador_id"`
	Fecha         string          `json:"fecha"`
	Horas         decimal.Decimal `json:"horas"`
	Descripcion   string          `json:"descripcion"`
	Estado        string          `json:"estado"`
}

// ResumenSemanalResponse desglosa la semana en horas normales y sobretiempo.
// El umbral semanal es 40h: las primeras 8 extra pagan recargo de 25%, el
// resto 100%.
type ResumenSemanalResponse struct {
	ColaboradorID   string          `json:"colaborador_id"`
	SemanaInicio    string          `json:"semana_inicio"`
	HorasTotales    decimal.Decimal `json:"horas_totales"`
	HorasNormales   decimal.Decimal `json:"horas_normales"`
	Sobretiempo25   decimal.Decimal `json:"sobretiempo_25"`
	Sobretiempo100  decimal.Decimal `json:"sobretiempo_100"`
	HorasPonderadas decimal.Decimal `json:"horas_ponderadas"`
}
