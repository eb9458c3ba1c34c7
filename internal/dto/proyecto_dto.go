package dto

import "github.com/shopspring/decimal"

type CrearProyectoRequest struct {
	Nombre       string  `json:"nombre"        validate:"required,min=3,max=200"`
	CotizacionID *string `json:"cotizacion_id" validate:"omitempty,uuid"`
	GestorID     string  `json:"gestor_id"     validate:"required,uuid"`
	FechaInicio  string  `json:"fecha_inicio"  validate:"required,datetime=2006-01-02"`
	FechaFin     string  `json:"fecha_fin"     validate:"required,datetime=2006-01-02"`
	// PlantillaID: cuando viene, el cronograma se genera desde la plantilla
	// repartiendo la duración del proyecto según porcentaje_duracion.
	PlantillaID *string `json:"plantilla_id" validate:"omitempty,uuid"`
}

type ActualizarFaseRequest struct {
	Estado           *string `json:"estado"            validate:"omitempty,oneof=pendiente en_curso completada"`
	PorcentajeAvance *int    `json:"porcentaje_avance" validate:"omitempty,min=0,max=100"`
}

type CrearPlantillaRequest struct {
	Nombre string                 `json:"nombre" validate:"required,min=3,max=100"`
	Fases  []PlantillaFaseRequest `json:"fases"  validate:"required,min=1,dive"`
}

type PlantillaFaseRequest struct {
	Nombre             string          `json:"nombre"              validate:"required,min=2,max=100"`
	Orden              int             `json:"orden"               validate:"required,min=1"`
	PorcentajeDuracion decimal.Decimal `json:"porcentaje_duracion" validate:"required"`
}

type FaseProyectoResponse struct {
	ID               string `json:"id"`
	Nombre           string `json:"nombre"`
	Orden            int    `json:"orden"`
	FechaInicio      string `json:"fecha_inicio"`
	FechaFin         string `json:"fecha_fin"`
	Estado           string `json:"estado"`
	PorcentajeAvance int    `json:"porcentaje_avance"`
}

type ProyectoResponse struct {
	ID           string                 `json:"id"`
	Codigo       string                 `json:"codigo"`
	Nombre       string                 `json:"nombre"`
	CotizacionID *string                `json:"cotizacion_id"`
	GestorID     string                 `json:"gestor_id"`
	FechaInicio  string                 `json:"fecha_inicio"`
	FechaFin     string                 `json:"fecha_fin"`
	Estado       string                 `json:"estado"`
	Fases        []FaseProyectoResponse `json:"fases,omitempty"`
}

type PlantillaResponse struct {
	ID     string                  `json:"id"`
	Nombre string                  `json:"nombre"`
	Activa bool                    `json:"activa"`
	Fases  []PlantillaFaseResponse `json:"fases,omitempty"`
}

type PlantillaFaseResponse struct {
	Nombre             string          `json:"nombre"`
	Orden              int             `json:"orden"`
	PorcentajeDuracion decimal.Decimal `json:"porcentaje_duracion"`
}
