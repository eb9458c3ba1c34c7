package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearOrdenCompraRequest struct {
	ProveedorID    string  `json:"proveedor_id"    validate:"required,uuid"`
	ProyectoID     *string `json:"proyecto_id"     validate:"omitempty,uuid"`
	FechaRequerida *string `json:"fecha_requerida" validate:"omitempty,datetime=2006-01-02"`
}

type OrdenCompraItemRequest struct {
	Descripcion    string          `json:"descripcion"     validate:"required,min=3,max=200"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type OrdenCompraFilter struct {
	Estado      string `form:"estado"`
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	ProyectoID  string `form:"proyecto_id"  validate:"omitempty,uuid"`
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrdenCompraItemResponse struct {
	ID             string          `json:"id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type OrdenCompraResponse struct {
	ID                  string                    `json:"id"`
	Codigo              string                    `json:"codigo"`
	ProveedorID         string                    `json:"proveedor_id"`
	ProveedorNombre     string                    `json:"proveedor_nombre,omitempty"`
	ProyectoID          *string                   `json:"proyecto_id"`
	SolicitanteID       string                    `json:"solicitante_id"`
	MontoTotal          decimal.Decimal           `json:"monto_total"`
	Estado              string                    `json:"estado"`
	FechaRequerida      *string                   `json:"fecha_requerida"`
	Items               []OrdenCompraItemResponse `json:"items,omitempty"`
	AccionesDisponibles []string                  `json:"acciones_disponibles"`
	CreatedAt           string                    `json:"created_at"`
}

type OrdenCompraListResponse struct {
	Data  []OrdenCompraResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
