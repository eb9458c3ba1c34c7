package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrdenCompra is a purchase order against a proveedor.
// Estado: borrador → enviado → aprobado → atendido → cerrado
// Deflections: rechazado (re-enviable), cancelado (terminal).
type OrdenCompra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo        string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	ProveedorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProyectoID    *uuid.UUID      `gorm:"type:uuid;index"`
	SolicitanteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Moneda        string          `gorm:"type:varchar(3);not null;default:'PEN'"`
	Estado        EstadoDocumento `gorm:"type:varchar(20);not null;default:'borrador';index"`
	FechaEntrega  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items     []OrdenCompraItem `gorm:"foreignKey:OrdenCompraID;constraint:OnDelete:CASCADE"`
	Proveedor *Proveedor        `gorm:"foreignKey:ProveedorID"`
}

func (OrdenCompra) TableName() string { return "ordenes_compra" }

func (o *OrdenCompra) DocumentoID() uuid.UUID          { return o.ID }
func (o *OrdenCompra) TipoDocumento() TipoDocumento    { return TipoOrdenCompra }
func (o *OrdenCompra) EstadoActual() EstadoDocumento   { return o.Estado }
func (o *OrdenCompra) CambiarEstado(e EstadoDocumento) { o.Estado = e }
func (o *OrdenCompra) PropietarioID() uuid.UUID        { return o.SolicitanteID }

// OrdenCompraItem is one line of a purchase order.
type OrdenCompraItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenCompraID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (OrdenCompraItem) TableName() string { return "orden_compra_items" }
