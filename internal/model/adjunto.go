package model

import (
	"time"

	"github.com/google/uuid"
)

// Adjunto is uploaded-evidence metadata. The file bytes live in external
// storage; this row is never mutated after creation, only soft-referenced.
// Tipo: "factura" | "boleta" | "comprobante_deposito" | "comprobante_pago" | "otro"
type Adjunto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo        string    `gorm:"type:varchar(30);not null;index"`
	Nombre      string    `gorm:"not null"`
	URL         string    `gorm:"not null"`
	Tamano      int64     `gorm:"column:tamano;not null"`
	SubidoPorID uuid.UUID `gorm:"type:uuid;not null"`

	// Exactly one owner; enforced at the service layer.
	HojaGastosID  *uuid.UUID `gorm:"type:uuid;index"`
	GastoLineaID  *uuid.UUID `gorm:"type:uuid;index"`
	CuentaPagarID *uuid.UUID `gorm:"type:uuid;index"`
	OrdenCompraID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
}

func (Adjunto) TableName() string { return "adjuntos" }
