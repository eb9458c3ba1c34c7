package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ContactoProveedorInput struct {
	Nombre   string  `json:"nombre"   validate:"required,min=1"`
	Cargo    *string `json:"cargo"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type CrearProveedorRequest struct {
	RazonSocial   string                   `json:"razon_social"   validate:"required,min=2"`
	RUC           string                   `json:"ruc"            validate:"required,len=11"`
	Telefono      *string                  `json:"telefono"`
	Email         *string                  `json:"email"          validate:"omitempty,email"`
	Direccion     *string                  `json:"direccion"`
	CondicionPago *string                  `json:"condicion_pago"` // contado | credito15 | credito30 | credito60
	Contactos     []ContactoProveedorInput `json:"contactos"`
}

type ActualizarProveedorRequest struct {
	RazonSocial   *string `json:"razon_social"   validate:"omitempty,min=2"`
	Telefono      *string `json:"telefono"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Direccion     *string `json:"direccion"`
	CondicionPago *string `json:"condicion_pago"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ContactoProveedorResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Cargo    *string `json:"cargo,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type ProveedorResponse struct {
	ID            string                      `json:"id"`
	RazonSocial   string                      `json:"razon_social"`
	RUC           string                      `json:"ruc"`
	Telefono      *string                     `json:"telefono"`
	Email         *string                     `json:"email"`
	Direccion     *string                     `json:"direccion"`
	CondicionPago *string                     `json:"condicion_pago"`
	Activo        bool                        `json:"activo"`
	Contactos     []ContactoProveedorResponse `json:"contactos"`
}
