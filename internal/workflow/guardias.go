package workflow

import (
	"fmt"

	"gyscontrol/internal/model"

	"github.com/shopspring/decimal"
)

// Contexto carries everything a guard may inspect. Guards are pure: they
// never touch storage and never mutate the document.
type Contexto struct {
	Doc        Documento
	Accion     model.AccionDocumento
	Actor      Actor
	Lineas     int
	SumaLineas decimal.Decimal
	Adjuntos   []string
	Monto      *decimal.Decimal
}

// Guardia is a single composable precondition. Returns nil or a *GuardError
// with a user-facing reason. All guards of a transition must pass; the first
// failure is surfaced.
type Guardia func(c Contexto) error

// GuardiaPropietario: only the document's creator may perform the action
// (reabrir un rechazado, cancelar un borrador propio).
func GuardiaPropietario(c Contexto) error {
	if c.Actor.ID != c.Doc.PropietarioID() {
		return &GuardError{Motivo: "solo el creador del documento puede realizar esta acción"}
	}
	return nil
}

// GuardiaConLineas: the document must have at least one child line.
func GuardiaConLineas(c Contexto) error {
	if c.Lineas == 0 {
		return &GuardError{Motivo: "debe registrar al menos una línea antes de continuar"}
	}
	return nil
}

// GuardiaMontoPositivo: the action payload must carry a monto > 0.
func GuardiaMontoPositivo(c Contexto) error {
	if c.Monto == nil || !c.Monto.IsPositive() {
		return &GuardError{Motivo: "el monto debe ser mayor a cero"}
	}
	return nil
}

// GuardiaAdjunto requires an attachment of the given tipo to be present.
func GuardiaAdjunto(tipo string) Guardia {
	return func(c Contexto) error {
		for _, t := range c.Adjuntos {
			if t == tipo {
				return nil
			}
		}
		return &GuardError{Motivo: fmt.Sprintf("falta el adjunto requerido: %s", tipo)}
	}
}

// GuardiaCubreSaldo: the payment being registered must settle the document in
// full (registered payments + this monto >= monto base).
func GuardiaCubreSaldo(c Contexto) error {
	if c.Monto == nil {
		return &GuardError{Motivo: "el monto debe ser mayor a cero"}
	}
	ct, ok := c.Doc.(ConTotales)
	if !ok {
		return nil
	}
	if c.SumaLineas.Add(*c.Monto).LessThan(ct.MontoBase()) {
		return &GuardError{Motivo: "el pago no cubre el saldo pendiente; registre un cobro parcial"}
	}
	return nil
}

// GuardiaCobroParcial: the payment must leave an outstanding saldo — a payment
// that settles the document must use the cobro total action instead, so the
// estado cannot silently skip pagada.
func GuardiaCobroParcial(c Contexto) error {
	if c.Monto == nil {
		return &GuardError{Motivo: "el monto debe ser mayor a cero"}
	}
	ct, ok := c.Doc.(ConTotales)
	if !ok {
		return nil
	}
	if c.SumaLineas.Add(*c.Monto).GreaterThanOrEqual(ct.MontoBase()) {
		return &GuardError{Motivo: "el pago cubre el total; registre un cobro total"}
	}
	return nil
}

// verificarRol checks the declarative role allow-list for (tipo, accion).
// Actions without an entry are open to any authenticated role.
func verificarRol(tipo model.TipoDocumento, accion model.AccionDocumento, rol string) error {
	porAccion, ok := permisos[tipo]
	if !ok {
		return nil
	}
	roles, ok := porAccion[accion]
	if !ok {
		return nil
	}
	for _, r := range roles {
		if r == rol {
			return nil
		}
	}
	return &GuardError{Motivo: fmt.Sprintf("el rol %s no tiene permiso para %s", rol, accion)}
}
