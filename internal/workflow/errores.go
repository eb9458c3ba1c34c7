// Package workflow implements the document lifecycle engine shared by every
// document type (hojas de gastos, órdenes de compra, cuentas por cobrar y
// pagar, versiones de cotización). The legal transitions are declarative data
// (tabla.go); guards are composable precondition checks (guardias.go); the
// executor applies a transition as one atomic storage transaction
// (ejecutor.go). Adding a document type is a data change, not a code change.
package workflow

import "errors"

// ErrTransicionInvalida: the action is not defined for the document's current
// estado. A usage error from the caller — the document is left untouched.
var ErrTransicionInvalida = errors.New("la acción no está permitida desde el estado actual del documento")

// ErrEstadoObsoleto: the document's estado changed between the caller's read
// and the write. The caller should refetch and retry against the new estado.
var ErrEstadoObsoleto = errors.New("el documento fue modificado por otra operación; recargue e intente nuevamente")

// GuardError is a failed precondition with a user-facing reason.
// The first failing guard aborts the transition; reasons are never aggregated.
type GuardError struct {
	Motivo string
}

func (e *GuardError) Error() string { return e.Motivo }

// EsGuardError reports whether err (or anything it wraps) is a guard failure.
func EsGuardError(err error) bool {
	var ge *GuardError
	return errors.As(err, &ge)
}
