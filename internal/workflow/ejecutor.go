package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"gyscontrol/internal/model"

	"gorm.io/gorm"
)

type cascadaKey struct {
	tipo   model.TipoDocumento
	accion model.AccionDocumento
}

// Ejecutor applies document transitions as single atomic units: estado,
// derived totals, child writes (Solicitud.Antes), cross-document cascades and
// exactly one audit event all commit or roll back together.
type Ejecutor struct {
	almacen     Almacen
	cascadas    map[cascadaKey]Cascada
	notificador Notificador
}

func NewEjecutor(almacen Almacen) *Ejecutor {
	return &Ejecutor{
		almacen:  almacen,
		cascadas: make(map[cascadaKey]Cascada),
	}
}

// RegistrarCascada binds a cross-document side effect to (tipo, accion).
// Wired once at composition time, before the first request.
func (e *Ejecutor) RegistrarCascada(tipo model.TipoDocumento, accion model.AccionDocumento, c Cascada) {
	e.cascadas[cascadaKey{tipo, accion}] = c
}

// ConNotificador attaches the fire-and-forget transition notifier.
func (e *Ejecutor) ConNotificador(n Notificador) *Ejecutor {
	e.notificador = n
	return e
}

// Ejecutar runs one transition request. On any failure the document is left
// exactly as it was — no partial estado/totals/audit combination is ever
// observable.
func (e *Ejecutor) Ejecutar(ctx context.Context, sol Solicitud) (Documento, error) {
	var doc Documento
	var anterior model.EstadoDocumento

	err := e.almacen.EnTransaccion(ctx, func(tx *gorm.DB) error {
		d, err := e.almacen.ObtenerParaActualizar(ctx, tx, sol.Tipo, sol.ID)
		if err != nil {
			return fmt.Errorf("obtener documento %s/%s: %w", sol.Tipo, sol.ID, err)
		}
		anterior = d.EstadoActual()

		// Re-check against the caller's observed estado: a concurrent
		// transition that already moved the document must surface as
		// obsoleto, not as an arbitrary table miss.
		if sol.EstadoEsperado != "" && anterior != sol.EstadoEsperado {
			return ErrEstadoObsoleto
		}

		tr, ok := TransicionPara(sol.Tipo, anterior, sol.Accion)
		if !ok {
			return ErrTransicionInvalida
		}

		if err := verificarRol(sol.Tipo, sol.Accion, sol.Actor.Rol); err != nil {
			return err
		}

		montos, err := e.almacen.MontosLineas(ctx, tx, sol.Tipo, sol.ID)
		if err != nil {
			return fmt.Errorf("leer líneas: %w", err)
		}
		adjuntos, err := e.almacen.TiposAdjuntos(ctx, tx, sol.Tipo, sol.ID)
		if err != nil {
			return fmt.Errorf("leer adjuntos: %w", err)
		}

		gctx := Contexto{
			Doc:      d,
			Accion:   sol.Accion,
			Actor:    sol.Actor,
			Lineas:   len(montos),
			Adjuntos: adjuntos,
			Monto:    sol.Monto,
		}
		for _, m := range montos {
			gctx.SumaLineas = gctx.SumaLineas.Add(m)
		}
		for _, g := range tr.Guardias {
			if err := g(gctx); err != nil {
				return err
			}
		}

		// Payload application — the deposited amount lands on the document
		// before totals are derived from it.
		if sol.Accion == model.AccionDepositar && sol.Monto != nil {
			if cd, ok := d.(ConDeposito); ok {
				cd.RegistrarDeposito(*sol.Monto)
			}
		}

		if sol.Antes != nil {
			if err := sol.Antes(ctx, tx, d); err != nil {
				return fmt.Errorf("escritura asociada: %w", err)
			}
		}

		d.CambiarEstado(tr.Hacia)

		if tr.RecalcularTotales {
			if ct, ok := d.(ConTotales); ok {
				// Re-read: Antes may have inserted the triggering line.
				montos, err := e.almacen.MontosLineas(ctx, tx, sol.Tipo, sol.ID)
				if err != nil {
					return fmt.Errorf("releer líneas: %w", err)
				}
				t := CalcularTotales(ct.MontoBase(), montos)
				ct.AplicarTotales(t.Acumulado, t.Saldo, t.Porcentaje)
			}
		}

		if err := e.almacen.Guardar(ctx, tx, d); err != nil {
			return fmt.Errorf("guardar documento: %w", err)
		}

		if c, ok := e.cascadas[cascadaKey{sol.Tipo, sol.Accion}]; ok {
			if err := c(ctx, tx, d); err != nil {
				return fmt.Errorf("cascada %s/%s: %w", sol.Tipo, sol.Accion, err)
			}
		}

		ev := &model.EventoAuditoria{
			DocumentoID:    d.DocumentoID(),
			TipoDocumento:  sol.Tipo,
			Accion:         sol.Accion,
			Descripcion:    fmt.Sprintf("%s: %s → %s", sol.Accion, anterior, tr.Hacia),
			EstadoAnterior: anterior,
			EstadoNuevo:    tr.Hacia,
			ActorID:        sol.Actor.ID,
			Metadata:       metadataSolicitud(sol),
		}
		if err := e.almacen.CrearEvento(ctx, tx, ev); err != nil {
			return fmt.Errorf("registrar evento: %w", err)
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, best effort: a lost notification never invalidates an
	// applied transition.
	if e.notificador != nil {
		e.notificador.TransicionAplicada(ctx, doc, sol.Accion, sol.Actor, anterior, doc.EstadoActual())
	}
	return doc, nil
}

func metadataSolicitud(sol Solicitud) *string {
	meta := map[string]any{}
	if sol.Monto != nil {
		meta["monto"] = sol.Monto.String()
	}
	if sol.Comentario != "" {
		meta["comentario"] = sol.Comentario
	}
	if len(meta) == 0 {
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}
