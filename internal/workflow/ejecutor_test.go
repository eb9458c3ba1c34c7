package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gyscontrol/internal/model"
	"gyscontrol/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory Almacen ────────────────────────────────────────────────────────
// Mirrors transactional semantics: documents are read and written by value,
// so a failed transaction leaves the stored copy untouched.

type memAlmacen struct {
	mu       sync.Mutex
	hojas    map[uuid.UUID]model.HojaGastos
	ordenes  map[uuid.UUID]model.OrdenCompra
	cuentas  map[uuid.UUID]model.CuentaCobrar
	lineas   map[uuid.UUID][]decimal.Decimal
	adjuntos map[uuid.UUID][]string
	eventos  []model.EventoAuditoria

	// cometido buffers writes until the transaction function returns nil.
	pendiente *memAlmacen
}

func newMemAlmacen() *memAlmacen {
	return &memAlmacen{
		hojas:    make(map[uuid.UUID]model.HojaGastos),
		ordenes:  make(map[uuid.UUID]model.OrdenCompra),
		cuentas:  make(map[uuid.UUID]model.CuentaCobrar),
		lineas:   make(map[uuid.UUID][]decimal.Decimal),
		adjuntos: make(map[uuid.UUID][]string),
	}
}

func (m *memAlmacen) EnTransaccion(_ context.Context, fn func(tx *gorm.DB) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Work on a shadow copy; promote only on success.
	shadow := &memAlmacen{
		hojas:    make(map[uuid.UUID]model.HojaGastos, len(m.hojas)),
		ordenes:  make(map[uuid.UUID]model.OrdenCompra, len(m.ordenes)),
		cuentas:  make(map[uuid.UUID]model.CuentaCobrar, len(m.cuentas)),
		lineas:   make(map[uuid.UUID][]decimal.Decimal, len(m.lineas)),
		adjuntos: make(map[uuid.UUID][]string, len(m.adjuntos)),
		eventos:  append([]model.EventoAuditoria(nil), m.eventos...),
	}
	for k, v := range m.hojas {
		shadow.hojas[k] = v
	}
	for k, v := range m.ordenes {
		shadow.ordenes[k] = v
	}
	for k, v := range m.cuentas {
		shadow.cuentas[k] = v
	}
	for k, v := range m.lineas {
		shadow.lineas[k] = append([]decimal.Decimal(nil), v...)
	}
	for k, v := range m.adjuntos {
		shadow.adjuntos[k] = append([]string(nil), v...)
	}

	m.pendiente = shadow
	err := fn(nil)
	m.pendiente = nil
	if err != nil {
		return err
	}

	m.hojas = shadow.hojas
	m.ordenes = shadow.ordenes
	m.cuentas = shadow.cuentas
	m.lineas = shadow.lineas
	m.adjuntos = shadow.adjuntos
	m.eventos = shadow.eventos
	return nil
}

func (m *memAlmacen) activo() *memAlmacen {
	if m.pendiente != nil {
		return m.pendiente
	}
	return m
}

func (m *memAlmacen) ObtenerParaActualizar(_ context.Context, _ *gorm.DB, tipo model.TipoDocumento, id uuid.UUID) (workflow.Documento, error) {
	s := m.activo()
	switch tipo {
	case model.TipoHojaGastos:
		if h, ok := s.hojas[id]; ok {
			copia := h
			return &copia, nil
		}
	case model.TipoOrdenCompra:
		if o, ok := s.ordenes[id]; ok {
			copia := o
			return &copia, nil
		}
	case model.TipoCuentaCobrar:
		if c, ok := s.cuentas[id]; ok {
			copia := c
			return &copia, nil
		}
	}
	return nil, errors.New("documento no encontrado")
}

func (m *memAlmacen) Guardar(_ context.Context, _ *gorm.DB, doc workflow.Documento) error {
	s := m.activo()
	switch d := doc.(type) {
	case *model.HojaGastos:
		s.hojas[d.ID] = *d
	case *model.OrdenCompra:
		s.ordenes[d.ID] = *d
	case *model.CuentaCobrar:
		s.cuentas[d.ID] = *d
	default:
		return errors.New("tipo no soportado")
	}
	return nil
}

func (m *memAlmacen) MontosLineas(_ context.Context, _ *gorm.DB, _ model.TipoDocumento, id uuid.UUID) ([]decimal.Decimal, error) {
	return append([]decimal.Decimal(nil), m.activo().lineas[id]...), nil
}

func (m *memAlmacen) TiposAdjuntos(_ context.Context, _ *gorm.DB, _ model.TipoDocumento, id uuid.UUID) ([]string, error) {
	return append([]string(nil), m.activo().adjuntos[id]...), nil
}

func (m *memAlmacen) CrearEvento(_ context.Context, _ *gorm.DB, ev *model.EventoAuditoria) error {
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now()
	s := m.activo()
	s.eventos = append(s.eventos, *ev)
	return nil
}

// agregarLinea mutates line data outside any transition, like a CRUD edit.
func (m *memAlmacen) agregarLinea(id uuid.UUID, monto decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lineas[id] = append(m.lineas[id], monto)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func nuevaHoja(m *memAlmacen, solicitante uuid.UUID) *model.HojaGastos {
	h := model.HojaGastos{
		ID:               uuid.New(),
		Codigo:           "HG-0001",
		Descripcion:      "viáticos obra Arequipa",
		SolicitanteID:    solicitante,
		RequiereAnticipo: true,
		MontoSolicitado:  d(1000),
		Estado:           model.EstadoBorrador,
	}
	m.hojas[h.ID] = h
	return &h
}

func ejecutar(t *testing.T, e *workflow.Ejecutor, sol workflow.Solicitud) workflow.Documento {
	t.Helper()
	doc, err := e.Ejecutar(context.Background(), sol)
	require.NoError(t, err)
	return doc
}

var (
	colaborador    = workflow.Actor{ID: uuid.New(), Rol: model.RolColaborador}
	gerente        = workflow.Actor{ID: uuid.New(), Rol: model.RolGerente}
	coordinador    = workflow.Actor{ID: uuid.New(), Rol: model.RolCoordinador}
	administracion = workflow.Actor{ID: uuid.New(), Rol: model.RolAdministracion}
)

// ── Tests ────────────────────────────────────────────────────────────────────

func TestTransicionNoDeclarada(t *testing.T) {
	m := newMemAlmacen()
	h := nuevaHoja(m, colaborador.ID)
	e := workflow.NewEjecutor(m)

	// rendir no está declarado desde borrador
	_, err := e.Ejecutar(context.Background(), workflow.Solicitud{
		Tipo: model.TipoHojaGastos, ID: h.ID, Accion: model.AccionRendir, Actor: colaborador,
	})
	require.ErrorIs(t, err, workflow.ErrTransicionInvalida)

	assert.Equal(t, model.EstadoBorrador, m.hojas[h.ID].Estado)
	assert.Empty(t, m.eventos)
}

func TestCicloCompletoHojaGastos(t *testing.T) {
	m := newMemAlmacen()
	h := nuevaHoja(m, colaborador.ID)
	e := workflow.NewEjecutor(m)
	tipo := model.TipoHojaGastos

	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador})
	assert.Equal(t, model.EstadoEnviado, m.hojas[h.ID].Estado)

	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionAprobar, Actor: gerente})
	assert.Equal(t, model.EstadoAprobado, m.hojas[h.ID].Estado)

	monto := d(1000)
	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionDepositar, Actor: administracion, Monto: &monto})
	assert.Equal(t, model.EstadoDepositado, m.hojas[h.ID].Estado)
	assert.True(t, m.hojas[h.ID].MontoDepositado.Equal(d(1000)))

	m.agregarLinea(h.ID, d(600))

	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionRendir, Actor: colaborador})
	hoja := m.hojas[h.ID]
	assert.Equal(t, model.EstadoRendido, hoja.Estado)
	assert.True(t, hoja.MontoGastado.Equal(d(600)), "monto gastado = %s", hoja.MontoGastado)
	assert.True(t, hoja.Saldo.Equal(d(400)), "saldo = %s", hoja.Saldo)

	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionAprobar, Actor: coordinador})
	assert.Equal(t, model.EstadoValidado, m.hojas[h.ID].Estado)

	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionCerrar, Actor: gerente})
	assert.Equal(t, model.EstadoCerrado, m.hojas[h.ID].Estado)
	assert.True(t, workflow.EsTerminal(tipo, model.EstadoCerrado))

	// Ninguna acción es legal desde un estado terminal.
	_, err := e.Ejecutar(context.Background(), workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador})
	require.ErrorIs(t, err, workflow.ErrTransicionInvalida)

	// Exactamente un evento por transición, con estados correctos.
	require.Len(t, m.eventos, 6)
	esperados := []struct{ de, a model.EstadoDocumento }{
		{model.EstadoBorrador, model.EstadoEnviado},
		{model.EstadoEnviado, model.EstadoAprobado},
		{model.EstadoAprobado, model.EstadoDepositado},
		{model.EstadoDepositado, model.EstadoRendido},
		{model.EstadoRendido, model.EstadoValidado},
		{model.EstadoValidado, model.EstadoCerrado},
	}
	for i, ev := range m.eventos {
		assert.Equal(t, esperados[i].de, ev.EstadoAnterior)
		assert.Equal(t, esperados[i].a, ev.EstadoNuevo)
		assert.Equal(t, h.ID, ev.DocumentoID)
	}
}

func TestSaldoConsistenteTrasCadaTransicion(t *testing.T) {
	m := newMemAlmacen()
	h := nuevaHoja(m, colaborador.ID)
	e := workflow.NewEjecutor(m)
	tipo := model.TipoHojaGastos
	monto := d(800)

	pasos := []workflow.Solicitud{
		{Tipo: tipo, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador},
		{Tipo: tipo, ID: h.ID, Accion: model.AccionAprobar, Actor: gerente},
		{Tipo: tipo, ID: h.ID, Accion: model.AccionDepositar, Actor: administracion, Monto: &monto},
	}
	m.agregarLinea(h.ID, d(250))
	m.agregarLinea(h.ID, d(150))
	pasos = append(pasos, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionRendir, Actor: colaborador})

	for _, sol := range pasos {
		ejecutar(t, e, sol)
		hoja := m.hojas[h.ID]
		assert.True(t, hoja.Saldo.Equal(hoja.MontoDepositado.Sub(hoja.MontoGastado)),
			"estado %s: saldo %s != %s - %s", hoja.Estado, hoja.Saldo, hoja.MontoDepositado, hoja.MontoGastado)
	}

	hoja := m.hojas[h.ID]
	assert.True(t, hoja.MontoGastado.Equal(d(400)))
	assert.True(t, hoja.Saldo.Equal(d(400)))
	assert.True(t, hoja.PorcentajeRendido.Equal(d(50)))
}

func TestRechazoYReenvio(t *testing.T) {
	m := newMemAlmacen()
	h := nuevaHoja(m, colaborador.ID)
	e := workflow.NewEjecutor(m)
	tipo := model.TipoHojaGastos

	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador})
	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionRechazar, Actor: gerente, Comentario: "falta comprobante"})
	assert.Equal(t, model.EstadoRechazado, m.hojas[h.ID].Estado)

	// El comentario queda en el evento.
	ultimo := m.eventos[len(m.eventos)-1]
	require.NotNil(t, ultimo.Metadata)
	assert.Contains(t, *ultimo.Metadata, "falta comprobante")

	// depositar no es legal desde rechazado.
	monto := d(500)
	_, err := e.Ejecutar(context.Background(), workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionDepositar, Actor: administracion, Monto: &monto})
	require.ErrorIs(t, err, workflow.ErrTransicionInvalida)

	// Solo el creador puede reenviar.
	_, err = e.Ejecutar(context.Background(), workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionEnviar, Actor: gerente})
	require.True(t, workflow.EsGuardError(err))
	assert.Equal(t, model.EstadoRechazado, m.hojas[h.ID].Estado)

	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador})
	assert.Equal(t, model.EstadoEnviado, m.hojas[h.ID].Estado)
}

func TestGuardFallaSinEfectos(t *testing.T) {
	m := newMemAlmacen()
	o := model.OrdenCompra{
		ID:            uuid.New(),
		Codigo:        "OC-0001",
		ProveedorID:   uuid.New(),
		SolicitanteID: colaborador.ID,
		Estado:        model.EstadoBorrador,
	}
	m.ordenes[o.ID] = o
	e := workflow.NewEjecutor(m)

	// Sin ítems la orden no puede salir de borrador.
	_, err := e.Ejecutar(context.Background(), workflow.Solicitud{
		Tipo: model.TipoOrdenCompra, ID: o.ID, Accion: model.AccionEnviar, Actor: colaborador,
	})
	require.True(t, workflow.EsGuardError(err))
	assert.Contains(t, err.Error(), "al menos una línea")
	assert.Equal(t, model.EstadoBorrador, m.ordenes[o.ID].Estado)
	assert.Empty(t, m.eventos)

	// Idempotencia del fallo: repetir no muta nada.
	_, err2 := e.Ejecutar(context.Background(), workflow.Solicitud{
		Tipo: model.TipoOrdenCompra, ID: o.ID, Accion: model.AccionEnviar, Actor: colaborador,
	})
	require.Error(t, err2)
	assert.Empty(t, m.eventos)
}

func TestRolNoAutorizado(t *testing.T) {
	m := newMemAlmacen()
	h := nuevaHoja(m, colaborador.ID)
	e := workflow.NewEjecutor(m)

	ejecutar(t, e, workflow.Solicitud{Tipo: model.TipoHojaGastos, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador})

	_, err := e.Ejecutar(context.Background(), workflow.Solicitud{
		Tipo: model.TipoHojaGastos, ID: h.ID, Accion: model.AccionAprobar, Actor: colaborador,
	})
	require.True(t, workflow.EsGuardError(err))
	assert.Equal(t, model.EstadoEnviado, m.hojas[h.ID].Estado)
	assert.Len(t, m.eventos, 1)
}

func TestAprobacionConcurrente(t *testing.T) {
	m := newMemAlmacen()
	h := nuevaHoja(m, colaborador.ID)
	e := workflow.NewEjecutor(m)

	ejecutar(t, e, workflow.Solicitud{Tipo: model.TipoHojaGastos, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador})

	// Dos aprobaciones simultáneas que observaron "enviado": exactamente una
	// gana; la otra recibe estado obsoleto y ningún evento duplicado.
	var wg sync.WaitGroup
	resultados := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, resultados[i] = e.Ejecutar(context.Background(), workflow.Solicitud{
				Tipo:           model.TipoHojaGastos,
				ID:             h.ID,
				Accion:         model.AccionAprobar,
				Actor:          gerente,
				EstadoEsperado: model.EstadoEnviado,
			})
		}(i)
	}
	wg.Wait()

	exitos, obsoletos := 0, 0
	for _, err := range resultados {
		switch {
		case err == nil:
			exitos++
		case errors.Is(err, workflow.ErrEstadoObsoleto):
			obsoletos++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, exitos)
	assert.Equal(t, 1, obsoletos)
	assert.Equal(t, model.EstadoAprobado, m.hojas[h.ID].Estado)
	assert.Len(t, m.eventos, 2) // enviar + una sola aprobación
}

func TestCascadaLiquidaAnticipo(t *testing.T) {
	m := newMemAlmacen()
	h := nuevaHoja(m, colaborador.ID)
	e := workflow.NewEjecutor(m)
	tipo := model.TipoHojaGastos

	// Cascada registrada al estilo del servicio de gastos: al validar la
	// rendición se liquida el anticipo dentro de la misma unidad atómica.
	liquidado := decimal.Zero
	e.RegistrarCascada(tipo, model.AccionAprobar, func(_ context.Context, _ *gorm.DB, doc workflow.Documento) error {
		hoja := doc.(*model.HojaGastos)
		if hoja.Estado == model.EstadoValidado {
			liquidado = hoja.MontoGastado
		}
		return nil
	})

	monto := d(1000)
	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador})
	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionAprobar, Actor: gerente})
	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionDepositar, Actor: administracion, Monto: &monto})
	m.agregarLinea(h.ID, d(600))
	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionRendir, Actor: colaborador})
	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: h.ID, Accion: model.AccionAprobar, Actor: coordinador})

	assert.True(t, liquidado.Equal(d(600)))
}

func TestCascadaFallidaRevierteTodo(t *testing.T) {
	m := newMemAlmacen()
	h := nuevaHoja(m, colaborador.ID)
	e := workflow.NewEjecutor(m)

	e.RegistrarCascada(model.TipoHojaGastos, model.AccionAprobar, func(_ context.Context, _ *gorm.DB, _ workflow.Documento) error {
		return errors.New("anticipo bloqueado")
	})

	ejecutar(t, e, workflow.Solicitud{Tipo: model.TipoHojaGastos, ID: h.ID, Accion: model.AccionEnviar, Actor: colaborador})
	eventosAntes := len(m.eventos)

	_, err := e.Ejecutar(context.Background(), workflow.Solicitud{
		Tipo: model.TipoHojaGastos, ID: h.ID, Accion: model.AccionAprobar, Actor: gerente,
	})
	require.Error(t, err)

	// Nada parcial: ni estado ni evento sobreviven al fallo de la cascada.
	assert.Equal(t, model.EstadoEnviado, m.hojas[h.ID].Estado)
	assert.Len(t, m.eventos, eventosAntes)
}

func TestCobranzaParcialYTotal(t *testing.T) {
	m := newMemAlmacen()
	c := model.CuentaCobrar{
		ID:               uuid.New(),
		Codigo:           "CC-0001",
		ClienteNombre:    "Minera Andina SAC",
		ResponsableID:    administracion.ID,
		MontoTotal:       d(1000),
		Saldo:            d(1000),
		FechaVencimiento: time.Now().AddDate(0, 1, 0),
		Estado:           model.EstadoBorrador,
	}
	m.cuentas[c.ID] = c
	e := workflow.NewEjecutor(m)
	tipo := model.TipoCuentaCobrar

	ejecutar(t, e, workflow.Solicitud{Tipo: tipo, ID: c.ID, Accion: model.AccionEmitir, Actor: administracion})

	// Un cobro que cubre el total no puede registrarse como parcial.
	total := d(1000)
	_, err := e.Ejecutar(context.Background(), workflow.Solicitud{
		Tipo: tipo, ID: c.ID, Accion: model.AccionCobrarParcial, Actor: administracion, Monto: &total,
	})
	require.True(t, workflow.EsGuardError(err))

	parcial := d(400)
	ejecutar(t, e, workflow.Solicitud{
		Tipo: tipo, ID: c.ID, Accion: model.AccionCobrarParcial, Actor: administracion, Monto: &parcial,
		Antes: func(_ context.Context, _ *gorm.DB, doc workflow.Documento) error {
			m.pendiente.lineas[doc.DocumentoID()] = append(m.pendiente.lineas[doc.DocumentoID()], parcial)
			return nil
		},
	})
	cuenta := m.cuentas[c.ID]
	assert.Equal(t, model.EstadoParcial, cuenta.Estado)
	assert.True(t, cuenta.Saldo.Equal(d(600)))

	resto := d(600)
	ejecutar(t, e, workflow.Solicitud{
		Tipo: tipo, ID: c.ID, Accion: model.AccionCobrarTotal, Actor: administracion, Monto: &resto,
		Antes: func(_ context.Context, _ *gorm.DB, doc workflow.Documento) error {
			m.pendiente.lineas[doc.DocumentoID()] = append(m.pendiente.lineas[doc.DocumentoID()], resto)
			return nil
		},
	})
	cuenta = m.cuentas[c.ID]
	assert.Equal(t, model.EstadoPagada, cuenta.Estado)
	assert.True(t, cuenta.Saldo.IsZero())
	assert.True(t, cuenta.MontoCobrado.Equal(d(1000)))
}
