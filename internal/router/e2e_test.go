//go:build integration

package router_test

// Pruebas de integración end-to-end contra Postgres y Redis reales vía
// testcontainers. Levantan el router completo y ejercitan la API por HTTP.
// Correr con: go test -tags integration ./internal/router/... -v
//
// Escenarios:
//   - Ciclo completo de una hoja de gastos con anticipo (crear → enviar →
//     aprobar → depositar → rendir → validar → cerrar) y su timeline.
//   - Rechazo 409 cuando estado_esperado no coincide con el estado vigente.
//   - Rechazo 422 de guardia (orden de compra sin ítems no puede enviarse).
//   - Cobranza parcial y total de una cuenta por cobrar, con el reporte aging.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gyscontrol/internal/config"
	"gyscontrol/internal/infra"
	"gyscontrol/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // JWT de admin
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("gyscontrol_test"),
		tcPostgres.WithUsername("gyscontrol"),
		tcPostgres.WithPassword("gyscontrol"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		StorageURL:         "http://localhost:9999", // no se usa en estas pruebas
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	// Usuario admin inicial
	hash, err := bcrypt.GenerateFromPassword([]byte("gyscontrol2026"), bcrypt.MinCost)
	require.NoError(t, err)
	err = db.Exec(`INSERT INTO usuarios (id, username, nombre, email, password_hash, rol, activo, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin.e2e', 'Admin E2E', 'admin@e2e.test', ?, 'admin', true, NOW(), NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error
	require.NoError(t, err)

	storageCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, storageCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "gyscontrol2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

type hojaResp struct {
	ID                string          `json:"id"`
	Codigo            string          `json:"codigo"`
	Estado            string          `json:"estado"`
	MontoSolicitado   decimal.Decimal `json:"monto_solicitado"`
	MontoDepositado   decimal.Decimal `json:"monto_depositado"`
	MontoGastado      decimal.Decimal `json:"monto_gastado"`
	Saldo             decimal.Decimal `json:"saldo"`
	PorcentajeRendido decimal.Decimal `json:"porcentaje_rendido"`
}

func (e *testEnv) transicionarHoja(t *testing.T, id string, body map[string]any) *http.Response {
	t.Helper()
	return do(t, e.server, "POST", "/v1/gastos/hojas/"+id+"/transiciones", jsonBody(t, body), e.token)
}

// ── Pruebas ──────────────────────────────────────────────────────────────────

func TestE2E_CicloHojaGastos(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Crear hoja con anticipo
	crearResp := do(t, env.server, "POST", "/v1/gastos/hojas",
		jsonBody(t, map[string]any{
			"descripcion":       "Viáticos instalación planta Arequipa",
			"requiere_anticipo": true,
			"monto_solicitado":  "500",
		}), env.token)
	require.Equal(t, http.StatusCreated, crearResp.StatusCode)
	var hoja hojaResp
	decodeJSON(t, crearResp, &hoja)
	assert.Equal(t, "borrador", hoja.Estado)
	assert.NotEmpty(t, hoja.Codigo)

	// 2. Enviar y aprobar
	resp := env.transicionarHoja(t, hoja.ID, map[string]any{"accion": "enviar", "estado_esperado": "borrador"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &hoja)
	assert.Equal(t, "enviado", hoja.Estado)

	resp = env.transicionarHoja(t, hoja.ID, map[string]any{"accion": "aprobar"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &hoja)
	assert.Equal(t, "aprobado", hoja.Estado)

	// 3. Cuenta bancaria para el depósito
	ctaResp := do(t, env.server, "POST", "/v1/finanzas/cuentas-bancarias",
		jsonBody(t, map[string]any{
			"banco":         "BCP",
			"numero_cuenta": "19312345678012",
			"moneda":        "PEN",
			"saldo_inicial": "10000",
		}), env.token)
	require.Equal(t, http.StatusCreated, ctaResp.StatusCode)
	var cta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ctaResp, &cta)

	// 4. Depositar el anticipo
	resp = env.transicionarHoja(t, hoja.ID, map[string]any{
		"accion":             "depositar",
		"monto":              "500",
		"cuenta_bancaria_id": cta.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &hoja)
	assert.Equal(t, "depositado", hoja.Estado)
	assert.True(t, hoja.MontoDepositado.Equal(decimal.NewFromInt(500)))

	// 5. Registrar gastos
	for _, l := range []map[string]any{
		{"fecha": "2026-08-20", "descripcion": "Taxi aeropuerto", "categoria": "transporte", "monto": "120"},
		{"fecha": "2026-08-21", "descripcion": "Almuerzo equipo", "categoria": "alimentacion", "monto": "180"},
	} {
		lineaResp := do(t, env.server, "POST", "/v1/gastos/hojas/"+hoja.ID+"/lineas", jsonBody(t, l), env.token)
		require.Equal(t, http.StatusCreated, lineaResp.StatusCode)
		lineaResp.Body.Close()
	}

	// 6. Rendir: totales derivados de las líneas
	resp = env.transicionarHoja(t, hoja.ID, map[string]any{"accion": "rendir"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &hoja)
	assert.Equal(t, "rendido", hoja.Estado)
	assert.True(t, hoja.MontoGastado.Equal(decimal.NewFromInt(300)), "monto_gastado = %s", hoja.MontoGastado)
	assert.True(t, hoja.Saldo.Equal(decimal.NewFromInt(200)), "saldo = %s", hoja.Saldo)

	// 7. Validar y cerrar
	resp = env.transicionarHoja(t, hoja.ID, map[string]any{"accion": "aprobar"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &hoja)
	assert.Equal(t, "validado", hoja.Estado)

	resp = env.transicionarHoja(t, hoja.ID, map[string]any{"accion": "cerrar"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &hoja)
	assert.Equal(t, "cerrado", hoja.Estado)

	// 8. El timeline registra cada transición en orden
	tlResp := do(t, env.server, "GET", "/v1/auditoria/hoja_gastos/"+hoja.ID, nil, env.token)
	require.Equal(t, http.StatusOK, tlResp.StatusCode)
	var timeline struct {
		Eventos []struct {
			Accion      string `json:"accion"`
			EstadoNuevo string `json:"estado_nuevo"`
		} `json:"eventos"`
	}
	decodeJSON(t, tlResp, &timeline)
	require.Len(t, timeline.Eventos, 6)
	acciones := make([]string, 0, len(timeline.Eventos))
	for _, ev := range timeline.Eventos {
		acciones = append(acciones, ev.Accion)
	}
	assert.Contains(t, acciones, "depositar")
	assert.Contains(t, acciones, "rendir")
	assert.Contains(t, acciones, "cerrar")
}

func TestE2E_EstadoObsoleto(t *testing.T) {
	env := setupTestEnv(t)

	crearResp := do(t, env.server, "POST", "/v1/gastos/hojas",
		jsonBody(t, map[string]any{
			"descripcion":      "Compra menor de repuestos",
			"monto_solicitado": "100",
		}), env.token)
	require.Equal(t, http.StatusCreated, crearResp.StatusCode)
	var hoja hojaResp
	decodeJSON(t, crearResp, &hoja)

	// La vista del cliente quedó atrás: cree que la hoja ya estaba enviada.
	resp := env.transicionarHoja(t, hoja.ID, map[string]any{"accion": "aprobar", "estado_esperado": "enviado"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Sin estado_esperado, aprobar desde borrador tampoco existe en la tabla.
	resp = env.transicionarHoja(t, hoja.ID, map[string]any{"accion": "aprobar"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// La hoja sigue intacta.
	getResp := do(t, env.server, "GET", "/v1/gastos/hojas/"+hoja.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	decodeJSON(t, getResp, &hoja)
	assert.Equal(t, "borrador", hoja.Estado)
}

func TestE2E_GuardiaOrdenSinItems(t *testing.T) {
	env := setupTestEnv(t)

	provResp := do(t, env.server, "POST", "/v1/proveedores",
		jsonBody(t, map[string]any{
			"razon_social": "Ferretería Industrial SAC",
			"ruc":          "20123456789",
		}), env.token)
	require.Equal(t, http.StatusCreated, provResp.StatusCode)
	var prov struct {
		ID string `json:"id"`
	}
	decodeJSON(t, provResp, &prov)

	ordenResp := do(t, env.server, "POST", "/v1/compras/ordenes",
		jsonBody(t, map[string]any{"proveedor_id": prov.ID}), env.token)
	require.Equal(t, http.StatusCreated, ordenResp.StatusCode)
	var orden struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, ordenResp, &orden)
	require.Equal(t, "borrador", orden.Estado)

	// Sin ítems la guardia bloquea el envío.
	resp := do(t, env.server, "POST", "/v1/compras/ordenes/"+orden.ID+"/transiciones",
		jsonBody(t, map[string]any{"accion": "enviar"}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	itemResp := do(t, env.server, "POST", "/v1/compras/ordenes/"+orden.ID+"/items",
		jsonBody(t, map[string]any{
			"descripcion":     "Cemento Portland tipo I x 42.5kg",
			"cantidad":        10,
			"precio_unitario": "32.50",
		}), env.token)
	require.Equal(t, http.StatusCreated, itemResp.StatusCode)
	itemResp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/compras/ordenes/"+orden.ID+"/transiciones",
		jsonBody(t, map[string]any{"accion": "enviar"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &orden)
	assert.Equal(t, "enviado", orden.Estado)
}

func TestE2E_CobranzaParcialYTotal(t *testing.T) {
	env := setupTestEnv(t)

	venc := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	crearResp := do(t, env.server, "POST", "/v1/finanzas/cuentas-cobrar",
		jsonBody(t, map[string]any{
			"cliente_nombre":    "Minera Los Andes SA",
			"monto_total":       "1000",
			"fecha_vencimiento": venc,
		}), env.token)
	require.Equal(t, http.StatusCreated, crearResp.StatusCode)
	var cuenta struct {
		ID           string          `json:"id"`
		Estado       string          `json:"estado"`
		MontoCobrado decimal.Decimal `json:"monto_cobrado"`
		Saldo        decimal.Decimal `json:"saldo"`
	}
	decodeJSON(t, crearResp, &cuenta)

	resp := do(t, env.server, "POST", "/v1/finanzas/cuentas-cobrar/"+cuenta.ID+"/transiciones",
		jsonBody(t, map[string]any{"accion": "emitir"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &cuenta)
	require.Equal(t, "emitida", cuenta.Estado)

	// Cobro parcial de 400
	resp = do(t, env.server, "POST", "/v1/finanzas/cuentas-cobrar/"+cuenta.ID+"/cobros",
		jsonBody(t, map[string]any{"monto": "400", "metodo": "transferencia"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &cuenta)
	assert.Equal(t, "parcial", cuenta.Estado)
	assert.True(t, cuenta.Saldo.Equal(decimal.NewFromInt(600)), "saldo = %s", cuenta.Saldo)

	// El cobro del saldo restante la deja pagada
	resp = do(t, env.server, "POST", "/v1/finanzas/cuentas-cobrar/"+cuenta.ID+"/cobros",
		jsonBody(t, map[string]any{"monto": "600", "metodo": "efectivo"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &cuenta)
	assert.Equal(t, "pagada", cuenta.Estado)
	assert.True(t, cuenta.Saldo.IsZero(), "saldo = %s", cuenta.Saldo)

	// El aging responde aunque no haya cuentas vencidas
	agingResp := do(t, env.server, "GET", fmt.Sprintf("/v1/finanzas/cuentas-cobrar/aging?corte=%s", time.Now().Format("2006-01-02")), nil, env.token)
	require.Equal(t, http.StatusOK, agingResp.StatusCode)
	var aging struct {
		Buckets []struct {
			Rango string `json:"rango"`
		} `json:"buckets"`
	}
	decodeJSON(t, agingResp, &aging)
	assert.Len(t, aging.Buckets, 4)
}
