package service_test

import (
	"context"
	"errors"
	"testing"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"
	"gyscontrol/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory ProveedorRepository stub ───────────────────────────────────────

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
	contactos   map[uuid.UUID]*model.ContactoProveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{
		proveedores: make(map[uuid.UUID]*model.Proveedor),
		contactos:   make(map[uuid.UUID]*model.ContactoProveedor),
	}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for _, existing := range r.proveedores {
		if existing.RUC == p.RUC {
			return errors.New("unique constraint violation")
		}
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok || !p.Activo {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubProveedorRepo) FindByRUC(_ context.Context, ruc string) (*model.Proveedor, error) {
	for _, p := range r.proveedores {
		if p.RUC == ruc && p.Activo {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubProveedorRepo) List(_ context.Context) ([]model.Proveedor, error) {
	result := make([]model.Proveedor, 0, len(r.proveedores))
	for _, p := range r.proveedores {
		if p.Activo {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.proveedores[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Activo = false
	return nil
}

func (r *stubProveedorRepo) CreateContacto(_ context.Context, c *model.ContactoProveedor) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.contactos[c.ID] = c
	return nil
}

func (r *stubProveedorRepo) ListContactos(_ context.Context, proveedorID uuid.UUID) ([]model.ContactoProveedor, error) {
	var result []model.ContactoProveedor
	for _, c := range r.contactos {
		if c.ProveedorID == proveedorID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubProveedorRepo) DeleteContacto(_ context.Context, id uuid.UUID) error {
	if _, ok := r.contactos[id]; !ok {
		return errors.New("record not found")
	}
	delete(r.contactos, id)
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedProveedor(repo *stubProveedorRepo, razonSocial, ruc string) *model.Proveedor {
	p := &model.Proveedor{
		ID:          uuid.New(),
		RazonSocial: razonSocial,
		RUC:         ruc,
		Activo:      true,
	}
	repo.proveedores[p.ID] = p
	return p
}

func buildProveedorSvc() (service.ProveedorService, *stubProveedorRepo) {
	repo := newStubProveedorRepo()
	return service.NewProveedorService(repo), repo
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCrearProveedor(t *testing.T) {
	svc, _ := buildProveedorSvc()

	cargo := "Jefe de Ventas"
	resp, err := svc.Crear(context.Background(), dto.CrearProveedorRequest{
		RazonSocial: "Aceros del Sur S.A.C.",
		RUC:         "20512345678",
		Contactos: []dto.ContactoProveedorInput{
			{Nombre: "María Quispe", Cargo: &cargo},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Aceros del Sur S.A.C.", resp.RazonSocial)
	assert.True(t, resp.Activo)
	assert.Len(t, resp.Contactos, 1)
}

func TestCrearProveedor_RUCDuplicado(t *testing.T) {
	svc, repo := buildProveedorSvc()
	seedProveedor(repo, "Proveedor Existente", "20599999999")

	_, err := svc.Crear(context.Background(), dto.CrearProveedorRequest{
		RazonSocial: "Otro Proveedor",
		RUC:         "20599999999",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ya existe un proveedor con RUC")
}

func TestObtenerProveedor_NoExiste(t *testing.T) {
	svc, _ := buildProveedorSvc()

	_, err := svc.ObtenerPorID(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no encontrado")
}

func TestListarProveedores(t *testing.T) {
	svc, repo := buildProveedorSvc()
	seedProveedor(repo, "Proveedor A", "20511111111")
	seedProveedor(repo, "Proveedor B", "20522222222")

	lista, err := svc.Listar(context.Background())

	require.NoError(t, err)
	assert.Len(t, lista, 2)
}

func TestActualizarProveedor(t *testing.T) {
	svc, repo := buildProveedorSvc()
	p := seedProveedor(repo, "Proveedor Original", "20533333333")
	nombre := "Proveedor Actualizado"
	tel := "014445555"

	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProveedorRequest{
		RazonSocial: &nombre,
		Telefono:    &tel,
	})

	require.NoError(t, err)
	assert.Equal(t, "Proveedor Actualizado", resp.RazonSocial)
	assert.Equal(t, &tel, resp.Telefono)
}

func TestEliminarProveedor(t *testing.T) {
	svc, repo := buildProveedorSvc()
	p := seedProveedor(repo, "Para Borrar", "20544444444")

	err := svc.Eliminar(context.Background(), p.ID)
	require.NoError(t, err)

	// Inactivo: ya no debe aparecer al consultarlo.
	_, err = svc.ObtenerPorID(context.Background(), p.ID)
	assert.Error(t, err)
}

func TestAgregarContacto_ProveedorNoExiste(t *testing.T) {
	svc, _ := buildProveedorSvc()

	_, err := svc.AgregarContacto(context.Background(), uuid.New(), dto.ContactoProveedorInput{
		Nombre: "Carlos Rojas",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no encontrado")
}

func TestAgregarYEliminarContacto(t *testing.T) {
	svc, repo := buildProveedorSvc()
	p := seedProveedor(repo, "Con Contactos", "20555555555")

	resp, err := svc.AgregarContacto(context.Background(), p.ID, dto.ContactoProveedorInput{
		Nombre: "Lucía Fernández",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lucía Fernández", resp.Nombre)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, svc.EliminarContacto(context.Background(), id))
	assert.Empty(t, repo.contactos)
}
