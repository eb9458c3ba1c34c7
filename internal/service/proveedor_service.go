package service

import (
	"context"
	"errors"
	"fmt"

	"gyscontrol/internal/dto"
	"gyscontrol/internal/model"
	"gyscontrol/internal/repository"

	"github.com/google/uuid"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	AgregarContacto(ctx context.Context, proveedorID uuid.UUID, req dto.ContactoProveedorInput) (*dto.ContactoProveedorResponse, error)
	EliminarContacto(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	if existente, err := s.repo.FindByRUC(ctx, req.RUC); err == nil && existente != nil {
		return nil, fmt.Errorf("ya existe un proveedor con RUC %s", req.RUC)
	}

	p := model.Proveedor{
		RazonSocial:   req.RazonSocial,
		RUC:           req.RUC,
		Telefono:      req.Telefono,
		Email:         req.Email,
		Direccion:     req.Direccion,
		CondicionPago: req.CondicionPago,
		Activo:        true,
	}
	for _, c := range req.Contactos {
		p.Contactos = append(p.Contactos, model.ContactoProveedor{
			Nombre:   c.Nombre,
			Cargo:    c.Cargo,
			Telefono: c.Telefono,
			Email:    c.Email,
		})
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return proveedorToResponse(&p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		out = append(out, *proveedorToResponse(&proveedores[i]))
	}
	return out, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	if req.RazonSocial != nil {
		p.RazonSocial = *req.RazonSocial
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Direccion != nil {
		p.Direccion = req.Direccion
	}
	if req.CondicionPago != nil {
		p.CondicionPago = req.CondicionPago
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *proveedorService) AgregarContacto(ctx context.Context, proveedorID uuid.UUID, req dto.ContactoProveedorInput) (*dto.ContactoProveedorResponse, error) {
	if _, err := s.repo.FindByID(ctx, proveedorID); err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	c := model.ContactoProveedor{
		ProveedorID: proveedorID,
		Nombre:      req.Nombre,
		Cargo:       req.Cargo,
		Telefono:    req.Telefono,
		Email:       req.Email,
	}
	if err := s.repo.CreateContacto(ctx, &c); err != nil {
		return nil, err
	}
	resp := contactoToResponse(&c)
	return &resp, nil
}

func (s *proveedorService) EliminarContacto(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteContacto(ctx, id)
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	contactos := make([]dto.ContactoProveedorResponse, 0, len(p.Contactos))
	for i := range p.Contactos {
		contactos = append(contactos, contactoToResponse(&p.Contactos[i]))
	}
	return &dto.ProveedorResponse{
		ID:            p.ID.String(),
		RazonSocial:   p.RazonSocial,
		RUC:           p.RUC,
		Telefono:      p.Telefono,
		Email:         p.Email,
		Direccion:     p.Direccion,
		CondicionPago: p.CondicionPago,
		Activo:        p.Activo,
		Contactos:     contactos,
	}
}

func contactoToResponse(c *model.ContactoProveedor) dto.ContactoProveedorResponse {
	return dto.ContactoProveedorResponse{
		ID:       c.ID.String(),
		Nombre:   c.Nombre,
		Cargo:    c.Cargo,
		Telefono: c.Telefono,
		Email:    c.Email,
	}
}
