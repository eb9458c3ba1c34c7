package handler

import (
	"net/http"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/dto"
	"gyscontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProveedoresHandler struct{ svc service.ProveedorService }

func NewProveedoresHandler(svc service.ProveedorService) *ProveedoresHandler {
	return &ProveedoresHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear proveedor
// @Tags         proveedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProveedorRequest true "Datos del proveedor"
// @Success      201  {object} dto.ProveedorResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/proveedores [post]
func (h *ProveedoresHandler) Crear(c *gin.Context) {
	var req dto.CrearProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar proveedores
// @Tags         proveedores
// @Security     BearerAuth
// @Success      200 {array} dto.ProveedorResponse
// @Router       /v1/proveedores [get]
func (h *ProveedoresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar proveedores"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Detalle de proveedor con contactos
// @Tags         proveedores
// @Security     BearerAuth
// @Param        id path string true "UUID del proveedor"
// @Success      200 {object} dto.ProveedorResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/proveedores/{id} [get]
func (h *ProveedoresHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar proveedor
// @Tags         proveedores
// @Security     BearerAuth
// @Param        id   path string                       true "UUID del proveedor"
// @Param        body body dto.ActualizarProveedorRequest true "Cambios"
// @Success      200  {object} dto.ProveedorResponse
// @Router       /v1/proveedores/{id} [patch]
func (h *ProveedoresHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar proveedor (borrado lógico)
// @Tags         proveedores
// @Security     BearerAuth
// @Param        id path string true "UUID del proveedor"
// @Success      204 "Sin contenido"
// @Router       /v1/proveedores/{id} [delete]
func (h *ProveedoresHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AgregarContacto godoc
// @Summary      Agregar contacto a un proveedor
// @Tags         proveedores
// @Security     BearerAuth
// @Param        id   path string                     true "UUID del proveedor"
// @Param        body body dto.ContactoProveedorInput true "Contacto"
// @Success      201  {object} dto.ContactoProveedorResponse
// @Router       /v1/proveedores/{id}/contactos [post]
func (h *ProveedoresHandler) AgregarContacto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ContactoProveedorInput
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarContacto(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarContacto godoc
// @Summary      Eliminar contacto de proveedor
// @Tags         proveedores
// @Security     BearerAuth
// @Param        contacto_id path string true "UUID del contacto"
// @Success      204 "Sin contenido"
// @Router       /v1/proveedores/contactos/{contacto_id} [delete]
func (h *ProveedoresHandler) EliminarContacto(c *gin.Context) {
	contactoID, err := uuid.Parse(c.Param("contacto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarContacto(c.Request.Context(), contactoID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
