package handler

import (
	"net/http"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/dto"
	"gyscontrol/internal/middleware"
	"gyscontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComprasHandler struct{ svc service.ComprasService }

func NewComprasHandler(svc service.ComprasService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

// CrearOrden godoc
// @Summary      Crear orden de compra
// @Description  Crea una orden de compra en borrador con correlativo OC-NNNN.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearOrdenCompraRequest true "Datos de la orden"
// @Success      201  {object} dto.OrdenCompraResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/compras/ordenes [post]
func (h *ComprasHandler) CrearOrden(c *gin.Context) {
	var req dto.CrearOrdenCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	solicitanteID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearOrden(c.Request.Context(), solicitanteID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetOrden godoc
// @Summary      Detalle de orden de compra
// @Tags         compras
// @Security     BearerAuth
// @Param        id path string true "UUID de la orden"
// @Success      200 {object} dto.OrdenCompraResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/compras/ordenes/{id} [get]
func (h *ComprasHandler) GetOrden(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.GetOrden(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOrdenes godoc
// @Summary      Listar órdenes de compra
// @Tags         compras
// @Security     BearerAuth
// @Param        estado       query string false "Filtro por estado"
// @Param        proveedor_id query string false "Filtro por proveedor"
// @Param        page         query int    false "Página"
// @Param        limit        query int    false "Registros por página"
// @Success      200 {object} dto.OrdenCompraListResponse
// @Router       /v1/compras/ordenes [get]
func (h *ComprasHandler) ListOrdenes(c *gin.Context) {
	var filter dto.OrdenCompraFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListOrdenes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ordenes de compra"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarItem godoc
// @Summary      Agregar item a la orden
// @Description  Solo en borrador o rechazado. Recalcula el monto total.
// @Tags         compras
// @Security     BearerAuth
// @Param        id   path string                    true "UUID de la orden"
// @Param        body body dto.OrdenCompraItemRequest true "Item"
// @Success      201  {object} dto.OrdenCompraResponse
// @Router       /v1/compras/ordenes/{id}/items [post]
func (h *ComprasHandler) AgregarItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.OrdenCompraItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorDesdeClaims(c)
	resp, err := h.svc.AgregarItem(c.Request.Context(), id, actor.ID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarItem godoc
// @Summary      Eliminar item de la orden
// @Tags         compras
// @Security     BearerAuth
// @Param        id      path string true "UUID de la orden"
// @Param        item_id path string true "UUID del item"
// @Success      200     {object} dto.OrdenCompraResponse
// @Router       /v1/compras/ordenes/{id}/items/{item_id} [delete]
func (h *ComprasHandler) EliminarItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de item invalido"))
		return
	}
	actor := actorDesdeClaims(c)
	resp, err := h.svc.EliminarItem(c.Request.Context(), id, itemID, actor.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transicionar godoc
// @Summary      Aplicar acción de ciclo de vida
// @Description  Ejecuta una transición de la orden (enviar, aprobar, rechazar, marcar atendida, cancelar) de forma atómica.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "UUID de la orden"
// @Param        body body dto.TransicionRequest true "Acción y contexto"
// @Success      200  {object} dto.OrdenCompraResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/compras/ordenes/{id}/transiciones [post]
func (h *ComprasHandler) Transicionar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.TransicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transicionar(c.Request.Context(), id, actorDesdeClaims(c), req)
	if err != nil {
		responderTransicion(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
