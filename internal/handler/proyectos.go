package handler

import (
	"net/http"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/dto"
	"gyscontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProyectosHandler struct{ svc service.ProyectosService }

func NewProyectosHandler(svc service.ProyectosService) *ProyectosHandler {
	return &ProyectosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear proyecto
// @Description  Crea un proyecto con correlativo PRY-NNNN. Si se indica una plantilla, genera el cronograma de fases.
// @Tags         proyectos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProyectoRequest true "Datos del proyecto"
// @Success      201  {object} dto.ProyectoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/proyectos [post]
func (h *ProyectosHandler) Crear(c *gin.Context) {
	var req dto.CrearProyectoRequest
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

// Get godoc
// @Summary      Detalle de proyecto con sus fases
// @Tags         proyectos
// @Security     BearerAuth
// @Param        id path string true "UUID del proyecto"
// @Success      200 {object} dto.ProyectoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/proyectos/{id} [get]
func (h *ProyectosHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Listar proyectos
// @Tags         proyectos
// @Security     BearerAuth
// @Param        estado query string false "activo, pausado o finalizado"
// @Success      200 {array} dto.ProyectoResponse
// @Router       /v1/proyectos [get]
func (h *ProyectosHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("estado"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar proyectos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarFase godoc
// @Summary      Actualizar fase de proyecto
// @Description  Cambia estado o avance de la fase. Completar todas las fases finaliza el proyecto.
// @Tags         proyectos
// @Security     BearerAuth
// @Param        id      path string                   true "UUID del proyecto"
// @Param        fase_id path string                   true "UUID de la fase"
// @Param        body    body dto.ActualizarFaseRequest true "Cambios"
// @Success      200     {object} dto.ProyectoResponse
// @Router       /v1/proyectos/{id}/fases/{fase_id} [patch]
func (h *ProyectosHandler) ActualizarFase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	faseID, err := uuid.Parse(c.Param("fase_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de fase invalido"))
		return
	}
	var req dto.ActualizarFaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarFase(c.Request.Context(), id, faseID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearPlantilla godoc
// @Summary      Crear plantilla de cronograma
// @Description  Las fases de la plantilla deben sumar 100% de duración.
// @Tags         proyectos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPlantillaRequest true "Plantilla y sus fases"
// @Success      201  {object} dto.PlantillaResponse
// @Router       /v1/proyectos/plantillas [post]
func (h *ProyectosHandler) CrearPlantilla(c *gin.Context) {
	var req dto.CrearPlantillaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearPlantilla(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPlantillas godoc
// @Summary      Listar plantillas de cronograma
// @Tags         proyectos
// @Security     BearerAuth
// @Success      200 {array} dto.PlantillaResponse
// @Router       /v1/proyectos/plantillas [get]
func (h *ProyectosHandler) ListPlantillas(c *gin.Context) {
	resp, err := h.svc.ListPlantillas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar plantillas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
