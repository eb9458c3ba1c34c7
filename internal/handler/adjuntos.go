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

// Límite de tamaño por archivo. El storage aplica el suyo propio, pero
// rechazar temprano evita subir megas que igual van a fallar.
const maxAdjuntoBytes = 10 << 20

type AdjuntosHandler struct{ svc service.AdjuntosService }

func NewAdjuntosHandler(svc service.AdjuntosService) *AdjuntosHandler {
	return &AdjuntosHandler{svc: svc}
}

// Subir godoc
// @Summary      Subir adjunto
// @Description  Sube un archivo (multipart) asociado a exactamente un documento: hoja de gastos, línea de gasto, cuenta por pagar u orden de compra.
// @Tags         adjuntos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        archivo         formData file   true  "Archivo a subir"
// @Param        tipo            formData string true  "factura, boleta, comprobante_deposito, comprobante_pago u otro"
// @Param        hoja_gastos_id  formData string false "UUID de la hoja de gastos"
// @Param        gasto_linea_id  formData string false "UUID de la línea de gasto"
// @Param        cuenta_pagar_id formData string false "UUID de la cuenta por pagar"
// @Param        orden_compra_id formData string false "UUID de la orden de compra"
// @Success      201 {object} dto.AdjuntoResponse
// @Failure      400 {object} apierror.APIError
// @Failure      503 {object} apierror.APIError
// @Router       /v1/adjuntos [post]
func (h *AdjuntosHandler) Subir(c *gin.Context) {
	var req dto.SubirAdjuntoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("archivo requerido"))
		return
	}
	if fileHeader.Size > maxAdjuntoBytes {
		c.JSON(http.StatusBadRequest, apierror.New("el archivo supera el limite de 10MB"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("no se pudo leer el archivo"))
		return
	}
	defer file.Close()

	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Subir(c.Request.Context(), actorID, req, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPorDueno godoc
// @Summary      Listar adjuntos de un documento
// @Tags         adjuntos
// @Security     BearerAuth
// @Param        hoja_gastos_id  query string false "UUID de la hoja de gastos"
// @Param        gasto_linea_id  query string false "UUID de la línea de gasto"
// @Param        cuenta_pagar_id query string false "UUID de la cuenta por pagar"
// @Param        orden_compra_id query string false "UUID de la orden de compra"
// @Success      200 {array} dto.AdjuntoResponse
// @Router       /v1/adjuntos [get]
func (h *AdjuntosHandler) ListPorDueno(c *gin.Context) {
	var req dto.SubirAdjuntoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListPorDueno(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar adjunto
// @Description  Solo quien lo subió o un administrador.
// @Tags         adjuntos
// @Security     BearerAuth
// @Param        id path string true "UUID del adjunto"
// @Success      204 "Sin contenido"
// @Failure      400 {object} apierror.APIError
// @Router       /v1/adjuntos/{id} [delete]
func (h *AdjuntosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Eliminar(c.Request.Context(), id, actorID, claims.Rol); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
