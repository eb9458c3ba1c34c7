package handler

import (
	"errors"
	"net/http"
	"reflect"

	"gyscontrol/internal/apierror"
	"gyscontrol/internal/middleware"
	"gyscontrol/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// actorDesdeClaims builds the workflow actor from the authenticated JWT.
func actorDesdeClaims(c *gin.Context) workflow.Actor {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return workflow.Actor{ID: id, Rol: claims.Rol}
}

// responderTransicion maps workflow errors to their HTTP status:
// conflictos de estado a 409, guardas y permisos a 422, el resto a 400.
func responderTransicion(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrEstadoObsoleto):
		c.JSON(http.StatusConflict, apierror.New("el documento fue modificado por otra operación, recargue e intente de nuevo"))
	case errors.Is(err, workflow.ErrTransicionInvalida):
		c.JSON(http.StatusConflict, apierror.New("la acción no es válida para el estado actual del documento"))
	case workflow.EsGuardError(err):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
