package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Entity  string `json:"entity,omitempty"`

	ItemID    uint `json:"item_id,omitempty"`
	Available int  `json:"available,omitempty"`
	Requested int  `json:"requested,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Handle mapeia os erros de negócio para a resposta HTTP. Nenhum erro passa
// sem resposta: o fallback é 500 com código genérico.
func Handle(c *gin.Context, err error) {
	var (
		ve ValidationError
		nf NotFoundError
		pe PermissionError
		is InsufficientStockError
		ce ConflictError
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    "validation_error",
			Message: ve.Message,
			Field:   ve.Field,
		})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, HTTPError{
			Code:    "not_found",
			Message: nf.Error(),
			Entity:  nf.Entity,
		})
	case errors.As(err, &pe):
		c.JSON(http.StatusForbidden, HTTPError{
			Code:    "permission_denied",
			Message: pe.Message,
		})
	case errors.As(err, &is):
		c.JSON(http.StatusUnprocessableEntity, HTTPError{
			Code:      "insufficient_stock",
			Message:   is.Error(),
			ItemID:    is.ItemID,
			Available: is.Available,
			Requested: is.Requested,
		})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, HTTPError{
			Code:    "conflict",
			Message: ce.Message,
		})
	default:
		c.JSON(http.StatusInternalServerError, HTTPError{
			Code:    "internal_error",
			Message: "Erro interno.",
		})
	}
}
