package handler

import (
	"errors"
	"net/http"

	"github.com/flintchat/flint/internal/model"
	"github.com/gin-gonic/gin"
)

// respondError maps a domain error to a status code and a single
// user-visible message
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrSelfReferential),
		errors.Is(err, model.ErrAlreadyFriends),
		errors.Is(err, model.ErrDuplicateRequest):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrBlocked),
		errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrUserExists):
		status = http.StatusConflict
	}
	c.JSON(status, model.ErrorResponse{Error: err.Error()})
}
