// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/authentiq/authentiq-backend/internal/models"
	"github.com/authentiq/authentiq-backend/internal/services"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Anything outside the taxonomy is a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, services.ErrDuplicateOwnership):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrAlreadyUsed):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

// respondBindingError turns a request binding failure into the envelope.
// Field-level validator failures come back as a structured list.
func respondBindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(fieldErrs))
		return
	}
	utils.BadRequestResponse(c, "Invalid request body", err.Error())
}

// actorFromContext rebuilds the tagged owner from the auth middleware's
// context values.
func actorFromContext(c *gin.Context) (models.Owner, bool) {
	idStr, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return models.Owner{}, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return models.Owner{}, false
	}

	kind, _ := utils.GetActorKindFromContext(c)
	if kind == string(models.OwnerKindSeller) {
		return models.SellerOwner(id), true
	}
	return models.UserOwner(id), true
}
