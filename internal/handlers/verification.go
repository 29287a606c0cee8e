// internal/handlers/verification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/authentiq/authentiq-backend/internal/services"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
}

func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// GET /verify/:token
//
// Unauthenticated by design: anyone holding a physical product can scan its
// code. An unknown token is a successful 200 with is_valid=false.
func (h *VerificationHandler) Verify(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		utils.BadRequestResponse(c, "Token is required", nil)
		return
	}

	result, err := h.verificationService.Verify(c.Request.Context(), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /verify/:token/use
func (h *VerificationHandler) MarkUsed(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		utils.BadRequestResponse(c, "Token is required", nil)
		return
	}

	unit, err := h.verificationService.MarkUsed(c.Request.Context(), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, unit)
}
