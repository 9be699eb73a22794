package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
	"github.com/courtkeeper/scheduling-api/pkg/response"
)

type authService interface {
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
}

// AuthHandler exposes operator authentication.
type AuthHandler struct {
	service authService
}

// NewAuthHandler builds a new handler.
func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login issues a bearer token for valid operator credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	result, err := h.service.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
