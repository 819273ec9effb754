package handlers

import (
	"guidelines-cms/helper"
	"guidelines-cms/models"
	"guidelines-cms/services"

	"github.com/gin-gonic/gin"
	"gopkg.in/go-playground/validator.v9"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if err := h.Helper.Validate.Struct(req); err != nil {
		h.Helper.SendValidationError(c, err.(validator.ValidationErrors))
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "User registered successfully", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if err := h.Helper.Validate.Struct(req); err != nil {
		h.Helper.SendValidationError(c, err.(validator.ValidationErrors))
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Login successful", resp)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		h.Helper.SendUnauthorizedError(c, "Unauthorized", h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.authService.GetUserByID(userID.(uint))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", user)
}
