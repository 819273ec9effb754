package handlers

import (
	"guidelines-cms/helper"
	"guidelines-cms/models"
	"guidelines-cms/repositories"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	deviceRepo repositories.DeviceRepository
	Helper     *helper.HTTPHelper
}

func NewDeviceHandler(deviceRepo repositories.DeviceRepository) *DeviceHandler {
	return &DeviceHandler{deviceRepo: deviceRepo}
}

func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req models.RegisterDeviceRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if req.ExpoPushToken == "" {
		h.Helper.SendBadRequest(c, "expo_push_token field is required", h.Helper.EmptyJsonMap())
		return
	}

	device, err := h.deviceRepo.Register(req.ExpoPushToken)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Device registered successfully", device)
}

func (h *DeviceHandler) UnregisterDevice(c *gin.Context) {
	var req models.RegisterDeviceRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if req.ExpoPushToken == "" {
		h.Helper.SendBadRequest(c, "expo_push_token field is required", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.deviceRepo.DeleteByToken(req.ExpoPushToken); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Device unregistered successfully", h.Helper.EmptyJsonMap())
}
