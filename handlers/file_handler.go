package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"guidelines-cms/helper"
	"guidelines-cms/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService       services.FileService
	allowedExtensions []string
	logger            *zap.Logger
	Helper            *helper.HTTPHelper
}

func NewFileHandler(fileService services.FileService, allowedExtensions []string, logger *zap.Logger) *FileHandler {
	return &FileHandler{fileService: fileService, allowedExtensions: allowedExtensions, logger: logger}
}

func (h *FileHandler) GetFiles(c *gin.Context) {
	files, err := h.fileService.GetFiles()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", files)
}

func (h *FileHandler) AttachFile(c *gin.Context) {
	revisionID, err := strconv.ParseUint(c.Param("revision_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid revision ID", h.Helper.EmptyJsonMap())
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		h.Helper.SendBadRequest(c, "file part is required", h.Helper.EmptyJsonMap())
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	defer f.Close()

	file, err := h.fileService.AttachToRevision(uint(revisionID), services.FileUpload{Name: fh.Filename, Content: f}, h.allowedExtensions)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "File attached successfully", file)
}

func (h *FileHandler) DetachFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid file ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.fileService.Detach(uint(id)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "File deleted successfully", h.Helper.EmptyJsonMap())
}

// ViewFile streams the stored bytes inline so browsers render what they can.
func (h *FileHandler) ViewFile(c *gin.Context) {
	h.stream(c, "inline")
}

// DownloadFile streams the stored bytes as an attachment.
func (h *FileHandler) DownloadFile(c *gin.Context) {
	h.stream(c, "attachment")
}

func (h *FileHandler) stream(c *gin.Context, disposition string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid file ID", h.Helper.EmptyJsonMap())
		return
	}

	rc, file, err := h.fileService.Open(uint(id))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.DisplayName))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.logger.Error("streaming file failed", zap.Uint("file_id", file.ID), zap.Error(err))
	}
}
