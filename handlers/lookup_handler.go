package handlers

import (
	"strconv"

	"guidelines-cms/helper"
	"guidelines-cms/models"
	"guidelines-cms/services"

	"github.com/gin-gonic/gin"
)

// LookupHandler serves the site and subject vocabularies questions are
// filed under.
type LookupHandler struct {
	siteService    services.SiteService
	subjectService services.SubjectService
	Helper         *helper.HTTPHelper
}

func NewLookupHandler(siteService services.SiteService, subjectService services.SubjectService) *LookupHandler {
	return &LookupHandler{siteService: siteService, subjectService: subjectService}
}

func (h *LookupHandler) CreateSite(c *gin.Context) {
	var req models.CreateSiteRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	site, err := h.siteService.CreateSite(req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Site created successfully", site)
}

func (h *LookupHandler) GetSites(c *gin.Context) {
	sites, err := h.siteService.GetSites()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", sites)
}

func (h *LookupHandler) DeleteSite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid site ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.siteService.DeleteSite(uint(id)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Site deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *LookupHandler) CreateSubject(c *gin.Context) {
	var req models.CreateSubjectRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	subject, err := h.subjectService.CreateSubject(req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Subject created successfully", subject)
}

func (h *LookupHandler) GetSubjects(c *gin.Context) {
	subjects, err := h.subjectService.GetSubjects()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", subjects)
}

func (h *LookupHandler) DeleteSubject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid subject ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.subjectService.DeleteSubject(uint(id)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Subject deleted successfully", h.Helper.EmptyJsonMap())
}
