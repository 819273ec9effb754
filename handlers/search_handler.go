package handlers

import (
	"guidelines-cms/helper"
	"guidelines-cms/models"
	"guidelines-cms/services"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService services.SearchService
	Helper        *helper.HTTPHelper
}

func NewSearchHandler(searchService services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) SearchPosts(c *gin.Context) {
	var params models.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	posts, err := h.searchService.Search(c.Param("query"), params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", posts)
}
