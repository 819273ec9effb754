package handlers

import (
	"io"
	"strconv"
	"strings"

	"guidelines-cms/helper"
	"guidelines-cms/models"
	"guidelines-cms/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService       services.PostService
	allowedExtensions []string
	Helper            *helper.HTTPHelper
}

func NewPostHandler(postService services.PostService, allowedExtensions []string) *PostHandler {
	return &PostHandler{postService: postService, allowedExtensions: allowedExtensions}
}

// formUploads extracts the "files" parts of a multipart request. JSON
// requests simply carry no uploads.
func formUploads(c *gin.Context) ([]services.FileUpload, []io.Closer, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}

	var uploads []services.FileUpload
	var closers []io.Closer
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			for _, cl := range closers {
				cl.Close()
			}
			return nil, nil, err
		}
		uploads = append(uploads, services.FileUpload{Name: fh.Filename, Content: f})
		closers = append(closers, f)
	}
	return uploads, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, cl := range closers {
		cl.Close()
	}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	uploads, closers, err := formUploads(c)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	defer closeAll(closers)

	post, err := h.postService.CreatePost(req, uploads, h.allowedExtensions)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Post created successfully", post)
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.postService.GetPosts()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	post, err := h.postService.GetPost(uint(id))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.postService.DeletePost(uint(id)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *PostHandler) CreateRevision(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CreateRevisionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	uploads, closers, err := formUploads(c)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	defer closeAll(closers)

	rev, err := h.postService.AddRevision(uint(id), req, uploads, h.allowedExtensions)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Revision created successfully", rev)
}

func (h *PostHandler) GetLatest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	rev, err := h.postService.GetLatest(uint(id))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", rev)
}

func (h *PostHandler) GetRevisions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	revs, err := h.postService.GetRevisions(uint(id))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", revs)
}

func (h *PostHandler) GetRevision(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("revision_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid revision ID", h.Helper.EmptyJsonMap())
		return
	}

	rev, err := h.postService.GetRevision(uint(id))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", rev)
}

func (h *PostHandler) DeleteRevision(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("revision_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid revision ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.postService.DeleteRevision(uint(id)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Revision deleted successfully", h.Helper.EmptyJsonMap())
}
