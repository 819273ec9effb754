package handlers

import (
	"strconv"

	"guidelines-cms/helper"
	"guidelines-cms/models"
	"guidelines-cms/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService services.QuestionService
	Helper          *helper.HTTPHelper
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) CreateQuestions(c *gin.Context) {
	var req models.CreateQuestionsRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	questions, err := h.questionService.CreateQuestions(req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Questions created successfully", questions)
}

func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	questions, err := h.questionService.GetQuestions()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", questions)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid question ID", h.Helper.EmptyJsonMap())
		return
	}

	question, err := h.questionService.GetQuestion(uint(id))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid question ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	question, err := h.questionService.UpdateText(uint(id), req.Text)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Question updated successfully", question)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid question ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.questionService.DeleteQuestion(uint(id)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Question deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *QuestionHandler) ResolveQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid question ID", h.Helper.EmptyJsonMap())
		return
	}

	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return
	}

	question, err := h.questionService.ResolveDirect(uint(id), uint(postID))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Question resolved successfully", question)
}
