package api

import (
	"net/http"

	"github.com/kaushalkumar0001/StressLess/middleware"
	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/services"
	"github.com/kaushalkumar0001/StressLess/utils"

	"github.com/gin-gonic/gin"
)

// SubmitResultRequest is the completed quiz: answers[i] belongs to questions[i].
type SubmitResultRequest struct {
	Answers   []int             `json:"answers" binding:"required"`
	Questions []models.Question `json:"questions" binding:"required,dive"`
}

// StartAssessmentHandler serves a fresh question set.
// POST /api/assessment/start
func (h *APIHandler) StartAssessmentHandler(c *gin.Context) {
	questions, err := h.assessmentService.StartAssessment(middleware.UserID(c))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to start assessment.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Assessment started",
		"data":    gin.H{"questions": questions},
	})
}

// ResetAssessmentHandler forgets which questions the caller has seen.
// POST /api/assessment/reset
func (h *APIHandler) ResetAssessmentHandler(c *gin.Context) {
	h.assessmentService.ResetQuestionHistory(middleware.UserID(c))
	c.Status(http.StatusNoContent)
}

// SubmitResultHandler scores and stores a completed assessment.
// POST /api/results
func (h *APIHandler) SubmitResultHandler(c *gin.Context) {
	var req SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: answers and questions are required.", err)
		return
	}

	result, err := h.assessmentService.SubmitAnswers(c.Request.Context(), middleware.UserID(c), req.Answers, req.Questions)
	if err != nil {
		sendServiceError(c, err, "Failed to save result.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    201,
		"message": "Result saved successfully",
		"data":    result,
	})
}

// GetResultHandler returns one of the caller's results with any stored analysis.
// GET /api/results/:id
func (h *APIHandler) GetResultHandler(c *gin.Context) {
	result, err := h.assessmentService.GetResult(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		sendServiceError(c, err, "Failed to fetch result.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Result retrieved successfully",
		"data": gin.H{
			"result":         result,
			"categoryLevels": services.CategoryLevels(result.CategoricalScores.Data()),
		},
	})
}

// AnalysisHandler returns the stored AI review of a result or generates it.
// POST /api/ai-analysis
func (h *APIHandler) AnalysisHandler(c *gin.Context) {
	var req services.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	outcome, err := h.analysisService.GetOrCreateAnalysis(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		sendServiceError(c, err, "Failed to generate AI analysis.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Analysis ready",
		"data":    outcome,
	})
}
