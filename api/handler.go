package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kaushalkumar0001/StressLess/database"
	"github.com/kaushalkumar0001/StressLess/middleware"
	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/services"
	"github.com/kaushalkumar0001/StressLess/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// APIHandler holds all dependencies for API handlers, such as services and the database handle.
type APIHandler struct {
	authService        services.AuthService
	assessmentService  services.AssessmentService
	analysisService    services.AnalysisService
	appointmentService services.AppointmentService
	progressService    services.ProgressService
	chatService        services.ChatService
	db                 *gorm.DB // Used by the health check only
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	authService services.AuthService,
	assessmentService services.AssessmentService,
	analysisService services.AnalysisService,
	appointmentService services.AppointmentService,
	progressService services.ProgressService,
	chatService services.ChatService,
	db *gorm.DB,
) *APIHandler {
	return &APIHandler{
		authService:        authService,
		assessmentService:  assessmentService,
		analysisService:    analysisService,
		appointmentService: appointmentService,
		progressService:    progressService,
		chatService:        chatService,
		db:                 db,
	}
}

// sendServiceError maps the service error kinds onto HTTP statuses. Anything
// unclassified is a 500 with publicMsg.
func sendServiceError(c *gin.Context, err error, publicMsg string) {
	switch {
	case errors.Is(err, services.ErrContractViolation):
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request.", nil, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Not found.", err)
	case errors.Is(err, services.ErrForbidden):
		utils.SendJSONError(c, http.StatusForbidden, "You do not have access to this resource.", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.SendJSONError(c, http.StatusUnauthorized, "Invalid email or password.", err)
	case services.IsDuplicateEmail(err):
		utils.SendJSONError(c, http.StatusConflict, "An account with this email already exists.", err)
	case errors.Is(err, services.ErrGenerationUnavailable):
		utils.SendRetryableError(c, http.StatusInternalServerError, "AI service is not configured.", err, false)
	case errors.Is(err, services.ErrGenerationTransient):
		utils.SendRetryableError(c, http.StatusServiceUnavailable, "AI service temporarily unavailable. Please try again later.", err, true)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, publicMsg, err)
	}
}

// --- Auth ---

type signupRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

// SignupHandler registers an account.
// POST /api/auth/signup
func (h *APIHandler) SignupHandler(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	session, err := h.authService.Signup(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		sendServiceError(c, err, "Failed to sign up.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Signed up successfully",
		"data":    session,
	})
}

// LoginHandler authenticates an account, creating it on first login.
// POST /api/auth/login
func (h *APIHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		sendServiceError(c, err, "Failed to log in.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Logged in successfully",
		"data":    session,
	})
}

// MeHandler returns the authenticated account.
// GET /api/auth/me
func (h *APIHandler) MeHandler(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		sendServiceError(c, err, "Failed to fetch user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "User retrieved successfully",
		"data":    user,
	})
}

// --- History & progress ---

// GetHistoryHandler lists the caller's results and appointments, newest first.
// GET /api/history
func (h *APIHandler) GetHistoryHandler(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	results, err := h.assessmentService.GetHistory(ctx, userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch history.", err)
		return
	}
	appointments, err := h.appointmentService.GetAppointments(ctx, userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch history.", err)
		return
	}
	if results == nil {
		results = []*models.TestResult{}
	}
	if appointments == nil {
		appointments = []*models.Appointment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "History retrieved successfully",
		"data": gin.H{
			"results":      results,
			"appointments": appointments,
		},
	})
}

// GetProgressReportHandler handles requests to fetch the caller's stress trend report.
// GET /api/progress?period=last_7_days&reference_date=YYYY-MM-DD
func (h *APIHandler) GetProgressReportHandler(c *gin.Context) {
	period := c.DefaultQuery("period", services.PeriodLast7Days)
	referenceDateStr := c.Query("reference_date") // Optional

	allowedPeriods := []string{services.PeriodLast7Days, services.PeriodLast30Days, services.PeriodAll}
	if !containsString(allowedPeriods, period) {
		utils.SendJSONError(c, http.StatusBadRequest, fmt.Sprintf("Invalid period type. Allowed values: %v", allowedPeriods), nil)
		return
	}

	if referenceDateStr != "" {
		if _, err := time.Parse("2006-01-02", referenceDateStr); err != nil {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid reference_date format. Please use YYYY-MM-DD.", err)
			return
		}
	}

	report, err := h.progressService.GenerateProgressReport(c.Request.Context(), middleware.UserID(c), period, referenceDateStr)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to generate progress report.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Progress report generated successfully",
		"data":    report,
	})
}

// --- Appointments ---

type bookAppointmentRequest struct {
	DoctorName string `json:"doctorName" binding:"required"`
	Slot       string `json:"slot" binding:"required"`
}

// BookAppointmentHandler books a counsellor session.
// POST /api/appointments
func (h *APIHandler) BookAppointmentHandler(c *gin.Context) {
	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: doctorName and slot are required.", err)
		return
	}

	appointment, err := h.appointmentService.BookAppointment(c.Request.Context(), middleware.UserID(c), req.DoctorName, req.Slot)
	if err != nil {
		sendServiceError(c, err, "Failed to book appointment.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    201,
		"message": "Appointment booked successfully",
		"data":    appointment,
	})
}

// CancelAppointmentHandler cancels one of the caller's appointments.
// DELETE /api/appointments/:id
func (h *APIHandler) CancelAppointmentHandler(c *gin.Context) {
	if err := h.appointmentService.CancelAppointment(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		sendServiceError(c, err, "Failed to cancel appointment.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Health ---

// HealthHandler reports whether the database answers.
// GET /api/health
func (h *APIHandler) HealthHandler(c *gin.Context) {
	if h.db == nil {
		utils.SendJSONError(c, http.StatusServiceUnavailable, "Database not initialized.", errors.New("health check without database handle"))
		return
	}
	if err := database.Ping(c.Request.Context(), h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "error",
			"database":  "disconnected",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC(),
	})
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
