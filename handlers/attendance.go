package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ticketing-payments/attendance"
	"ticketing-payments/logging"
)

// AttendanceHandler handles HTTP requests for employee attendance tracking
type AttendanceHandler struct {
	svc *attendance.Service
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(svc *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

type checkInRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Note       string `json:"note"`
}

type checkOutRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

// CheckIn opens today's attendance record for an employee
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	ctx := c.Request.Context()

	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employeeId is required"})
		return
	}

	rec, err := h.svc.CheckIn(ctx, req.EmployeeID, req.Note)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.writeError(c, err, "Check-in failed")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// CheckOut closes today's open attendance record
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	ctx := c.Request.Context()

	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employeeId is required"})
		return
	}

	rec, err := h.svc.CheckOut(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.writeError(c, err, "Check-out failed")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// List returns an employee's records for a month
func (h *AttendanceHandler) List(c *gin.Context) {
	employeeID := c.Query("employeeId")
	month := c.Query("month")
	if employeeID == "" || month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employeeId and month are required"})
		return
	}

	records, err := h.svc.ListMonth(c.Request.Context(), employeeID, month)
	if err != nil {
		h.writeError(c, err, "Listing attendance failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// Summary returns the monthly aggregation for an employee
func (h *AttendanceHandler) Summary(c *gin.Context) {
	employeeID := c.Query("employeeId")
	month := c.Query("month")
	if employeeID == "" || month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employeeId and month are required"})
		return
	}

	summary, err := h.svc.Summarize(c.Request.Context(), employeeID, month)
	if err != nil {
		h.writeError(c, err, "Summarizing attendance failed")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AttendanceHandler) writeError(c *gin.Context, err error, msg string) {
	span := trace.SpanFromContext(c.Request.Context())
	logging.WithTraceContext(span).Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
