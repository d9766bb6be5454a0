package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ticketing-payments/logging"
	"ticketing-payments/models"
	"ticketing-payments/service"
)

// PaymentHandler handles HTTP requests for both payment gateway families
type PaymentHandler struct {
	payments        *service.PaymentService
	status          *service.StatusService
	redirectBaseURL string
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *service.PaymentService, status *service.StatusService, redirectBaseURL string) *PaymentHandler {
	return &PaymentHandler{
		payments:        payments,
		status:          status,
		redirectBaseURL: redirectBaseURL,
	}
}

// CreateOrder handles order creation for the order-based gateway
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, err := h.payments.CreateOrder(ctx, &req)
	if err != nil {
		h.writeError(c, span, err, "Order creation failed")
		return
	}

	span.AddEvent("order_created")
	c.JSON(http.StatusOK, order)
}

// VerifyPayment handles the completed-payment callback for the order-based
// gateway. A signature mismatch is a 400 with success:false, not a 500.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	result, err := h.payments.VerifyPayment(ctx, &req)
	if err != nil {
		h.writeError(c, span, err, "Payment verification failed")
		return
	}

	if !result.Verified {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": result.FailureReason,
		})
		return
	}

	span.AddEvent("payment_verified")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"bookingId": result.BookingID,
		"message":   "Payment verified successfully",
		"paymentId": req.PaymentID,
	})
}

// InitiatePayment starts a redirect-based checkout
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.status.InitiatePayment(ctx, &req)
	if err != nil {
		h.writeError(c, span, err, "Payment initiation failed")
		return
	}

	span.AddEvent("payment_initiated")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// VerifyStatus is the programmatic status check for the redirect-based
// gateway. A business non-success (pending, declined) is a 200 carrying the
// gateway's own code and message.
func (h *PaymentHandler) VerifyStatus(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.StatusCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.status.CheckStatus(ctx, req.MerchantTransactionID)
	if err != nil {
		h.writeError(c, span, err, "Status check failed")
		return
	}

	if !result.Success {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"code":    result.Code,
			"message": result.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result.Data, "message": result.Message})
}

// VerifyStatusRedirect is the human-facing landing for the redirect-based
// gateway. It always resolves to a navigable page, never raw JSON or a blank
// error.
func (h *PaymentHandler) VerifyStatusRedirect(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	txnID := c.Query("merchantTransactionId")
	if txnID == "" {
		c.Redirect(http.StatusFound, h.redirectBaseURL+"/payment/failure")
		return
	}

	result, err := h.status.CheckStatus(ctx, txnID)
	if err != nil {
		// Operational failure, not a declined payment: the payer lands on the
		// error page, not the payment-failed page.
		logging.WithTraceContext(span).Error("Status check failed on redirect landing",
			zap.Error(err),
			zap.String("merchant_transaction_id", txnID),
		)
		c.Redirect(http.StatusFound, h.redirectBaseURL+"/payment/error?txnId="+txnID)
		return
	}

	if result.Success {
		c.Redirect(http.StatusFound, h.redirectBaseURL+"/payment/success?txnId="+txnID)
		return
	}
	c.Redirect(http.StatusFound, h.redirectBaseURL+"/payment/failure?txnId="+txnID)
}

// HealthCheck handles health check requests
func (h *PaymentHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// writeError translates service-layer errors into the HTTP error taxonomy:
// validation 400, missing configuration 503, everything else 500 with no
// internals leaked.
func (h *PaymentHandler) writeError(c *gin.Context, span trace.Span, err error, msg string) {
	logger := logging.WithTraceContext(span)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": verr.Error()})
		return
	}
	if errors.Is(err, service.ErrNotConfigured) {
		logger.Error("Gateway not configured", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment service not configured"})
		return
	}

	var gerr *service.GatewayError
	if errors.As(err, &gerr) {
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": gerr.Err.Error()})
		return
	}

	logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
