package main

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"ticketing-payments/attendance"
	"ticketing-payments/booking"
	"ticketing-payments/config"
	"ticketing-payments/gateway"
	"ticketing-payments/handlers"
	"ticketing-payments/logging"
	"ticketing-payments/monitoring"
	"ticketing-payments/service"
)

func main() {
	// Initialize structured logging
	if err := logging.InitLogger(); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logging.Sync()
	defer func() {
		if err := logging.Shutdown(context.Background()); err != nil {
			logging.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize OpenTelemetry
	tp, tracer, err := monitoring.InitTracer(cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		logging.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logging.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	mp, _, err := monitoring.InitMeter(cfg.ServiceName, cfg.OTELEndpoint, registry)
	if err != nil {
		logging.Fatal("Failed to initialize meter", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			logging.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Connect the document store
	mongoCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Fatal("Failed to connect to mongo", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logging.Error("Error disconnecting mongo client", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDatabase)

	bookingStore, err := booking.NewMongoStore(mongoCtx, db)
	if err != nil {
		logging.Fatal("Failed to initialize booking store", zap.Error(err))
	}
	attendanceRepo, err := attendance.NewMongoRepository(mongoCtx, db)
	if err != nil {
		logging.Fatal("Failed to initialize attendance repository", zap.Error(err))
	}

	notifier := booking.NewLogNotifier(logging.GetLogger())

	// Gateway clients, constructed once and injected
	razorpay := gateway.NewRazorpayClient(cfg.RazorpayAPIURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout)
	phonepe := gateway.NewPhonePeClient(cfg.PhonePeAPIURL, cfg.PhonePeMerchantID, cfg.PhonePeSaltKey, cfg.PhonePeSaltIndex, cfg.GatewayTimeout)

	// Initialize service layer
	paymentService := service.NewPaymentService(tracer, razorpay, cfg.RazorpayKeySecret, bookingStore, notifier)
	statusService := service.NewStatusService(tracer, phonepe, cfg.PhonePeMerchantID, cfg.PhonePeSaltKey, bookingStore, notifier)
	attendanceService := attendance.NewService(tracer, attendanceRepo)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(paymentService, statusService, cfg.RedirectBaseURL)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)

	// Setup Gin router
	r := gin.Default()

	// OpenTelemetry middleware
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMetricsMiddleware())

	// Routes
	r.GET("/health", paymentHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	r.POST("/create-order", paymentHandler.CreateOrder)
	r.POST("/verify-payment", paymentHandler.VerifyPayment)
	r.POST("/phonepe/initiate-payment", paymentHandler.InitiatePayment)
	r.POST("/phonepe/verify-payment", paymentHandler.VerifyStatus)
	r.GET("/phonepe/verify-payment", paymentHandler.VerifyStatusRedirect)

	r.POST("/attendance/check-in", attendanceHandler.CheckIn)
	r.POST("/attendance/check-out", attendanceHandler.CheckOut)
	r.GET("/attendance", attendanceHandler.List)
	r.GET("/attendance/summary", attendanceHandler.Summary)

	// Start server
	logging.Info("Ticketing payments service starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logging.Fatal("Failed to start server", zap.Error(err))
	}
}

// httpMetricsMiddleware records HTTP request metrics
func httpMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Record duration
		duration := float64(time.Since(start).Milliseconds())

		monitoring.HTTPServerDuration.Record(c.Request.Context(), duration,
			metric.WithAttributes(
				attribute.String("http_method", c.Request.Method),
				attribute.String("http_route", c.FullPath()),
				attribute.String("http_status_code", strconv.Itoa(c.Writer.Status())),
			),
		)
	}
}
