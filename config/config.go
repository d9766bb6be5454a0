package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	ServiceName  string `envconfig:"SERVICE_NAME" default:"ticketing-payments"`
	Port         string `envconfig:"PORT" default:"8081"`
	OTELEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`

	// Family A gateway (order + signature)
	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`
	RazorpayAPIURL    string `envconfig:"RAZORPAY_API_URL" default:"https://api.razorpay.com/v1"`

	// Family B gateway (redirect + checksum). The base URL falls back to the
	// sandbox so a fresh checkout works without production credentials.
	PhonePeMerchantID string `envconfig:"PHONEPE_MERCHANT_ID"`
	PhonePeSaltKey    string `envconfig:"PHONEPE_SALT_KEY"`
	PhonePeSaltIndex  string `envconfig:"PHONEPE_SALT_INDEX" default:"1"`
	PhonePeAPIURL     string `envconfig:"PHONEPE_API_URL" default:"https://api-preprod.phonepe.com/apis/pg-sandbox"`

	// Where the human-facing verify endpoint sends browsers after a status check.
	RedirectBaseURL string `envconfig:"REDIRECT_BASE_URL" default:"http://localhost:3000"`

	GatewayTimeout time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`

	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"ticketing"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
