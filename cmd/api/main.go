package main

import (
	"fmt"
	"os"
	"time"

	"payrelay/internal/downstream"
	"payrelay/internal/payomatix"
	"payrelay/internal/ratelimiter"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "1.0.0"

// envConfig is the raw environment surface. It is parsed once and copied
// into the immutable config handed to the application.
type envConfig struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	Env         string `env:"ENV" envDefault:"development"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"*"`

	PayomatixPublicKey string `env:"PAYOMATIX_PUBLIC_KEY"`
	PayomatixSecretKey string `env:"PAYOMATIX_SECRET_KEY,required"`
	PayomatixAPIURL    string `env:"PAYOMATIX_API_URL" envDefault:"https://admin.payomatix.com/payment/merchant/transaction"`
	ReturnURL          string `env:"PAYOMATIX_RETURN_URL,required"`
	NotifyURL          string `env:"PAYOMATIX_NOTIFY_URL,required"`
	WebhookSecret      string `env:"PAYOMATIX_WEBHOOK_SECRET"`

	BackendURL          string `env:"BACKEND_URL"`
	BackendSharedSecret string `env:"BACKEND_SHARED_SECRET"`

	RateLimiterRequests int  `env:"RATELIMITER_REQUESTS_COUNT" envDefault:"200"`
	RateLimiterEnabled  bool `env:"RATE_LIMITER_ENABLED" envDefault:"false"`
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func main() {
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, reading configuration from the environment")
	}

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		logger.Fatalf("invalid configuration: %s", err)
	}

	cfg := config{
		addr:        ec.Addr,
		env:         ec.Env,
		frontendURL: ec.FrontendURL,
		payomatix: payomatixConfig{
			publicKey:     ec.PayomatixPublicKey,
			secretKey:     ec.PayomatixSecretKey,
			apiURL:        ec.PayomatixAPIURL,
			returnURL:     ec.ReturnURL,
			notifyURL:     ec.NotifyURL,
			webhookSecret: ec.WebhookSecret,
		},
		backend: backendConfig{
			url:          ec.BackendURL,
			sharedSecret: ec.BackendSharedSecret,
		},
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: ec.RateLimiterRequests,
			TimeFrame:            5 * time.Second,
			Enabled:              ec.RateLimiterEnabled,
		},
	}

	if cfg.payomatix.webhookSecret == "" {
		logger.Warn("PAYOMATIX_WEBHOOK_SECRET is not set: webhook signatures will NOT be verified")
	}
	if cfg.backend.url == "" || cfg.backend.sharedSecret == "" {
		logger.Warn("downstream backend is not configured: webhook events will be acknowledged but not forwarded")
	}

	gateway := payomatix.NewClient(cfg.payomatix.apiURL, cfg.payomatix.secretKey)
	notifier := downstream.NewNotifier(cfg.backend.url, cfg.backend.sharedSecret)
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		logger:      logger,
		gateway:     gateway,
		notifier:    notifier,
		rateLimiter: rateLimiter,
	}

	logger.Infow("payment relay configured",
		"payomatix_api", cfg.payomatix.apiURL,
		"notify_url", cfg.payomatix.notifyURL,
		"cors_origin", cfg.frontendURL,
	)

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
