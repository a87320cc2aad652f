package main

import (
	"time"

	"payrelay/internal/downstream"
	"payrelay/internal/payomatix"
	"payrelay/internal/ratelimiter"

	"go.uber.org/zap"
)

func newTestApplication(cfg config) *application {
	if cfg.rateLimiter.RequestsPerTimeFrame == 0 {
		cfg.rateLimiter.RequestsPerTimeFrame = 100
	}
	if cfg.rateLimiter.TimeFrame == 0 {
		cfg.rateLimiter.TimeFrame = time.Minute
	}

	return &application{
		config:   cfg,
		logger:   zap.NewNop().Sugar(),
		gateway:  payomatix.NewClient(cfg.payomatix.apiURL, cfg.payomatix.secretKey),
		notifier: downstream.NewNotifier(cfg.backend.url, cfg.backend.sharedSecret),
		rateLimiter: ratelimiter.NewFixedWindowLimiter(
			cfg.rateLimiter.RequestsPerTimeFrame,
			cfg.rateLimiter.TimeFrame,
		),
	}
}
