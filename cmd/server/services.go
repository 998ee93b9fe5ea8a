package main

import (
	"codeberg.org/pixelmind/server/internal/config"
	"codeberg.org/pixelmind/server/internal/gate"
	"codeberg.org/pixelmind/server/internal/genai"
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/studio"
	"codeberg.org/pixelmind/server/internal/usagelog"
)

// creates the generative client and the gated studio service
func InitializeServices(cfg *config.Config, ledger *quota.Ledger, recorder *usagelog.Recorder) *Services {
	generator := genai.NewClient(genai.Config{APIKey: cfg.GeminiAPIKey})
	meteredGate := gate.New(ledger, recorder)

	return &Services{
		Gate:   meteredGate,
		Studio: studio.NewService(generator, meteredGate, studio.WithPollInterval(cfg.VideoPollInterval)),
	}
}
