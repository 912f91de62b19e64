package main

import (
	"testing"

	"github.com/ariefcatur/ricemart-orders/internal/config"
	"github.com/ariefcatur/ricemart-orders/internal/notify"
	"github.com/rs/zerolog"
)

func TestEmailSink(t *testing.T) {
	cfg := config.Config{EmailHost: "smtp.example.com", EmailPort: 587, EmailUser: "u", EmailPass: "p", EmailFrom: "shop@example.com"}
	if _, ok := emailSink(cfg, zerolog.Nop()).(notify.SMTPSink); !ok {
		t.Error("expected SMTP sink for complete config")
	}
	cfg.EmailPass = ""
	if _, ok := emailSink(cfg, zerolog.Nop()).(notify.LogSink); !ok {
		t.Error("expected log sink for incomplete config")
	}
}
