package main

import (
	"testing"

	"github.com/ariefcatur/ricemart-orders/internal/config"
	"github.com/ariefcatur/ricemart-orders/internal/notify"
	"github.com/rs/zerolog"
)

func TestAlertSink(t *testing.T) {
	complete := config.Config{EmailHost: "smtp.example.com", EmailPort: 587, EmailUser: "u", EmailPass: "p", EmailFrom: "shop@example.com"}

	complete.NotifySink = "smtp"
	if _, ok := alertSink(complete, nil, zerolog.Nop()).(notify.SMTPSink); !ok {
		t.Error("expected SMTP sink")
	}
	complete.NotifySink = "kafka"
	if _, ok := alertSink(complete, nil, zerolog.Nop()).(notify.LogSink); !ok {
		t.Error("expected log sink for kafka without brokers")
	}
	if _, ok := alertSink(config.Config{NotifySink: "smtp"}, nil, zerolog.Nop()).(notify.LogSink); !ok {
		t.Error("expected log sink for incomplete SMTP config")
	}
}
