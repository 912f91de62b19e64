package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	kafkax "github.com/ariefcatur/ricemart-orders/internal/kafka"
	"github.com/rs/zerolog"
)

const (
	TopicEmail     = "notify.email"
	EventEmailSend = "EmailRequested"
)

func htmlEscape(s string) string { return html.EscapeString(s) }

// LogSink simulates delivery by logging the message.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Send(_ context.Context, m Message) error {
	text := m.Text
	if len(text) > 100 {
		text = text[:100] + "..."
	}
	s.Log.Info().Str("to", m.To).Str("subject", m.Subject).Str("body", text).Msg("email simulation")
	return nil
}

// SMTPConfig holds mail server settings. Port 465 uses implicit TLS; other
// ports upgrade with STARTTLS when offered.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Complete reports whether every field needed for real delivery is set.
func (c SMTPConfig) Complete() bool {
	return c.Host != "" && c.Port > 0 && c.User != "" && c.Pass != "" && c.From != ""
}

type SMTPSink struct {
	Config SMTPConfig
}

func (s SMTPSink) Send(ctx context.Context, m Message) error {
	addr := net.JoinHostPort(s.Config.Host, strconv.Itoa(s.Config.Port))
	var (
		conn net.Conn
		err  error
	)
	if s.Config.Port == 465 {
		d := &tls.Dialer{Config: &tls.Config{ServerName: s.Config.Host}}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	c, err := smtp.NewClient(conn, s.Config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if s.Config.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.Config.Host}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if err := c.Auth(smtp.PlainAuth("", s.Config.User, s.Config.Pass, s.Config.Host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(s.Config.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(m.To); err != nil {
		return fmt.Errorf("smtp rcpt %s: %w", m.To, err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMIME(s.Config.From, m)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return c.Quit()
}

func buildMIME(from string, m Message) []byte {
	var body strings.Builder
	mw := multipart.NewWriter(&body)
	for _, part := range []struct{ ctype, content string }{
		{"text/plain; charset=UTF-8", m.Text},
		{"text/html; charset=UTF-8", m.HTML},
	} {
		if part.content == "" {
			continue
		}
		pw, _ := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.ctype}})
		_, _ = pw.Write([]byte(part.content))
	}
	_ = mw.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	b.WriteString(body.String())
	return []byte(b.String())
}

// Publisher is the subset of the Kafka producer the sink needs.
type Publisher interface {
	PublishEnvelope(topic, key string, env kafkax.Envelope) error
}

// KafkaSink hands the message to the notifier service through Kafka.
type KafkaSink struct {
	Producer Publisher
	Service  string
}

func (s KafkaSink) Send(_ context.Context, m Message) error {
	env, err := kafkax.NewEnvelope(EventEmailSend, s.Service, m.To, m)
	if err != nil {
		return err
	}
	return s.Producer.PublishEnvelope(TopicEmail, m.To, env)
}
