// Package mailer delivers the staff notification for new contact requests
// over SMTP.
package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender delivers an Email. *Mailer implements it.
type Sender interface {
	Send(email Email) error
}

// Config is the SMTP relay and sender identity.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Email is one outgoing message. HTMLBody is optional.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// ErrDisabled is returned by Send when no SMTP host is configured.
var ErrDisabled = errors.New("mailer: smtp not configured")

// Mailer sends Email through one SMTP relay.
type Mailer struct {
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log, now: time.Now, sendMail: smtp.SendMail}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.cfg.Host != "" }

// Send renders and relays e. Header values are stripped of line breaks and
// non-ASCII text is RFC 2047 encoded.
func (m *Mailer) Send(e Email) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	to := headerSafe(e.To)
	msg, err := m.render(e)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.sendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		m.log.Error("email send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	m.log.Info("email sent", zap.String("to", to), zap.String("subject", headerSafe(e.Subject)))
	return nil
}

func (m *Mailer) render(e Email) ([]byte, error) {
	from := mail.Address{Name: m.cfg.FromName, Address: m.cfg.From}
	_, domain, _ := strings.Cut(m.cfg.From, "@")
	if domain == "" {
		domain = "localhost"
	}

	var buf bytes.Buffer
	h := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }
	h("From", from.String())
	h("To", headerSafe(e.To))
	if r := headerSafe(e.ReplyTo); r != "" {
		h("Reply-To", r)
	}
	h("Subject", mime.QEncoding.Encode("utf-8", headerSafe(e.Subject)))
	h("Date", m.now().Format(time.RFC1123Z))
	h("Message-ID", "<"+uuid.NewString()+"@"+domain+">")
	h("MIME-Version", "1.0")

	if e.HTMLBody == "" {
		h("Content-Type", "text/plain; charset=UTF-8")
		h("Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		return buf.Bytes(), writeQP(&buf, e.TextBody)
	}

	mw := multipart.NewWriter(&buf)
	h("Content-Type", `multipart/alternative; boundary="`+mw.Boundary()+`"`)
	buf.WriteString("\r\n")
	for _, part := range []struct{ ctype, body string }{
		{"text/plain; charset=UTF-8", e.TextBody},
		{"text/html; charset=UTF-8", e.HTMLBody},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.ctype},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		if err := writeQP(w, part.body); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeQP(w interface{ Write([]byte) (int, error) }, body string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}

// headerSafe drops CR and LF so submitted values cannot add headers.
func headerSafe(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", "", "\n", " ").Replace(s))
}
