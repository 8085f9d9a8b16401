package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"smart-resume-match/internal/config"

	"github.com/google/uuid"
)

const dialTimeout = 10 * time.Second

var (
	ErrNoSender            = errors.New("mail sender is not configured")
	ErrStartTLSUnsupported = errors.New("smtp server does not support STARTTLS")
)

// SMTPNotifier sends HTML mail through one SMTP relay.
type SMTPNotifier struct {
	host      string
	addr      string
	from      string
	username  string
	password  string
	useTLS    bool
	tlsConfig *tls.Config
	logger    *log.Logger
}

func NewSMTPNotifier(cfg config.MailConfig, logger *log.Logger) (*SMTPNotifier, error) {
	host := strings.TrimSpace(cfg.Server)
	if host == "" {
		return nil, errors.New("mail server is not configured")
	}
	from := strings.TrimSpace(cfg.DefaultSender)
	if from == "" {
		return nil, ErrNoSender
	}
	return &SMTPNotifier{
		host:      host,
		addr:      net.JoinHostPort(host, strconv.Itoa(cfg.Port)),
		from:      from,
		username:  cfg.Username,
		password:  cfg.Password,
		useTLS:    cfg.UseTLS,
		tlsConfig: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
		logger:    logger,
	}, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, recipient, subject, htmlBody string) error {
	msg, err := buildMessage(n.from, recipient, subject, htmlBody, time.Now())
	if err != nil {
		return err
	}

	start := time.Now()
	if err := n.deliver(ctx, recipient, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}
	if n.logger != nil {
		n.logger.Printf("mail status=sent to=%q bytes=%d duration=%s", recipient, len(msg), time.Since(start))
	}
	return nil
}

func (n *SMTPNotifier) deliver(ctx context.Context, recipient string, msg []byte) error {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", n.addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, n.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if n.useTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return ErrStartTLSUnsupported
		}
		if err := c.StartTLS(n.tlsConfig); err != nil {
			return err
		}
	}
	if n.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", n.username, n.password, n.host)); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(n.from); err != nil {
		return err
	}
	if err := c.Rcpt(recipient); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from, to, subject, htmlBody string, at time.Time) ([]byte, error) {
	var body bytes.Buffer
	qp := quotedprintable.NewWriter(&body)
	if _, err := qp.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = from[i+1:]
	}

	var b bytes.Buffer
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"Date", at.Format(time.RFC1123Z)},
		{"Message-ID", "<" + uuid.NewString() + "@" + domain + ">"},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
		{"Content-Transfer-Encoding", "quoted-printable"},
	}
	for _, h := range headers {
		b.WriteString(h[0])
		b.WriteString(": ")
		b.WriteString(h[1])
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.Write(body.Bytes())
	return b.Bytes(), nil
}
