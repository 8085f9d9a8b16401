package mail

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"smart-resume-match/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTP accepts one session and records the envelope and data.
type fakeSMTP struct {
	ln   net.Listener
	wg   sync.WaitGroup
	from string
	rcpt string
	data string
}

func startFakeSMTP(t *testing.T) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeSMTP{ln: ln}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) serve() {
	defer s.wg.Done()
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	write := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }
	write("220 fake ESMTP")

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimRight(line, "\r\n")
		upper := strings.ToUpper(cmd)
		switch {
		case strings.HasPrefix(upper, "EHLO"):
			write("250-fake")
			write("250 8BITMIME")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			s.from = cmd[len("MAIL FROM:"):]
			write("250 ok")
		case strings.HasPrefix(upper, "RCPT TO:"):
			s.rcpt = cmd[len("RCPT TO:"):]
			write("250 ok")
		case upper == "DATA":
			write("354 go ahead")
			var sb strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				sb.WriteString(l)
			}
			s.data = sb.String()
			write("250 queued")
		case upper == "QUIT":
			write("221 bye")
			return
		default:
			write("250 ok")
		}
	}
}

func TestNewSMTPNotifier_RequiresSender(t *testing.T) {
	_, err := NewSMTPNotifier(config.MailConfig{Server: "smtp.example.com", Port: 587}, nil)
	assert.ErrorIs(t, err, ErrNoSender)
}

func TestSend_DeliversHTMLMessage(t *testing.T) {
	srv := startFakeSMTP(t)

	n, err := NewSMTPNotifier(config.MailConfig{
		Server:        "127.0.0.1",
		Port:          srv.port(),
		UseTLS:        false,
		DefaultSender: "hr@example.com",
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, n.Send(ctx, "candidate@example.com", "Interview invitation", "<p>Hello</p>"))
	srv.wg.Wait()

	assert.Contains(t, srv.from, "<hr@example.com>")
	assert.Contains(t, srv.rcpt, "<candidate@example.com>")
	assert.Contains(t, srv.data, "Subject: Interview invitation\r\n")
	assert.Contains(t, srv.data, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, srv.data, "<p>Hello</p>")
}

func TestSend_RequiresStartTLSWhenEnabled(t *testing.T) {
	srv := startFakeSMTP(t)

	n, err := NewSMTPNotifier(config.MailConfig{
		Server:        "127.0.0.1",
		Port:          srv.port(),
		UseTLS:        true,
		DefaultSender: "hr@example.com",
	}, nil)
	require.NoError(t, err)

	err = n.Send(context.Background(), "candidate@example.com", "s", "b")
	assert.ErrorIs(t, err, ErrStartTLSUnsupported)
}

func TestBuildMessage_EncodesSubjectAndBody(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := buildMessage("hr@example.com", "a@example.com", "Entrevista día", "<p>"+strings.Repeat("x", 100)+"</p>", at)
	require.NoError(t, err)

	s := string(msg)
	assert.Contains(t, s, "Subject: =?utf-8?q?Entrevista_d=C3=ADa?=\r\n")
	assert.Contains(t, s, "Date: "+at.Format(time.RFC1123Z)+"\r\n")
	assert.Contains(t, s, "@example.com>\r\n")
	assert.Contains(t, s, "=\r\n", "long lines are soft wrapped")

	head, _, ok := strings.Cut(s, "\r\n\r\n")
	require.True(t, ok)
	assert.Equal(t, 8, strings.Count(head, "\r\n")+1)
}
