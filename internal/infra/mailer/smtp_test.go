package mailer

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"hr_evaluation_reminder/internal/domain/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type smtpSession struct {
	from  string
	rcpts []string
	data  string
}

// serveOneSMTP accepts a single plain-text session without AUTH or STARTTLS.
func serveOneSMTP(t *testing.T, rejectRcpt string) (int, <-chan smtpSession) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	out := make(chan smtpSession, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tc := textproto.NewConn(conn)
		var s smtpSession
		_ = tc.PrintfLine("220 localhost ESMTP test")
		for {
			line, err := tc.ReadLine()
			if err != nil {
				out <- s
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				_ = tc.PrintfLine("250 localhost")
			case strings.HasPrefix(cmd, "MAIL FROM:"):
				s.from = strings.Trim(line[len("MAIL FROM:"):], "<> ")
				_ = tc.PrintfLine("250 OK")
			case strings.HasPrefix(cmd, "RCPT TO:"):
				rcpt := strings.Trim(line[len("RCPT TO:"):], "<> ")
				if rcpt == rejectRcpt {
					_ = tc.PrintfLine("550 no such user")
					continue
				}
				s.rcpts = append(s.rcpts, rcpt)
				_ = tc.PrintfLine("250 OK")
			case cmd == "DATA":
				_ = tc.PrintfLine("354 go ahead")
				lines, err := tc.ReadDotLines()
				if err != nil {
					out <- s
					return
				}
				s.data = strings.Join(lines, "\n")
				_ = tc.PrintfLine("250 queued")
			case cmd == "QUIT":
				_ = tc.PrintfLine("221 bye")
				out <- s
				return
			default:
				_ = tc.PrintfLine("250 OK")
			}
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, out
}

func TestSMTPSender_Send(t *testing.T) {
	port, sessions := serveOneSMTP(t, "")
	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, From: "hr-bot@51talk.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := sender.Send(ctx, mail.Message{
		To:       []string{"bob@co.com"},
		CC:       []string{"hr@51talk.com", "wuchuan@51talk.com"},
		Subject:  "Reminder",
		HTMLBody: "<p>Dear Bob,</p>",
	})
	require.NoError(t, err)

	s := <-sessions
	assert.Equal(t, "hr-bot@51talk.com", s.from)
	assert.Equal(t, []string{"bob@co.com", "hr@51talk.com", "wuchuan@51talk.com"}, s.rcpts)
	assert.Contains(t, s.data, "Cc: hr@51talk.com, wuchuan@51talk.com")
	assert.Contains(t, s.data, "<p>Dear Bob,</p>")
}

func TestSMTPSender_RejectedRecipient(t *testing.T) {
	port, _ := serveOneSMTP(t, "ghost@co.com")
	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, From: "hr-bot@51talk.com"})

	err := sender.Send(context.Background(), mail.Message{To: []string{"ghost@co.com"}, Subject: "s", HTMLBody: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost@co.com")
}

func TestSMTPSender_NoRecipients(t *testing.T) {
	err := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 1}).Send(context.Background(), mail.Message{})
	assert.Error(t, err)
}
