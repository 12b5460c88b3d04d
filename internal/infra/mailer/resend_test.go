package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"hr_evaluation_reminder/internal/domain/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSender_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	sender := NewResendSender("re_test", "hr@51talk.com")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	sender.client.BaseURL = base

	err = sender.Send(context.Background(), mail.Message{
		To:       []string{"bob@co.com"},
		CC:       []string{"hr@51talk.com"},
		Subject:  "Reminder",
		HTMLBody: "<p>hi</p>",
		Attachments: []mail.Attachment{
			{Filename: "a.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "hr@51talk.com", got["from"])
	assert.Equal(t, []any{"bob@co.com"}, got["to"])
	assert.Equal(t, []any{"hr@51talk.com"}, got["cc"])
	assert.Equal(t, "<p>hi</p>", got["html"])
	attachments, ok := got["attachments"].([]any)
	require.True(t, ok)
	assert.Len(t, attachments, 1)
}

func TestResendSender_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer srv.Close()

	sender := NewResendSender("re_test", "hr@51talk.com")
	base, _ := url.Parse(srv.URL + "/")
	sender.client.BaseURL = base

	err := sender.Send(context.Background(), mail.Message{To: []string{"x"}, Subject: "s", HTMLBody: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resend")
}
