package utils

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestWhatsAppClient_Send(t *testing.T) {
	var gotBody []byte
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewWhatsAppClient(srv.URL, "key-123")
	ok := c.Send(context.Background(), "+90 (532) 111-22-33", "Merhaba")
	require.True(t, ok)

	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, "905321112233", gjson.GetBytes(gotBody, "phone").String())
	assert.Equal(t, "Merhaba", gjson.GetBytes(gotBody, "message").String())
}

func TestWhatsAppClient_Failures(t *testing.T) {
	rejected := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid number"}`))
	}))
	defer rejected.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	ctx := context.Background()
	assert.False(t, NewWhatsAppClient(rejected.URL, "").Send(ctx, "05321112233", "x"))
	assert.False(t, NewWhatsAppClient(broken.URL, "").Send(ctx, "05321112233", "x"))
	assert.False(t, NewWhatsAppClient("", "").Send(ctx, "05321112233", "x"), "no webhook configured")
	assert.False(t, NewWhatsAppClient(broken.URL, "").Send(ctx, "yok", "x"), "no digits")
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "905321112233", NormalizePhone("+90 (532) 111-22-33"))
	assert.True(t, SamePhone("0532 111 22 33", "0532-111-22-33"))
	assert.False(t, SamePhone("0532 111 22 33", "0533 111 22 33"))
	assert.False(t, SamePhone("", ""))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "01.06.2024", FormatDate(d))

	d, err = ParseDate("2024-06-01T21:30:00Z")
	require.NoError(t, err)
	assert.Zero(t, d.Hour())

	_, err = ParseDate("01/06/2024")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestMailer_NotConfigured(t *testing.T) {
	m := NewMailer(MailConfig{Host: "smtp.example.com", Port: 587})
	assert.False(t, m.Configured())

	ok, err := m.Send(context.Background(), "a@example.com", "konu", "metin")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMailerNotConfigured)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("GH_TEST_INT", "12")
	t.Setenv("GH_TEST_BAD", "x")
	assert.Equal(t, 12, EnvIntOrDefault("GH_TEST_INT", 3))
	assert.Equal(t, 3, EnvIntOrDefault("GH_TEST_BAD", 3))
	assert.Equal(t, "fallback", EnvOrDefault("GH_TEST_MISSING", "fallback"))
}
