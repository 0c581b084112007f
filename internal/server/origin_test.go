package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrigin(t *testing.T) {
	normalized, ok := normalizeOrigin("HTTP://Example.com/some/path")
	require.True(t, ok)
	assert.Equal(t, "http://example.com", normalized)

	_, ok = normalizeOrigin("not a url")
	assert.False(t, ok)

	_, ok = normalizeOrigin("/relative")
	assert.False(t, ok)
}

func TestCheckOriginAllowAll(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(&Config{AllowedOrigins: []string{"*"}})

	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Origin", "http://anywhere.example")

	assert.True(t, checkOrigin(r))
}

func TestCheckOriginAllowList(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(&Config{AllowedOrigins: []string{"http://allowed.example"}})

	allowed := httptest.NewRequest("GET", "/ws", nil)
	allowed.Header.Set("Origin", "http://ALLOWED.example")
	assert.True(t, checkOrigin(allowed))

	blocked := httptest.NewRequest("GET", "/ws", nil)
	blocked.Header.Set("Origin", "http://other.example")
	assert.False(t, checkOrigin(blocked))
}

func TestCheckOriginMissingHeader(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(&Config{AllowedOrigins: []string{"*"}})

	r := httptest.NewRequest("GET", "/ws", nil)
	assert.False(t, checkOrigin(r))
}
