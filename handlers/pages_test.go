package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"public-notes/templates"
)

func TestPages(t *testing.T) {
	renderer, err := templates.New()
	require.NoError(t, err)
	h := NewPages(renderer)

	for path, handler := range map[string]http.HandlerFunc{
		"/":             h.CreatePage,
		"/search":       h.SearchPage,
		"/notesperuser": h.UserPage,
	} {
		rr := doRequest(handler, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "<!DOCTYPE html>")
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	rr := doRequest(Health(pingFunc(func(context.Context) error { return nil })), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","db_connection":"ok"}`, rr.Body.String())

	rr = doRequest(Health(pingFunc(func(context.Context) error { return errors.New("down") })), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"status":"unhealthy","db_connection":"failed"}`, rr.Body.String())
}
