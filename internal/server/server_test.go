package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippets/internal/connwatch"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/repository"
	"github.com/sakif/snippets/internal/server"
	"github.com/sakif/snippets/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T) repository.Store {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:", false, discardLogger())
	require.NoError(t, err)
	return st
}

func newTestServer(t *testing.T, prefix string) (*server.Server, repository.Store) {
	t.Helper()
	st := openStore(t)
	t.Cleanup(func() { st.Close() })

	logger := discardLogger()
	w := connwatch.New(st, time.Minute, connwatch.NewExponentialBackoff(1), logger)
	return server.New(server.Config{Prefix: prefix}, st, w, logger), st
}

func send(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSnippetLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, "/snippets")
	h := srv.Handler()

	rr := send(t, h, http.MethodPost, "/snippets", `{"name":"hello","code":"print(1)","tags":["demo","go"]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var created model.Snippet
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "hello", created.Name)
	assert.Equal(t, "print(1)", created.Code)
	assert.Equal(t, []string{"demo", "go"}, created.Tags)
	assert.Nil(t, created.Description)

	target := "/snippets/" + strconv.FormatInt(created.ID, 10)

	rr = send(t, h, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got model.Snippet
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, created, got)

	rr = send(t, h, http.MethodGet, "/snippets?searchterm=HELL", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var found []model.Snippet
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&found))
	assert.Equal(t, []model.Snippet{created}, found)

	rr = send(t, h, http.MethodPut, target, `{"name":"hello2","code":"print(2)","tags":[]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated model.Snippet
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "hello2", updated.Name)
	assert.Equal(t, []string{}, updated.Tags)

	rr = send(t, h, http.MethodDelete, target, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = send(t, h, http.MethodGet, target, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"id not found"}`, rr.Body.String())

	rr = send(t, h, http.MethodGet, "/snippets", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetMissingSnippet(t *testing.T) {
	srv, _ := newTestServer(t, "/snippets")

	rr := send(t, srv.Handler(), http.MethodGet, "/snippets/999", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"id not found"}`, rr.Body.String())
}

func TestMissingRequiredFieldIsDatabaseError(t *testing.T) {
	srv, _ := newTestServer(t, "/snippets")

	rr := send(t, srv.Handler(), http.MethodPost, "/snippets", `{"name":"no code"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"database error"}`, rr.Body.String())
}

func TestCustomAndEmptyPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		list   string
	}{
		{prefix: "/code", list: "/code"},
		{prefix: "/code", list: "/code/"},
		{prefix: "", list: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+tt.list, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.prefix)
			h := srv.Handler()

			rr := send(t, h, http.MethodPost, tt.list, `{"name":"n","code":"c"}`)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			rr = send(t, h, http.MethodGet, tt.list, "")
			require.Equal(t, http.StatusOK, rr.Code)
			var all []model.Snippet
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&all))
			assert.Len(t, all, 1)

			rr = send(t, h, http.MethodGet, tt.prefix+"/"+strconv.FormatInt(all[0].ID, 10), "")
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, "/snippets")

	rr := send(t, srv.Handler(), http.MethodGet, server.HealthPath, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestStart_StopsOnContextCancelAndClosesStore(t *testing.T) {
	st := openStore(t)
	logger := discardLogger()
	w := connwatch.New(st, time.Minute, connwatch.NewExponentialBackoff(1), logger)
	srv := server.New(server.Config{Port: 0, Prefix: "/snippets"}, st, w, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Error(t, st.PingContext(context.Background()))
}
