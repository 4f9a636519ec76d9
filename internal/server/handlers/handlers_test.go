package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/snapserve/snapserve/internal/ai"
	"github.com/snapserve/snapserve/internal/server/cache"
	"github.com/snapserve/snapserve/internal/server/response"
	"github.com/snapserve/snapserve/internal/server/ws"
	"github.com/snapserve/snapserve/internal/storage"
)

// testEnv bundles the handler dependencies over a seeded store and a
// running hub.
type testEnv struct {
	handlers *Handlers
	store    storage.Store
	hub      *ws.Hub
	cache    *cache.Cache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store, err := storage.NewSeededStore(ctx)
	require.NoError(t, err)

	logger := zerolog.Nop()
	hub := ws.NewHub(&logger, nil)
	go hub.Run(ctx)

	responseCache := cache.New(time.Minute, time.Minute)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	return &testEnv{
		handlers: New(store, ai.NewHeuristic(), hub, responseCache, upgrader, &logger),
		store:    store,
		hub:      hub,
		cache:    responseCache,
	}
}

// do runs one handler and decodes the response envelope's data into out.
func do(t *testing.T, handler http.HandlerFunc, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if out != nil && rec.Code < 400 {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return rec
}

// decodeError extracts the error payload from a failed response.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.Error {
	t.Helper()
	var envelope struct {
		Error *response.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return *envelope.Error
}
