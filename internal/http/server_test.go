package http

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chuan-101/json-splitter-public/internal/export"
	"github.com/chuan-101/json-splitter-public/internal/logging"
	"github.com/chuan-101/json-splitter-public/internal/search"
	"github.com/chuan-101/json-splitter-public/internal/workspace"
)

const testArchive = `[
  {"title": "First chat", "create_time": 1700000000, "current_node": "b", "mapping": {
    "a": {"parent": null, "message": {"author": {"role": "user"}, "content": {"parts": ["ping the server"]}}},
    "b": {"parent": "a", "message": {"author": {"role": "assistant"}, "metadata": {"model_slug": "gpt-4o"}, "content": {"parts": ["pong"]}}}
  }},
  {"title": "你好", "create_time": 1700086400, "current_node": "x", "mapping": {
    "x": {"parent": null, "message": {"author": {"role": "user"}, "content": "second"}}
  }},
  {"title": "Loop", "current_node": "p", "mapping": {
    "p": {"parent": "q", "message": {"content": "P"}},
    "q": {"parent": "p", "message": {"content": "Q"}}
  }}
]`

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	ws := workspace.New(nil)
	require.NoError(t, ws.LoadBytes(context.Background(), []byte(testArchive), "test"))

	server, err := NewServer(ws, export.NewService(export.Options{}), logging.NewNop(), nil)
	require.NoError(t, err)
	return server
}

func do(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServer(t *testing.T) {
	ws := workspace.New(nil)
	svc := export.NewService(export.Options{})

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server, err := NewServer(ws, svc, logging.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8787", server.Addr())
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(ws, svc, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("returns error when workspace is nil", func(t *testing.T) {
		_, err := NewServer(nil, svc, logging.NewNop(), nil)
		assert.Error(t, err)
	})
}

func TestHandleHealth(t *testing.T) {
	rec := do(t, setupTestServer(t), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Conversations)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHandleList(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/conversations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Conversations, 3)
	assert.Equal(t, 2, resp.Conversations[0].Messages)

	rec = do(t, s, http.MethodGet, "/api/v1/conversations?title=FIRST", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, 0, resp.Conversations[0].Index)
}

func TestHandlePreview(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/conversations/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "First chat", resp.Title)
	assert.Equal(t, 2, resp.VisibleCount)
	assert.Equal(t, "2023-11-14-22-13_First_chat.md", resp.FileName)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "gpt-4o", resp.Messages[1].Model)

	rec = do(t, s, http.MethodGet, "/api/v1/conversations/0?q=pong", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 1)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/v1/conversations/9", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/conversations/x", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, s, http.MethodGet, "/api/v1/conversations/2", nil).Code)
}

func TestHandleMarkdown(t *testing.T) {
	rec := do(t, setupTestServer(t), http.MethodGet, "/api/v1/conversations/1/markdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	_, params, err := mime.ParseMediaType(rec.Header().Get(echo.HeaderContentDisposition))
	require.NoError(t, err)
	assert.Equal(t, "2023-11-15-22-13_你好.md", params["filename"])
	assert.Equal(t, "**User**:\nsecond", rec.Body.String())
}

func TestHandleZip(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/export/zip", []byte(`{"indices":[1,0,1]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.MimeZip, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "conversations_")

	body := rec.Body.Bytes()
	r, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Len(t, r.File, 2)
	assert.Equal(t, "2023-11-14-22-13_First_chat.md", r.File[0].Name)
	assert.Equal(t, "2023-11-15-22-13_你好.md", r.File[1].Name)
}

func TestHandleZip_Errors(t *testing.T) {
	s := setupTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/v1/export/zip", []byte(`{"indices":[]}`)).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/v1/export/zip", []byte(`{"indices":[7]}`)).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, s, http.MethodPost, "/api/v1/export/zip", []byte(`{"indices":[0,2]}`)).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/v1/export/zip", []byte(`{"indices":`)).Code)
}

func TestHandleSearch(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/search?q=PING", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, search.Hit{ConvIndex: 0, MsgIndex: 0, Title: "First chat", Snippet: "ping the server"}, resp.Hits[0])

	rec = do(t, s, http.MethodGet, "/api/v1/search", nil)
	assert.JSONEq(t, `{"query":"","hits":[]}`, rec.Body.String())
}

func TestHandleStats(t *testing.T) {
	rec := do(t, setupTestServer(t), http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats search.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Conversations)
	assert.Equal(t, 3, stats.Messages)
	assert.Equal(t, []int{2}, stats.Skipped)
}

func TestHandleUpload(t *testing.T) {
	s := setupTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/archive", []byte(`[{"title":"only"}]`))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Conversations)
	assert.Equal(t, uint64(2), resp.Version)

	rec = do(t, s, http.MethodPost, "/api/v1/archive", []byte(`{"oops":true}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, s.ws.Len(), "failed upload keeps previous archive")
}

func TestHandleUpload_TooLarge(t *testing.T) {
	ws := workspace.New(nil)
	cfg := DefaultConfig()
	cfg.MaxUploadBytes = 8
	s, err := NewServer(ws, export.NewService(export.Options{}), logging.NewNop(), cfg)
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/api/v1/archive", []byte(`[{"title":"too long"}]`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t)
	do(t, s, http.MethodGet, "/health", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "convsplit_http_requests_total"))
	assert.True(t, strings.Contains(body, "convsplit_conversations_loaded"))
}

func TestRequestIDPropagation(t *testing.T) {
	logger := logging.NewTestLogger()
	ws := workspace.New(nil)
	s, err := NewServer(ws, export.NewService(export.Options{}), logger.Logger, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
	logger.AssertField(t, "http request", "request.id", "req-123")
}

func TestAccessLog_OmitsQueryText(t *testing.T) {
	logger := logging.NewTestLogger()
	ws := workspace.New(nil)
	require.NoError(t, ws.LoadBytes(context.Background(), []byte(testArchive), "test"))
	s, err := NewServer(ws, export.NewService(export.Options{}), logger.Logger, nil)
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/v1/search?q=confidential", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	logger.AssertField(t, "http request", "path", "/api/v1/search")
	logger.AssertField(t, "global search", "query", "[REDACTED:12]")
	logger.AssertNotLeaked(t, "confidential")
}
