package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/transpile"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer() *Server {
	return New(DefaultConfig(), transpile.New(transpile.DefaultOptions()))
}

func postTranslate(t *testing.T, s *Server, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/translate", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestServer_Routes(t *testing.T) {
	s := newServer()
	want := map[string]bool{
		"GET /health":        false,
		"POST /v1/translate": false,
		"GET /v1/live":       false,
	}
	for _, r := range s.router.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		assert.True(t, found, "route %s not registered", route)
	}
}

func TestServer_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, rec.Body.String())
}

func TestTranslate_OK(t *testing.T) {
	rec, out := postTranslate(t, newServer(), TranslateRequest{Source: "x = 1\n"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var output string
	require.NoError(t, json.Unmarshal(out["output"], &output))
	assert.Equal(t, "var x = 1;\n", output)
	assert.JSONEq(t, `true`, string(out["ok"]))
	assert.JSONEq(t, `[]`, string(out["diagnostics"]))
}

func TestTranslate_DiagnosticsAre422(t *testing.T) {
	rec, _ := postTranslate(t, newServer(), TranslateRequest{Source: "(a, b) = 1\n"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp TranslateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Empty(t, resp.Output)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, diag.TupleAssignment, resp.Diagnostics[0].Code)
	assert.Equal(t, diag.Error, resp.Diagnostics[0].Severity)
}

func TestTranslate_SyntaxErrorIs400(t *testing.T) {
	rec, _ := postTranslate(t, newServer(), TranslateRequest{Source: "def f(:\n    pass\n"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, 1, resp.Line)
}

func TestTranslate_BadRequest(t *testing.T) {
	s := newServer()
	rec, _ := postTranslate(t, s, map[string]string{"file": "x.py"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = postTranslate(t, s, TranslateRequest{Source: "   \n"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshotQueue_KeepsNewest(t *testing.T) {
	q := newSnapshotQueue()
	assert.True(t, q.Push(LiveRequest{Seq: 1, Source: "a"}))
	assert.True(t, q.Push(LiveRequest{Seq: 2, Source: "b"}))
	assert.False(t, q.Push(LiveRequest{Seq: 2, Source: "c"}))
	assert.False(t, q.Push(LiveRequest{Seq: 1, Source: "d"}))

	req, ok := q.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(2), req.Seq)
	assert.Equal(t, "b", req.Source)
	assert.False(t, q.Superseded(2))
	assert.True(t, q.Superseded(1))
}

func TestSnapshotQueue_NextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := newSnapshotQueue().Next(ctx)
	assert.False(t, ok)
}

func dialLive(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	return conn
}

func TestLive_Session(t *testing.T) {
	conn := dialLive(t, newServer())

	var hello LiveResponse
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "session", hello.Type)
	assert.Len(t, hello.SessionID, 36)

	require.NoError(t, conn.WriteJSON(LiveRequest{Seq: 5, Source: "x = 1\n"}))
	var first LiveResponse
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "result", first.Type)
	assert.Equal(t, int64(5), first.Seq)
	assert.True(t, first.OK)
	assert.Equal(t, "var x = 1;\n", first.Output)

	// A stale snapshot never produces a reply; the next one does.
	require.NoError(t, conn.WriteJSON(LiveRequest{Seq: 3, Source: "y = 1\n"}))
	require.NoError(t, conn.WriteJSON(LiveRequest{Seq: 6, Source: "def f(:\n"}))
	var second LiveResponse
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, int64(6), second.Seq)
	assert.False(t, second.OK)
	require.NotNil(t, second.Error)
	assert.Equal(t, 1, second.Error.Line)
}
