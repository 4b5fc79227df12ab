package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aretw0/pacer/pkg/adapters/filesystem"
	pacerhttp "github.com/aretw0/pacer/pkg/adapters/http"
	"github.com/aretw0/pacer/pkg/adapters/memory"
	"github.com/aretw0/pacer/pkg/dispatch"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/observability"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/scenario"
	"github.com/aretw0/pacer/pkg/session"
	"github.com/aretw0/pacer/pkg/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newHandler(t *testing.T, opts ...pacerhttp.Option) http.Handler {
	t.Helper()
	runner := phase.NewRunner(phase.WithTimeScale(0))
	ws := filesystem.NewFS("demo", fstest.MapFS{
		"main.go":      {Data: []byte("package main")},
		"package.json": {Data: []byte("{}")},
	})
	reg := tools.NewRegistry(runner, ws, tools.WithRand(phase.NewRand(1)))
	handlers := scenario.NewRegistry(scenario.Deps{
		Runner:    runner,
		Workspace: ws,
		Tools:     reg,
		Rand:      phase.NewRand(1),
	})
	sessions := session.NewManager(memory.NewStore())
	return pacerhttp.NewHandler(dispatch.New(handlers), sessions, reg, opts...)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	h := newHandler(t)
	w := get(h, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestChat_Conversation(t *testing.T) {
	h := newHandler(t)

	w := postJSON(t, h, "/chat", pacerhttp.ChatRequest{Prompt: "show me some links"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first pacerhttp.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, domain.ScenarioLinks, first.Response.Scenario)
	assert.NotEmpty(t, first.Response.Result.Fragments)
	assert.NotEmpty(t, first.Response.Suggestions)

	w = postJSON(t, h, "/chat", pacerhttp.ChatRequest{SessionID: first.SessionID, Command: "simple"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second pacerhttp.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, domain.ScenarioSimple, second.Response.Scenario)

	w = get(h, "/sessions/"+first.SessionID+"/history")
	require.Equal(t, http.StatusOK, w.Code)
	var history domain.History
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 4)
	assert.Equal(t, domain.RequestTurn{Prompt: "show me some links"}, history[0])
	assert.Equal(t, domain.RequestTurn{Command: "simple"}, history[2])

	w = get(h, "/sessions")
	require.Equal(t, http.StatusOK, w.Code)
	var ids []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Equal(t, []string{first.SessionID}, ids)

	del := httptest.NewRecorder()
	h.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/sessions/"+first.SessionID, nil))
	assert.Equal(t, http.StatusNoContent, del.Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/sessions/"+first.SessionID+"/history").Code)
}

func TestChat_BadRequests(t *testing.T) {
	h := newHandler(t, pacerhttp.WithMaxInputSize(16))

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusBadRequest, postJSON(t, h, "/chat", pacerhttp.ChatRequest{}).Code)
	assert.Equal(t, http.StatusBadRequest,
		postJSON(t, h, "/chat", pacerhttp.ChatRequest{Prompt: strings.Repeat("x", 17)}).Code)
}

func TestTools(t *testing.T) {
	h := newHandler(t)

	w := get(h, "/tools")
	require.Equal(t, http.StatusOK, w.Code)
	var defs []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &defs))
	require.Len(t, defs, 5)
	assert.Equal(t, tools.NameSimple, defs[2].Name)

	w = postJSON(t, h, "/tools/"+tools.NameSimple, map[string]any{"steps": 2, "message": "Indexing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out pacerhttp.ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, `Running simple progress demo for "Indexing"...`, out.Prepared)
	assert.Contains(t, out.Output, "✓ Step 2/2: Indexing (100%)")
	assert.Contains(t, out.Output, "🎉 Task completed successfully in 5000ms!")

	empty := httptest.NewRequest(http.MethodPost, "/tools/"+tools.NameSimple, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, empty)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, postJSON(t, h, "/tools/nope", map[string]any{}).Code)
	assert.Equal(t, http.StatusBadRequest,
		postJSON(t, h, "/tools/"+tools.NameSimple, map[string]any{"steps": "many"}).Code)
}

func TestMetrics(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(newHandler(t), "/metrics").Code)

	m := observability.NewMetrics()
	h := newHandler(t, pacerhttp.WithMetrics(m.Handler()))
	w := get(h, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStreamManager_Sink(t *testing.T) {
	sm := pacerhttp.NewStreamManager()
	sink := sm.Sink("s1")
	sink.Progress("dropped, nobody listening")

	ch, cancel := sm.Subscribe("s1")
	assert.Equal(t, 1, sm.Subscribers("s1"))

	sink.Progress("working")
	sink.Markdown("**done**")

	var got []pacerhttp.StreamEvent
	for range 2 {
		var e pacerhttp.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(<-ch), &e))
		got = append(got, e)
	}
	assert.Equal(t, []pacerhttp.StreamEvent{
		{Type: "progress", Message: "working"},
		{Type: "markdown", Message: "**done**"},
	}, got)

	cancel()
	cancel()
	assert.Zero(t, sm.Subscribers("s1"))
	_, open := <-ch
	assert.False(t, open)
}

func TestSubscribeEvents(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv := httptest.NewServer(newHandler(t))
	defer srv.Close()
	client := srv.Client()
	defer client.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/s1/events", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	body, _ := json.Marshal(pacerhttp.ChatRequest{SessionID: "s1", Command: "steps"})
	chat, err := client.Post(srv.URL+"/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	chat.Body.Close()
	require.Equal(t, http.StatusOK, chat.StatusCode)

	var events []pacerhttp.StreamEvent
	for lines.Scan() {
		data, ok := strings.CutPrefix(lines.Text(), "data: ")
		if !ok || data == "connected" {
			continue
		}
		var e pacerhttp.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(data), &e))
		events = append(events, e)
		if e.Type == "markdown" {
			break
		}
	}
	require.NotEmpty(t, events)
	assert.Equal(t, "markdown", events[len(events)-1].Type)
	cancel()
}
