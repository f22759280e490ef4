package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulesoft-labs/twiml"
	"github.com/mulesoft-labs/twiml/internal/flow"
	"github.com/mulesoft-labs/twiml/pkg/adapters/memory"
	"github.com/mulesoft-labs/twiml/pkg/domain"
)

func parseFlow(t *testing.T, src string) *flow.Document {
	t.Helper()
	doc, err := flow.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func testFlows(t *testing.T) *flow.Set {
	t.Helper()

	set := flow.NewSet()
	require.NoError(t, set.Add(parseFlow(t, `
flow: welcome
steps:
  - verb: gather
    params:
      action: menu
      num_digits: 1
    steps:
      - verb: say
        params:
          text: Press 1 for sales.
`)))
	require.NoError(t, set.Add(parseFlow(t, `
flow: menu
steps:
  - verb: say
    params:
      text: Goodbye.
`)))
	return set
}

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	srv, err := New("http://twiml.test", testFlows(t), store)
	require.NoError(t, err)
	return srv, store
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_VoiceWebhook(t *testing.T) {
	srv, store := newTestServer(t)
	handler := srv.Handler()

	rr := postForm(handler, "/voice/welcome", url.Values{
		"CallSid": {"CA123"},
		"From":    {"+15005550006"},
		"To":      {"+15005550001"},
	})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, twiml.ContentType, rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, body, `<Gather`)
	assert.Contains(t, body, `action="http://twiml.test/callbacks/menu"`)
	assert.Contains(t, body, `<Say loop="1">Press 1 for sales.</Say>`)

	state, err := store.Load(context.Background(), "CA123")
	require.NoError(t, err)
	assert.Equal(t, "welcome", state.Flow)
	assert.Equal(t, "+15005550006", state.From)
	assert.Equal(t, domain.StatusInProgress, state.Status)
}

func TestServer_VoiceWebhook_MintsCallSid(t *testing.T) {
	srv, store := newTestServer(t)

	rr := postForm(srv.Handler(), "/voice/menu", url.Values{})
	require.Equal(t, http.StatusOK, rr.Code)

	sids, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sids, 1)
	assert.True(t, strings.HasPrefix(sids[0], "CA"))
	assert.Len(t, sids[0], 34)
}

func TestServer_VoiceWebhook_UnknownFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postForm(srv.Handler(), "/voice/nope", url.Values{})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_VoiceWebhook_AcceptsGet(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/voice/menu?CallSid=CA456", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<Say")
}

func TestServer_CallbackWebhook(t *testing.T) {
	srv, store := newTestServer(t)
	handler := srv.Handler()

	postForm(handler, "/voice/welcome", url.Values{"CallSid": {"CA123"}})

	rr := postForm(handler, "/callbacks/menu", url.Values{
		"CallSid": {"CA123"},
		"Digits":  {"1"},
	})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, twiml.ContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `<Say loop="1">Goodbye.</Say>`)

	state, err := store.Load(context.Background(), "CA123")
	require.NoError(t, err)
	assert.Equal(t, "1", state.Digits["menu"])
}

func TestServer_CallbackWebhook_RequiresCallSid(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postForm(srv.Handler(), "/callbacks/menu", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_CallbackWebhook_UnknownCall(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postForm(srv.Handler(), "/callbacks/menu", url.Values{
		"CallSid": {"CA999"},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_CallbackWebhook_FoldsRecordingAndStatus(t *testing.T) {
	srv, store := newTestServer(t)
	handler := srv.Handler()

	postForm(handler, "/voice/welcome", url.Values{"CallSid": {"CA123"}})

	rr := postForm(handler, "/callbacks/menu", url.Values{
		"CallSid":           {"CA123"},
		"RecordingUrl":      {"https://api.twilio.com/recordings/RE1"},
		"TranscriptionText": {"call me back"},
		"CallStatus":        {"completed"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	state, err := store.Load(context.Background(), "CA123")
	require.NoError(t, err)
	assert.Equal(t, "https://api.twilio.com/recordings/RE1", state.RecordingURL)
	assert.Equal(t, "call me back", state.Transcription)
	assert.Equal(t, domain.StatusCompleted, state.Status)
}

func TestServer_ReplaceFlows(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	rr := postForm(handler, "/voice/extra", url.Values{})
	require.Equal(t, http.StatusNotFound, rr.Code)

	next := testFlows(t)
	require.NoError(t, next.Add(parseFlow(t, `
flow: extra
steps:
  - verb: say
    params:
      text: New flow.
`)))
	srv.ReplaceFlows(next)

	rr = postForm(handler, "/voice/extra", url.Values{})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "New flow.")
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["version"])
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	postForm(handler, "/voice/welcome", url.Values{"CallSid": {"CA123"}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `twiml_documents_rendered_total{flow="welcome"} 1`)
	assert.Contains(t, body, "twiml_render_duration_seconds")
}

func TestServer_RenderFailure(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	// Parses fine but fails at render: transcription with no callback target.
	next := testFlows(t)
	require.NoError(t, next.Add(parseFlow(t, `
flow: broken
steps:
  - verb: record
    params:
      action: saved
      transcribe: true
`)))
	srv.ReplaceFlows(next)

	rr := postForm(handler, "/voice/broken", url.Values{"CallSid": {"CA123"}})
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrr := httptest.NewRecorder()
	handler.ServeHTTP(mrr, req)
	assert.Contains(t, mrr.Body.String(), `twiml_render_errors_total{flow="broken"} 1`)
}
