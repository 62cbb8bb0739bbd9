package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/omnimsg/composer/internal/client"
	"github.com/omnimsg/composer/internal/form"
	"github.com/omnimsg/composer/internal/pipeline"
	"github.com/omnimsg/composer/internal/sublog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouterWith wires the full stack against the given fake
// gateway handler.
func newTestRouterWith(t *testing.T, gateway http.HandlerFunc) (*gin.Engine, *sublog.Ring) {
	t.Helper()

	gw := httptest.NewServer(gateway)
	t.Cleanup(gw.Close)

	log := sublog.NewRing(20)
	submitter := pipeline.NewSubmitter(client.NewGatewayClient(gw.URL)).WithLog(log)
	h := NewHandler(form.NewStore(time.Hour), submitter, log)
	return Router(h), log
}

// newTestRouter is the fixed-response variant.
func newTestRouter(t *testing.T, gatewayStatus int, gatewayBody string) (*gin.Engine, *sublog.Ring) {
	t.Helper()

	return newTestRouterWith(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(gatewayStatus)
		_, _ = w.Write([]byte(gatewayBody))
	})
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)
	w := do(t, r, http.MethodGet, "/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decode(t, w); got["ok"] != true {
		t.Fatalf("expected ok=true, got %v", got)
	}
}

func TestListTypes_MarksFormlessTypes(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)
	w := do(t, r, http.MethodGet, "/v1/types", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	types := decode(t, w)["types"].([]any)
	byName := map[string]map[string]any{}
	for _, raw := range types {
		ti := raw.(map[string]any)
		byName[ti["type"].(string)] = ti
	}

	if len(byName) != 13 {
		t.Fatalf("expected 13 types, got %d", len(byName))
	}
	audio, ok := byName["Audio"]
	if !ok {
		t.Fatalf("expected Audio in listing")
	}
	// Audio has channels but no form definition
	if audio["hasForm"] != false {
		t.Fatalf("expected Audio hasForm=false, got %v", audio)
	}
	if chs := audio["channels"].([]any); len(chs) != 1 || chs[0] != "Whatsapp" {
		t.Fatalf("expected Audio channels [Whatsapp], got %v", chs)
	}
	if text := byName["Text"]; text["hasForm"] != true {
		t.Fatalf("expected Text hasForm=true, got %v", text)
	}
}

func TestTypeFields_AudioHasNoForm(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := do(t, r, http.MethodGet, "/v1/types/Audio/fields", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/problem+json") {
		t.Fatalf("expected problem+json, got %q", ct)
	}
	if got := decode(t, w); got["title"] != "form not found" {
		t.Fatalf("expected form-not-found problem, got %v", got)
	}

	w = do(t, r, http.MethodGet, "/v1/types/Text/fields", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for Text fields, got %d", w.Code)
	}
}

func TestMountForm_Lifecycle(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Text"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	id := created["id"].(string)
	if created["channel"] != "SMS" {
		t.Fatalf("expected default channel SMS, got %v", created["channel"])
	}

	w = do(t, r, http.MethodGet, "/v1/forms/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = do(t, r, http.MethodDelete, "/v1/forms/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/v1/forms/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after unmount, got %d", w.Code)
	}
}

func TestMountForm_UnknownType(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Telepathy"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// Audio is a known type with no form
	w = do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Audio"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for Audio, got %d", w.Code)
	}
	if got := decode(t, w); got["title"] != "form not found" {
		t.Fatalf("expected form-not-found problem, got %v", got)
	}
}

func TestSelectChannel(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Image"})
	id := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPut, "/v1/forms/"+id+"/channel", gin.H{"channel": "RCS"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w); got["channel"] != "RCS" {
		t.Fatalf("expected channel RCS, got %v", got["channel"])
	}

	// SMS cannot carry an image
	w = do(t, r, http.MethodPut, "/v1/forms/"+id+"/channel", gin.H{"channel": "SMS"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestItemEndpoints(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "List"})
	id := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/items", gin.H{"path": "options"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["added"] != true || got["length"] != float64(2) {
		t.Fatalf("expected added item (len 2), got %v", got)
	}

	idx := 0
	w = do(t, r, http.MethodDelete, "/v1/forms/"+id+"/items", gin.H{"path": "options", "index": idx})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w); got["length"] != float64(1) {
		t.Fatalf("expected length 1 after removal, got %v", got)
	}
}

func TestSubmitForm_EndToEnd(t *testing.T) {
	t.Parallel()

	r, log := newTestRouter(t, http.StatusOK, `{"messageId":"m-9"}`)

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Text", "channel": "Viber"})
	id := decode(t, w)["id"].(string)

	for _, set := range []gin.H{
		{"path": "to", "value": "+361, +362"},
		{"path": "text", "value": "hello"},
	} {
		w = do(t, r, http.MethodPatch, "/v1/forms/"+id+"/fields", set)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 setting %v, got %d: %s", set, w.Code, w.Body.String())
		}
	}

	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["status"] != "sent" || got["id"] == "" {
		t.Fatalf("unexpected submit response: %v", got)
	}

	entries, err := log.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != sublog.StatusSent {
		t.Fatalf("expected one sent entry, got %+v", entries)
	}

	w = do(t, r, http.MethodGet, "/v1/submissions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	items := decode(t, w)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one submission listed, got %v", items)
	}
}

func TestSubmitForm_ValidationFailure(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Text"})
	id := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/submit", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	got := decode(t, w)
	errs := got["errors"].(map[string]any)
	if _, ok := errs["to"]; !ok {
		t.Fatalf("expected error on to, got %v", errs)
	}
	if _, ok := errs["text"]; !ok {
		t.Fatalf("expected error on text, got %v", errs)
	}
}

func TestEditRecipients_Endpoint(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{}`)

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Text"})
	id := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/recipients", gin.H{"input": "+361 +362"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	recips := decode(t, w)["recipients"].([]any)
	if len(recips) != 2 || recips[0] != "+361" {
		t.Fatalf("expected two recipients, got %v", recips)
	}

	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/recipients", gin.H{"key": "backspace"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	recips = decode(t, w)["recipients"].([]any)
	if len(recips) != 1 {
		t.Fatalf("expected one recipient after backspace, got %v", recips)
	}

	// the edited chips land in the form's to field
	w = do(t, r, http.MethodGet, "/v1/forms/"+id, nil)
	values := decode(t, w)["values"].(map[string]any)
	to := values["to"].([]any)
	if len(to) != 1 || to[0] != "+361" {
		t.Fatalf("expected to=[+361], got %v", to)
	}

	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/recipients", gin.H{"key": "escape"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown key, got %d", w.Code)
	}
}

func TestSubmitForm_DuplicateWhileInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	r, _ := newTestRouterWith(t, func(w http.ResponseWriter, req *http.Request) {
		once.Do(func() { close(started) })
		<-release
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Text"})
	id := decode(t, w)["id"].(string)
	do(t, r, http.MethodPatch, "/v1/forms/"+id+"/fields", gin.H{"path": "to", "value": "+361"})
	do(t, r, http.MethodPatch, "/v1/forms/"+id+"/fields", gin.H{"path": "text", "value": "hi"})

	firstDone := make(chan int, 1)
	go func() {
		w := do(t, r, http.MethodPost, "/v1/forms/"+id+"/submit", nil)
		firstDone <- w.Code
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first submit never reached the gateway")
	}

	// second submit while the first is still at the gateway
	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/submit", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate submit, got %d: %s", w.Code, w.Body.String())
	}

	close(release)
	select {
	case code := <-firstDone:
		if code != http.StatusOK {
			t.Fatalf("expected first submit to succeed, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("first submit never finished")
	}

	// the guard clears once the first submit completes
	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after first submit finished, got %d", w.Code)
	}
}

func TestSubmitForm_GatewayFailure(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusInternalServerError, `boom`)

	w := do(t, r, http.MethodPost, "/v1/forms", gin.H{"type": "Text"})
	id := decode(t, w)["id"].(string)

	do(t, r, http.MethodPatch, "/v1/forms/"+id+"/fields", gin.H{"path": "to", "value": "+361"})
	do(t, r, http.MethodPatch, "/v1/forms/"+id+"/fields", gin.H{"path": "text", "value": "hi"})

	w = do(t, r, http.MethodPost, "/v1/forms/"+id+"/submit", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSend_Stateless(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, http.StatusOK, `{"messageId":"m-1"}`)

	w := do(t, r, http.MethodPost, "/v1/send", gin.H{
		"type":   "Text",
		"values": gin.H{"to": "+361", "text": "hi"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w); got["status"] != "sent" {
		t.Fatalf("expected sent, got %v", got)
	}

	w = do(t, r, http.MethodPost, "/v1/send", gin.H{
		"type":   "Sticker",
		"values": gin.H{"to": "+361", "mediaUrl": "not-a-url"},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}
