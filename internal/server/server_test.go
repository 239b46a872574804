package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/config"
	errs "github.com/matzehuels/cardstack/pkg/errors"
)

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(&cfg)
	}
	srv := New(cfg, WithLogger(log.New(io.Discard)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// call sends body as JSON and decodes the response into out (when non-nil).
func call(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func createDeck(t *testing.T, ts *httptest.Server, body any) deckResponse {
	t.Helper()
	var resp deckResponse
	if code := call(t, ts, http.MethodPost, "/decks", body, &resp); code != http.StatusCreated {
		t.Fatalf("POST /decks = %d", code)
	}
	return resp
}

func ms(v float64) *float64 { return &v }

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]any
	if code := call(t, ts, http.MethodGet, "/healthz", nil, &body); code != http.StatusOK {
		t.Fatalf("GET /healthz = %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestCreateAndGet(t *testing.T) {
	ts := newTestServer(t)
	created := createDeck(t, ts, map[string]any{
		"handles": []string{"mail", "maps", "music", "notes", "camera"},
	})
	if created.ID == "" || created.Width != 600 || created.Height != 1000 {
		t.Fatalf("created = %+v", created)
	}

	wantView := []int{0, 199, 399, 600, 800}
	plan := created.Snapshot.Plan
	if len(plan) != len(wantView) {
		t.Fatalf("plan has %d items", len(plan))
	}
	for i, p := range plan {
		if p.View != wantView[i] {
			t.Errorf("plan[%d].View = %d, want %d", i, p.View, wantView[i])
		}
	}

	var got deckResponse
	if code := call(t, ts, http.MethodGet, "/decks/"+created.ID, nil, &got); code != http.StatusOK {
		t.Fatalf("GET = %d", code)
	}
	if got.Snapshot.Metrics.ScrollLength != created.Snapshot.Metrics.ScrollLength {
		t.Errorf("metrics changed between calls")
	}

	if code := call(t, ts, http.MethodDelete, "/decks/"+created.ID, nil, nil); code != http.StatusNoContent {
		t.Errorf("DELETE = %d", code)
	}
	if code := call(t, ts, http.MethodGet, "/decks/"+created.ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("GET after delete = %d", code)
	}
}

func TestCreateErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body any
		code errs.Code
	}{
		{"bad config", map[string]any{"config": map[string]any{"max_tilt": 200}}, errs.ErrCodeInvalidConfig},
		{"unknown field", map[string]any{"colour": "red"}, errs.ErrCodeInvalidInput},
		{"handles and count", map[string]any{"handles": []string{"a"}, "count": 2}, errs.ErrCodeInvalidInput},
		{"bad handle", map[string]any{"handles": []string{"<b>"}}, errs.ErrCodeInvalidHandle},
		{"negative viewport", map[string]any{"width": -1}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			if code := call(t, ts, http.MethodPost, "/decks", tt.body, &body); code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.code)
			}
		})
	}
}

func TestUnknownDeck(t *testing.T) {
	ts := newTestServer(t)
	var body errorBody
	if code := call(t, ts, http.MethodPost, "/decks/nope/tick", nil, &body); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
	if body.Error.Code != errs.ErrCodeNotFound {
		t.Errorf("code = %s", body.Error.Code)
	}
}

func TestSessionLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.Server.MaxSessions = 1 })
	createDeck(t, ts, nil)
	if code := call(t, ts, http.MethodPost, "/decks", nil, nil); code != http.StatusTooManyRequests {
		t.Errorf("second deck = %d, want 429", code)
	}
}

func TestDragPastStartOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := createDeck(t, ts, map[string]any{"count": 5}).ID
	path := "/decks/" + id

	var tr touchResponse
	call(t, ts, http.MethodPost, path+"/touch", touchRequest{Action: "press", Pos: 900, TimeMS: ms(0)}, &tr)
	if tr.Claimed {
		t.Error("press claimed")
	}
	call(t, ts, http.MethodPost, path+"/touch", touchRequest{Action: "move", Pos: 1000, TimeMS: ms(16)}, &tr)
	if !tr.Claimed || tr.Snapshot.State != "scrolling" || tr.Snapshot.Metrics.OverscrollPosition != -100 {
		t.Errorf("after move: claimed=%v %+v", tr.Claimed, tr.Snapshot.Metrics)
	}
	call(t, ts, http.MethodPost, path+"/touch", touchRequest{Action: "release", Pos: 1000, TimeMS: ms(32)}, &tr)
	if tr.Snapshot.State != "settling" {
		t.Errorf("after release: state = %s", tr.Snapshot.State)
	}

	var tick tickResponse
	call(t, ts, http.MethodPost, path+"/tick", tickRequest{TimeMS: ms(600)}, &tick)
	if tick.Animating || tick.Snapshot.State != "idle" || tick.Snapshot.Metrics.OverscrollPosition != 0 {
		t.Errorf("after settle: animating=%v %+v", tick.Animating, tick.Snapshot)
	}
}

func TestTapReportsItem(t *testing.T) {
	ts := newTestServer(t)
	id := createDeck(t, ts, map[string]any{"count": 5}).ID

	var tr touchResponse
	call(t, ts, http.MethodPost, "/decks/"+id+"/touch", touchRequest{Action: "press", Pos: 900, TimeMS: ms(0)}, &tr)
	call(t, ts, http.MethodPost, "/decks/"+id+"/touch", touchRequest{Action: "release", Pos: 900, TimeMS: ms(40)}, &tr)
	if tr.Claimed || tr.Tapped == "" {
		t.Errorf("tap: claimed=%v tapped=%q", tr.Claimed, tr.Tapped)
	}

	var body errorBody
	if code := call(t, ts, http.MethodPost, "/decks/"+id+"/touch", map[string]any{"action": "hover"}, &body); code != http.StatusBadRequest {
		t.Errorf("unknown action = %d", code)
	}
}

func TestFlingOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := createDeck(t, ts, map[string]any{"count": 12}).ID

	var fr flingResponse
	call(t, ts, http.MethodPost, "/decks/"+id+"/fling", flingRequest{Velocity: 3000}, &fr)
	if !fr.Accepted || fr.Snapshot.State != "flinging" {
		t.Errorf("fling: accepted=%v state=%s", fr.Accepted, fr.Snapshot.State)
	}

	var tick tickResponse
	call(t, ts, http.MethodPost, "/decks/"+id+"/tick", tickRequest{TimeMS: ms(10000)}, &tick)
	if tick.Animating {
		t.Errorf("still animating after 10s: %s", tick.Snapshot.State)
	}
}

func TestItemsAndRemoval(t *testing.T) {
	ts := newTestServer(t)
	id := createDeck(t, ts, map[string]any{"handles": []string{"a", "b", "c"}}).ID
	path := "/decks/" + id

	var resp deckResponse
	call(t, ts, http.MethodPost, path+"/items", itemsRequest{Handle: "d"}, &resp)
	if n := resp.Snapshot.Metrics.Items; n != 4 {
		t.Errorf("items after add = %d", n)
	}

	if code := call(t, ts, http.MethodDelete, path+"/items/b", nil, &resp); code != http.StatusOK {
		t.Fatalf("remove = %d", code)
	}
	if n := resp.Snapshot.Metrics.Items; n != 3 {
		t.Errorf("items after remove = %d", n)
	}
	if code := call(t, ts, http.MethodDelete, path+"/items/b", nil, nil); code != http.StatusNotFound {
		t.Errorf("second remove = %d, want 404", code)
	}

	call(t, ts, http.MethodPost, path+"/items", itemsRequest{Handles: []string{"x", "y"}}, &resp)
	if n := resp.Snapshot.Metrics.Items; n != 2 || resp.Snapshot.Plan[1].Handle != "y" {
		t.Errorf("replace: %+v", resp.Snapshot.Plan)
	}
	if code := call(t, ts, http.MethodPost, path+"/items", map[string]any{}, nil); code != http.StatusBadRequest {
		t.Errorf("empty items request = %d", code)
	}

	var cr clearResponse
	call(t, ts, http.MethodPost, path+"/clear", nil, &cr)
	if !cr.Started {
		t.Error("clear not started")
	}
	var tick tickResponse
	call(t, ts, http.MethodPost, path+"/tick", tickRequest{TimeMS: ms(60000)}, &tick)
	if n := tick.Snapshot.Metrics.Items; n != 1 {
		t.Errorf("items after clear = %d, want 1", n)
	}
}

func TestResize(t *testing.T) {
	ts := newTestServer(t)
	id := createDeck(t, ts, map[string]any{"count": 3}).ID

	var resp deckResponse
	call(t, ts, http.MethodPost, "/decks/"+id+"/resize", resizeRequest{Width: 400, Height: 500}, &resp)
	if resp.Width != 400 || resp.Snapshot.Metrics.ViewLength != 500 {
		t.Errorf("resize: %dx%d view %d", resp.Width, resp.Height, resp.Snapshot.Metrics.ViewLength)
	}
	if code := call(t, ts, http.MethodPost, "/decks/"+id+"/resize", resizeRequest{Width: -5}, nil); code != http.StatusBadRequest {
		t.Errorf("negative resize = %d", code)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)
	id := createDeck(t, ts, map[string]any{"handles": []string{"mail", "maps"}}).ID

	resp, err := ts.Client().Get(ts.URL + "/decks/" + id + "/render?format=svg&style=outline")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("render = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), ">maps<") {
		t.Errorf("svg missing card label:\n%.300s", body)
	}

	var eb errorBody
	if code := call(t, ts, http.MethodGet, "/decks/"+id+"/render?format=gif", nil, &eb); code != http.StatusBadRequest || eb.Error.Code != errs.ErrCodeInvalidFormat {
		t.Errorf("gif render = %d %s", code, eb.Error.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeInvalidScript, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeLimitExceeded, "x"), http.StatusTooManyRequests},
		{errs.New(errs.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
