package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cardstack/pkg/deck"
	errs "github.com/matzehuels/cardstack/pkg/errors"
)

// testScene records a short drag on a five card deck.
func testScene(t *testing.T) Scene {
	t.Helper()
	d := deck.New(deck.DefaultConfig())
	d.OnResize(600, 1000)
	d.OnItemsChanged([]deck.Handle{"mail", "maps", "music", "notes", "camera"})

	var frames []deck.Snapshot
	frames = append(frames, d.Snapshot())
	d.TouchDown(900, 0)
	d.TouchMove(1000, 16*time.Millisecond)
	frames = append(frames, d.Snapshot())
	d.TouchUp(1000, 32*time.Millisecond)
	for now := 32 * time.Millisecond; d.Animating(); now += 16 * time.Millisecond {
		d.Tick(now)
		frames = append(frames, d.Snapshot())
	}
	return Scene{Width: 600, Height: 1000, CardPadding: 15, Frames: frames}
}

func TestRenderJSON(t *testing.T) {
	s := testScene(t)
	data, err := RenderJSON(s)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 600 || out.Height != 1000 || out.Orientation != "portrait" {
		t.Errorf("header = %d x %d %s", out.Width, out.Height, out.Orientation)
	}
	if len(out.Frames) != len(s.Frames) {
		t.Fatalf("frames = %d, want %d", len(out.Frames), len(s.Frames))
	}
	if f := out.Frames[1]; f.State != "scrolling" || f.TimeMS != 16 || f.Metrics.OverscrollPosition != -100 {
		t.Errorf("frame 1 = %+v", f)
	}
	if len(out.Frames[0].Plan) != 5 || out.Frames[0].Plan[4].Handle != "camera" {
		t.Errorf("plan = %+v", out.Frames[0].Plan)
	}
}

func TestRenderJSONOptions(t *testing.T) {
	s := testScene(t)
	s.Frames[0].Plan[0].Visible = false

	data, err := RenderJSON(s, WithJSONVisibleOnly(), WithJSONEvery(4), WithJSONCompact())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("\n")) {
		t.Error("compact output contains newlines")
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if got := len(out.Frames[0].Plan); got != 4 {
		t.Errorf("visible placements = %d, want 4", got)
	}
	if want := len(sample(s.Frames, 4)); len(out.Frames) != want {
		t.Errorf("frames = %d, want %d", len(out.Frames), want)
	}
}

func TestSample(t *testing.T) {
	frames := make([]deck.Snapshot, 10)
	for i := range frames {
		frames[i].Time = time.Duration(i)
	}
	tests := []struct {
		every int
		want  []time.Duration
	}{
		{0, []time.Duration{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{3, []time.Duration{0, 3, 6, 9}},
		{4, []time.Duration{0, 4, 8, 9}},
		{20, []time.Duration{0, 9}},
	}
	for _, tt := range tests {
		got := sample(frames, tt.every)
		if len(got) != len(tt.want) {
			t.Errorf("sample(%d) = %d frames, want %d", tt.every, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Time != tt.want[i] {
				t.Errorf("sample(%d)[%d] = %v, want %v", tt.every, i, got[i].Time, tt.want[i])
			}
		}
	}
}

func TestRenderSVG(t *testing.T) {
	s := testScene(t)
	svg := string(RenderSVG(s, WithColumns(4), WithEvery(2)))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document:\n%.200s", svg)
	}
	panels := strings.Count(svg, `class="frame"`)
	if want := len(sample(s.Frames, 2)); panels != want {
		t.Errorf("panels = %d, want %d", panels, want)
	}
	if !strings.Contains(svg, ">camera<") {
		t.Error("card label missing")
	}
	if !strings.Contains(svg, "skewX(") {
		t.Error("overscrolled frame drawn without tilt")
	}
	if !strings.Contains(svg, "card-shadow") {
		t.Error("flat style defs missing")
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	s := Scene{Width: 100, Height: 200, Frames: []deck.Snapshot{{
		Plan: []deck.Placement{{Handle: "a&b", Visible: true}},
	}}}
	svg := string(RenderSVG(s, WithStyle(Outline{})))
	if !strings.Contains(svg, ">a&amp;b<") {
		t.Errorf("label not escaped:\n%s", svg)
	}
}

func TestCardRect(t *testing.T) {
	s := Scene{Width: 600, Height: 1000, CardPadding: 15}
	if x, y, w, h := s.cardRect(200); x != 15 || y != 215 || w != 570 || h != 600 {
		t.Errorf("portrait rect = %v %v %v %v", x, y, w, h)
	}
	s = Scene{Width: 1000, Height: 600, CardPadding: 15, Orientation: deck.Landscape}
	if x, y, w, h := s.cardRect(200); x != 215 || y != 15 || w != 600 || h != 570 {
		t.Errorf("landscape rect = %v %v %v %v", x, y, w, h)
	}
}

func TestTextFrame(t *testing.T) {
	s := testScene(t)
	out := TextFrame(s, s.Frames[0], WithTextRows(10), WithTextWidth(20))
	lines := strings.Split(out, "\n")
	if len(lines) != 11 {
		t.Fatalf("lines = %d, want 11:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "idle") {
		t.Errorf("header = %q", lines[0])
	}
	// Views 0, 199, 399, 600 and 800 of 1000 map to rows 0, 1, 3, 6 and 8.
	for row, label := range map[int]string{1: "mail", 2: "maps", 4: "music", 7: "notes", 9: "camera"} {
		if !strings.Contains(lines[row], label) {
			t.Errorf("line %d = %q, want %s", row, lines[row], label)
		}
	}
	if got := RenderText(s, WithTextEvery(1000)); strings.Count(got, "\n\n") != 1 {
		t.Errorf("RenderText with stride joined %d frames", strings.Count(got, "\n\n")+1)
	}
}

func TestRender(t *testing.T) {
	s := testScene(t)
	ctx := context.Background()
	for _, format := range []string{FormatJSON, FormatSVG, FormatText} {
		out, err := Render(ctx, format, s, Options{Every: 3})
		if err != nil || len(out) == 0 {
			t.Errorf("Render(%s) = %d bytes, %v", format, len(out), err)
		}
	}
	if _, err := Render(ctx, "gif", s, Options{}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}
	if _, err := Render(ctx, FormatSVG, s, Options{Style: "neon"}); err == nil {
		t.Error("unknown style accepted")
	}
}

func TestExt(t *testing.T) {
	if Ext(FormatText) != "txt" || Ext(FormatSVG) != "svg" {
		t.Errorf("Ext = %s %s", Ext(FormatText), Ext(FormatSVG))
	}
}
