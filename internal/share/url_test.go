package share

import (
	"errors"
	"strings"
	"testing"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

func TestBuildViewerURL_Shape(t *testing.T) {
	b := NewURLBuilder("https://invites.example/")
	u, err := b.BuildViewerURL(sampleProject())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasPrefix(u, "https://invites.example/?view=1#d=") {
		t.Errorf("url shape: %q", u)
	}
}

func TestBuildViewerURL_HardCap(t *testing.T) {
	b := NewURLBuilder("https://invites.example")
	b.HardCap = 64

	_, err := b.BuildViewerURL(sampleProject())
	var tooBig *PayloadTooLargeError
	if !errors.As(err, &tooBig) {
		t.Fatalf("want PayloadTooLargeError, got %v", err)
	}
	if tooBig.Cap != 64 || tooBig.Length <= 64 {
		t.Errorf("error detail: %+v", tooBig)
	}
}

func TestParseViewerURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		isViewer bool
		payload  string
	}{
		{"fragment form", "https://x/?view=1#d=abc", true, "abc"},
		{"mode=view", "https://x/?mode=view#d=abc", true, "abc"},
		{"legacy query form", "https://x/?view=1&d=abc", true, "abc"},
		{"fragment wins over query", "https://x/?view=1&d=old#d=new", true, "new"},
		{"payload implies viewer", "https://x/?d=abc", true, "abc"},
		{"not a viewer", "https://x/?page=2", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseViewerURL(tt.raw)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got.IsViewer != tt.isViewer || got.Payload != tt.payload {
				t.Errorf("got %+v, want viewer=%v payload=%q", got, tt.isViewer, tt.payload)
			}
		})
	}
}

func TestApplyViewerURL_RoundTrip(t *testing.T) {
	src := sampleProject()
	src.Autoplay = true
	b := NewURLBuilder("https://invites.example")
	u, err := b.BuildViewerURL(src)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	e := project.NewEditor(800, 450, 0)
	got, autoplay, err := ApplyViewerURL(e, u)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !autoplay {
		t.Error("autoplay flag must survive the trip")
	}
	if len(got.Slides) != 1 || got.Slides[0].Layers[0].Text != "Hi" {
		t.Errorf("installed project mismatch: %+v", got)
	}
	if canUndo, _ := e.History(); canUndo {
		t.Error("viewer install must not leave undoable history")
	}
}

func TestApplyViewerURL_BadPayloadLeavesStateUntouched(t *testing.T) {
	e := project.NewEditor(800, 450, 0)
	before := e.Project()

	_, _, err := ApplyViewerURL(e, "https://x/?view=1#d=garbage!!!")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want DecodeError, got %v", err)
	}

	after := e.Project()
	if len(after.Slides) != len(before.Slides) || after.ActiveIndex != before.ActiveIndex {
		t.Error("failed viewer apply must not corrupt prior state")
	}
}

func TestQRPNG(t *testing.T) {
	png, err := QRPNG("https://invites.example/?view=1#d=abc", 128)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	// PNG magic header.
	if len(png) < 8 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Errorf("not a png (%d bytes)", len(png))
	}
}
