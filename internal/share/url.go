package share

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

const (
	// DefaultSoftCap is the URL length past which a warning is logged.
	DefaultSoftCap = 3500
	// DefaultHardCap is the URL length past which building fails.
	DefaultHardCap = 8000
)

// PayloadTooLargeError reports a share URL over the hard cap.
type PayloadTooLargeError struct {
	Length int
	Cap    int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("share url length %d exceeds hard cap %d", e.Length, e.Cap)
}

// URLBuilder produces viewer URLs for a configured origin.
type URLBuilder struct {
	Origin  string
	SoftCap int
	HardCap int
}

// NewURLBuilder returns a builder with the default caps.
func NewURLBuilder(origin string) *URLBuilder {
	return &URLBuilder{
		Origin:  strings.TrimRight(origin, "/"),
		SoftCap: DefaultSoftCap,
		HardCap: DefaultHardCap,
	}
}

// BuildViewerURL encodes p and returns
// <origin>/?view=1#d=<payload>. The payload rides in the fragment so it
// never reaches server logs. Over the soft cap a warning is logged and
// the URL still returned; over the hard cap the build fails with
// PayloadTooLargeError.
func (b *URLBuilder) BuildViewerURL(p project.Project) (string, error) {
	payload, err := Encode(p)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/?view=1#d=%s", b.Origin, payload)

	hard := b.HardCap
	if hard <= 0 {
		hard = DefaultHardCap
	}
	if len(u) > hard {
		return "", &PayloadTooLargeError{Length: len(u), Cap: hard}
	}
	soft := b.SoftCap
	if soft <= 0 {
		soft = DefaultSoftCap
	}
	if len(u) > soft {
		log.Printf("invitation-maker: share url length %d over soft cap %d", len(u), soft)
	}
	return u, nil
}

// ViewerRequest is the result of inspecting a URL for viewer mode.
type ViewerRequest struct {
	IsViewer bool
	Payload  string
}

// ParseViewerURL detects viewer mode (view=1 or mode=view) and extracts
// the d= payload, preferring the fragment form. The legacy ?d= query
// form is accepted on read; emitted URLs always use the fragment.
func ParseViewerURL(raw string) (ViewerRequest, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ViewerRequest{}, &DecodeError{Reason: "malformed url", Err: err}
	}

	q := u.Query()
	req := ViewerRequest{
		IsViewer: q.Get("view") == "1" || q.Get("mode") == "view",
	}

	if frag := u.Fragment; frag != "" {
		fv, err := url.ParseQuery(frag)
		if err == nil && fv.Get("d") != "" {
			req.Payload = fv.Get("d")
		}
	}
	if req.Payload == "" {
		req.Payload = q.Get("d")
	}
	if req.Payload != "" {
		// A shared link with a payload is a viewer link even without
		// the explicit marker.
		req.IsViewer = true
	}
	return req, nil
}

// ApplyViewerURL decodes the payload of a viewer URL and installs it
// into the editor with history locked, leaving prior state untouched on
// any failure. It reports whether playback should start immediately.
func ApplyViewerURL(e *project.Editor, raw string) (project.Project, bool, error) {
	req, err := ParseViewerURL(raw)
	if err != nil {
		return project.Project{}, false, err
	}
	if !req.IsViewer {
		return project.Project{}, false, &DecodeError{Reason: "not a viewer url"}
	}

	p, err := Decode(req.Payload)
	if err != nil {
		return project.Project{}, false, err
	}
	if err := e.Apply(p, true); err != nil {
		return project.Project{}, false, err
	}
	return p, p.Autoplay, nil
}
