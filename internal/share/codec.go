// Package share turns a project into a URL-safe payload and back. The
// payload is base64url over flate-compressed JSON, carries no inline
// image data, and prefers percentage coordinates so a viewer can
// reproduce the layout on any viewport.
package share

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

// DecodeError reports a malformed or unsupported share payload. The
// viewer surfaces it as a generic "invalid share link".
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode share payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode share payload: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failure to serialize a project.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode share payload: %v", e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }

// Encode serializes a share-safe projection of p into a compact
// URL-safe string. The projection drops inline data (thumbs, data-URL
// sources) and elides authored defaults.
func Encode(p project.Project) (string, error) {
	wire := projection(p)

	raw, err := json.Marshal(wire)
	if err != nil {
		return "", &EncodeError{Err: err}
	}

	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", &EncodeError{Err: err}
	}
	if _, err := zw.Write(raw); err != nil {
		return "", &EncodeError{Err: err}
	}
	if err := zw.Close(); err != nil {
		return "", &EncodeError{Err: err}
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses a payload produced by Encode (or a compatible older
// writer). Percentages are clamped, elided defaults restored, and the
// result validated; any failure is a DecodeError.
func Decode(s string) (project.Project, error) {
	if s == "" {
		return project.Project{}, &DecodeError{Reason: "empty payload"}
	}
	zipped, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return project.Project{}, &DecodeError{Reason: "not base64url", Err: err}
	}

	zr := flate.NewReader(bytes.NewReader(zipped))
	raw, err := io.ReadAll(io.LimitReader(zr, 4<<20))
	if err != nil {
		return project.Project{}, &DecodeError{Reason: "corrupt compressed stream", Err: err}
	}
	_ = zr.Close()

	var p project.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return project.Project{}, &DecodeError{Reason: "malformed JSON", Err: err}
	}
	if p.SchemaVersion > project.CurrentSchemaVersion {
		return project.Project{}, &DecodeError{
			Reason: fmt.Sprintf("unknown schema version %d", p.SchemaVersion),
		}
	}

	project.Normalize(&p)
	if err := project.Validate(&p); err != nil {
		return project.Project{}, &DecodeError{Reason: "invalid project", Err: err}
	}
	return p, nil
}

// projection returns a deep copy of p reduced to its share-safe wire
// form: no inline data, percentage coordinates preferred, defaulted
// fields zeroed so omitempty elides them.
func projection(p project.Project) project.Project {
	out := p.Clone()
	project.Normalize(&out)

	for i := range out.Slides {
		s := &out.Slides[i]
		if s.Image != nil {
			img := s.Image
			img.Thumb = ""
			if project.IsDataURL(img.Src) {
				img.Src = ""
			}
			if img.Scale == 1 {
				img.Scale = 0
			}
			if img.SignX > 0 {
				img.SignX = 0
			}
			if img.SignY > 0 {
				img.SignY = 0
			}
		}
	}
	return out
}
