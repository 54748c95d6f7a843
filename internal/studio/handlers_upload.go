package studio

import (
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxUploadSize = 10 * 1024 * 1024 // 10MB
	thumbWidth    = 200
)

// handleUploadImage stores an uploaded background image and a small
// PNG thumbnail, returning served URLs and natural dimensions.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	_ = userID

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg":
	default:
		writeError(w, http.StatusUnsupportedMediaType, "unsupported file type (allowed: png, jpg, jpeg)")
		return
	}

	src, _, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot decode image")
		return
	}
	bounds := src.Bounds()
	natW, natH := bounds.Dx(), bounds.Dy()
	if natW == 0 || natH == 0 {
		writeError(w, http.StatusBadRequest, "empty image")
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		log.Printf("invitation-maker: mkdir uploads: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot save image")
		return
	}

	id := uuid.NewString()
	name := id + ext
	if err := s.writeImage(filepath.Join(s.uploadDir, name), src, ext); err != nil {
		log.Printf("invitation-maker: write upload: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot save image")
		return
	}

	thumbName := id + "_thumb.png"
	thumb := scaleToWidth(src, thumbWidth)
	if err := s.writeImage(filepath.Join(s.uploadDir, thumbName), thumb, ".png"); err != nil {
		log.Printf("invitation-maker: write thumbnail: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot save image")
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		ID:       id,
		URL:      "/uploads/" + name,
		ThumbURL: "/uploads/" + thumbName,
		Width:    natW,
		Height:   natH,
	})
}

func (s *Server) writeImage(path string, img image.Image, ext string) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	if ext == ".png" {
		return png.Encode(dst, img)
	}
	return jpeg.Encode(dst, img, &jpeg.Options{Quality: 90})
}

// scaleToWidth resizes img to w pixels wide, preserving aspect ratio.
func scaleToWidth(src image.Image, w int) image.Image {
	b := src.Bounds()
	if b.Dx() <= w {
		return src
	}
	h := b.Dy() * w / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
