package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/festify/internal/shared"
	_ "golang.org/x/image/webp"
)

// MaxPosterSize is the largest poster accepted for recognition.
const MaxPosterSize int64 = 10 << 20

const (
	msgNotAnImage = "Please upload an image file."
	msgTooLarge   = "Image must be under 10MB."
)

// Poster is an uploaded festival poster.
//
// Width and Height are zero when the format cannot be decoded locally.
type Poster struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
	Width       int
	Height      int
}

// NewPoster builds a Poster from raw bytes, sniffing the content type and probing dimensions.
func NewPoster(filename string, data []byte) *Poster {
	p := &Poster{
		Filename:    filepath.Base(filename),
		ContentType: detectContentType(filename, data),
		Size:        int64(len(data)),
		Data:        data,
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		p.Width, p.Height = cfg.Width, cfg.Height
	}
	return p
}

// ReadPoster loads the poster at path.
//
// Files above [MaxPosterSize] are not read; the returned Poster carries only name, type and size so [Poster.Validate] can reject it.
func ReadPoster(path string) (*Poster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat poster: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidArgument, path)
	}

	if info.Size() > MaxPosterSize {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		return &Poster{
			Filename:    filepath.Base(path),
			ContentType: detectContentType(path, head[:n]),
			Size:        info.Size(),
		}, nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read poster: %w", err)
	}
	return NewPoster(path, data), nil
}

// Problem returns the user-facing reason the poster cannot be uploaded, or "" when it is acceptable.
func (p *Poster) Problem() string {
	switch {
	case p == nil || !strings.HasPrefix(p.ContentType, "image/"):
		return msgNotAnImage
	case p.Size > MaxPosterSize:
		return msgTooLarge
	default:
		return ""
	}
}

// Validate enforces the upload constraints checked before any network call.
func (p *Poster) Validate() error {
	if msg := p.Problem(); msg != "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidUpload, msg)
	}
	return nil
}

// detectContentType sniffs magic bytes and falls back to the file extension.
func detectContentType(filename string, head []byte) string {
	if len(head) > 0 {
		if ct := http.DetectContentType(head); strings.HasPrefix(ct, "image/") {
			return ct
		}
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	if len(head) > 0 {
		return http.DetectContentType(head)
	}
	return "application/octet-stream"
}
