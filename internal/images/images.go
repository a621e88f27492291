package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lehigh-university-libraries/perspectshift/internal/models"
)

// MaxUploadSize caps the bytes read from a single upload
const MaxUploadSize = 10 * 1024 * 1024

var (
	// ErrUnsupportedType is returned for files outside the png/jpg/jpeg filter
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrDecode is returned when a rendered payload cannot be turned into an image
	ErrDecode = errors.New("failed to decode image")
	// ErrTooLarge is returned when an upload exceeds MaxUploadSize
	ErrTooLarge = errors.New("file too large (max 10MB)")
)

// AcceptedExtensions are the upload extensions the drop zone takes
var AcceptedExtensions = []string{".png", ".jpg", ".jpeg"}

// File is a single dropped or selected upload
type File struct {
	Name string
	Data []byte
}

// ReadFile loads an upload from disk
func ReadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return ReadFrom(filepath.Base(path), f)
}

// ReadFrom reads an upload body, enforcing MaxUploadSize
func ReadFrom(name string, r io.Reader) (File, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return File{}, fmt.Errorf("failed to read file contents: %w", err)
	}
	if len(data) > MaxUploadSize {
		return File{}, ErrTooLarge
	}
	return File{Name: name, Data: data}, nil
}

// Accept checks the file against the accepted image types using both the
// extension and the sniffed content type.
func Accept(f File) error {
	ext := strings.ToLower(filepath.Ext(f.Name))
	known := false
	for _, e := range AcceptedExtensions {
		if ext == e {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, f.Name)
	}

	contentType := http.DetectContentType(f.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: %q sniffed as %s", ErrUnsupportedType, f.Name, contentType)
	}
	return nil
}

// Decode turns the backend's base64 payload into a displayable image
func Decode(payload string) (*models.Image, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrDecode, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &models.Image{
		Data:     data,
		Format:   format,
		MIMEType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// Thumbnail scales the image to fit within width x height, keeping the aspect ratio
func Thumbnail(img *models.Image, width, height int) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image", ErrDecode)
	}
	src, err := imaging.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if width <= 0 || height <= 0 {
		return src, nil
	}
	return imaging.Fit(src, width, height, imaging.Lanczos), nil
}
