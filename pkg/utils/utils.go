package utils

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "golang.org/x/image/webp"
)

var (
	ErrNoFile        = errors.New("no file uploaded")
	ErrFileTooLarge  = errors.New("file size exceeds limit")
	ErrNotAnImage    = errors.New("uploaded file is not an image")
	ErrTooManyPixels = errors.New("image dimensions exceed limit")
)

// DefaultMaxPixels caps decoded images at 40 megapixels.
const DefaultMaxPixels = 40_000_000

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateImageFile(file *multipart.FileHeader) error
	ReadImageFile(file *multipart.FileHeader) (image.Image, []byte, error)
	DecodeImage(raw []byte) (image.Image, error)
	MaxFileSize() int64
	UploadKey(t time.Time, id, fileName string) string
}

type utils struct {
	maxFileSize int64
	maxPixels   int64
}

func New() IUtils {
	return NewWithLimit(5 * 1024 * 1024)
}

func NewWithLimit(maxFileSize int64) IUtils {
	return NewWithLimits(maxFileSize, DefaultMaxPixels)
}

// NewWithLimits bounds uploads by byte size and by decoded pixel count.
func NewWithLimits(maxFileSize, maxPixels int64) IUtils {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &utils{
		maxFileSize: maxFileSize,
		maxPixels:   maxPixels,
	}
}

func (u *utils) MaxFileSize() int64 {
	return u.maxFileSize
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	return nil
}

// ReadImageFile validates and decodes an uploaded image, returning the raw
// bytes alongside so they can be stored unchanged.
func (u *utils) ReadImageFile(file *multipart.FileHeader) (image.Image, []byte, error) {
	if err := u.ValidateImageFile(file); err != nil {
		return nil, nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, u.maxFileSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > u.maxFileSize {
		return nil, nil, ErrFileTooLarge
	}

	img, err := u.DecodeImage(raw)
	if err != nil {
		return nil, nil, err
	}

	return img, raw, nil
}

// DecodeImage reads the header first so oversized dimensions are rejected
// before the pixel buffer is allocated.
func (u *utils) DecodeImage(raw []byte) (image.Image, error) {
	if int64(len(raw)) > u.maxFileSize {
		return nil, ErrFileTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrNotAnImage, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > u.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	return img, nil
}

// UploadKey names an upload uploads/<YYYYmmdd_HHMMSS>_<id>_<name>. The id
// keeps captures that share a name and a second apart.
func (u *utils) UploadKey(t time.Time, id, fileName string) string {
	name := unsafeName.ReplaceAllString(filepath.Base(fileName), "_")
	if name == "" || name == "." || name == "_" {
		name = "image"
	}
	return fmt.Sprintf("uploads/%s_%s_%s", t.Format("20060102_150405"), id, name)
}
