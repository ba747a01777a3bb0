package utils

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formFile round-trips data through a real multipart body so the header has
// a usable Open.
func formFile(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["image"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func TestReadImageFile(t *testing.T) {
	u := New()
	data := pngBytes(t)

	img, raw, err := u.ReadImageFile(formFile(t, "trash.png", "image/png", data))
	require.NoError(t, err)
	assert.Equal(t, data, raw)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestReadImageFile_Rejects(t *testing.T) {
	u := NewWithLimit(64)

	_, _, err := u.ReadImageFile(nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, _, err = u.ReadImageFile(formFile(t, "notes.txt", "text/plain", []byte("hi")))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, _, err = u.ReadImageFile(formFile(t, "big.png", "image/png", bytes.Repeat([]byte{1}, 128)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, _, err = u.ReadImageFile(formFile(t, "fake.png", "image/png", []byte("not really a png")))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestUploadKey(t *testing.T) {
	u := New()
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	assert.Equal(t, "uploads/20240309_140507_01HX_street_bottle.jpg", u.UploadKey(at, "01HX", "street bottle.jpg"))
	assert.Equal(t, "uploads/20240309_140507_01HX_passwd", u.UploadKey(at, "01HX", "../../etc/passwd"))
	assert.Equal(t, "uploads/20240309_140507_01HX_image", u.UploadKey(at, "01HX", ""))
}

func TestUploadKey_SameNameSameSecond(t *testing.T) {
	u := New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := u.NewULIDFromTimestamp(at)
	require.NoError(t, err)
	second, err := u.NewULIDFromTimestamp(at.Add(300 * time.Millisecond))
	require.NoError(t, err)

	assert.NotEqual(t, u.UploadKey(at, first, "blob"), u.UploadKey(at.Add(300*time.Millisecond), second, "blob"))
}

// pngClaiming returns a PNG whose header advertises width x height while the
// file itself stays tiny.
func pngClaiming(t *testing.T, width, height uint32) []byte {
	t.Helper()
	data := pngBytes(t)
	// signature(8) + length(4) + "IHDR"(4), then width and height.
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeImage_PixelLimit(t *testing.T) {
	u := New()

	_, err := u.DecodeImage(pngClaiming(t, 30000, 30000))
	assert.ErrorIs(t, err, ErrTooManyPixels)

	_, _, err = u.ReadImageFile(formFile(t, "huge.png", "image/png", pngClaiming(t, 30000, 30000)))
	assert.ErrorIs(t, err, ErrTooManyPixels)

	small := NewWithLimits(1<<20, 10)
	_, err = small.DecodeImage(pngBytes(t))
	assert.ErrorIs(t, err, ErrTooManyPixels)

	img, err := NewWithLimits(1<<20, 12).DecodeImage(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestDecodeImage_ByteLimit(t *testing.T) {
	u := NewWithLimits(16, DefaultMaxPixels)
	_, err := u.DecodeImage(pngBytes(t))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, int64(16), u.MaxFileSize())
}

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()
	a, err := u.NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)
	b, err := u.NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
