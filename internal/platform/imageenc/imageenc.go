// Package imageenc turns raw image bytes into the data URLs stored on posts,
// responses and entity logos.
package imageenc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// MaxBytes is the largest image accepted.
	MaxBytes = 500 * 1024
	// WarnBytes is the size above which a successful result carries a warning.
	WarnBytes = 300 * 1024
)

var (
	ErrNotImage   = errors.New("file must be an image")
	ErrTooLarge   = errors.New("image too large")
	ErrUnreadable = errors.New("failed to read image file")
)

type Result struct {
	DataURL string
	// Warning is advisory; the image was still encoded.
	Warning      string
	OriginalSize int
}

// Encode validates and encodes data declared as mediaType.
func Encode(data []byte, mediaType string) (Result, error) {
	if !strings.HasPrefix(mediaType, "image/") {
		return Result{OriginalSize: len(data)}, ErrNotImage
	}
	if len(data) > MaxBytes {
		return Result{OriginalSize: len(data)}, fmt.Errorf("%w: image size (%s) exceeds maximum allowed size (%s). Please compress or resize the image",
			ErrTooLarge, FormatBytes(len(data)), FormatBytes(MaxBytes))
	}
	res := Result{
		DataURL:      "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
		OriginalSize: len(data),
	}
	if len(data) > WarnBytes {
		res.Warning = fmt.Sprintf("Image size is %s. Consider compressing for better performance.", FormatBytes(len(data)))
	}
	return res, nil
}

// EncodeFile reads path and encodes it. The media type comes from the file
// extension, falling back to content sniffing.
func EncodeFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return Encode(data, MediaType(path, data))
}

func MediaType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		// Drop parameters such as "; charset=utf-8".
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return http.DetectContentType(data)
}

// Upload is one file offered for encoding.
type Upload struct {
	Data      []byte
	MediaType string
	// Err is a read failure that happened before encoding.
	Err error
}

// Batch is the outcome of ProcessUploads. Errors and Warnings are prefixed
// with the 1-based position of the image they refer to.
type Batch struct {
	DataURLs []string
	Errors   []string
	Warnings []string
}

// ProcessUploads encodes every upload, keeping only the successes.
func ProcessUploads(uploads []Upload) Batch {
	out := Batch{DataURLs: []string{}}
	for i, u := range uploads {
		prefix := "Image " + strconv.Itoa(i+1) + ": "
		if u.Err != nil {
			out.Errors = append(out.Errors, prefix+ErrUnreadable.Error())
			continue
		}
		res, err := Encode(u.Data, u.MediaType)
		if err != nil {
			out.Errors = append(out.Errors, prefix+err.Error())
			continue
		}
		out.DataURLs = append(out.DataURLs, res.DataURL)
		if res.Warning != "" {
			out.Warnings = append(out.Warnings, prefix+res.Warning)
		}
	}
	return out
}

// IsValidDataURL reports whether s looks like a base64 image data URL.
func IsValidDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/") && strings.Contains(s, "base64,")
}

// EstimateSize returns the approximate decoded size of a data URL or bare
// base64 payload.
func EstimateSize(s string) int {
	payload := s
	if _, after, ok := strings.Cut(s, ","); ok && after != "" {
		payload = after
	}
	return (len(payload)*6 + 7) / 8
}

// FormatBytes renders n as "0 Bytes", "512 Bytes", "1.5 KB", "2.25 MB".
func FormatBytes(n int) string {
	if n <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB"}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	i = min(i, len(units)-1)
	v := math.Round(float64(n)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[i]
}
