// Package form reads multipart uploads and sniffs their content type.
package form

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const (
	magicNumberSeek = 512
)

// allowedImageTypes lists the image MIME types we accept for avatars.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// allowedAudioTypes lists the audio MIME types we accept for
// transcription. Sniffing is best-effort for containerized formats, so
// application/octet-stream is allowed through and left to the upstream
// transcriber to reject.
var allowedAudioTypes = map[string]bool{
	"audio/wave":               true,
	"audio/mpeg":               true,
	"audio/ogg":                true,
	"audio/webm":               true,
	"video/webm":               true,
	"video/mp4":                true,
	"application/octet-stream": true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg":               ".jpg",
	"image/png":                ".png",
	"image/webp":               ".webp",
	"image/gif":                ".gif",
	"audio/wave":               ".wav",
	"audio/mpeg":               ".mp3",
	"audio/ogg":                ".ogg",
	"audio/webm":               ".webm",
	"video/webm":               ".webm",
	"video/mp4":                ".mp4",
	"application/octet-stream": ".bin",
}

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrNoFileUploaded      = errors.New("file not uploaded")
	ErrFileTooLarge        = errors.New("file too large")
)

type File struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// FormFile opens the named multipart field, mapping a missing field to
// ErrNoFileUploaded.
func FormFile(r *http.Request, field string) (multipart.File, error) {
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, ErrNoFileUploaded
	} else if err != nil {
		return nil, fmt.Errorf("opening form file %q: %w", field, err)
	}
	return file, nil
}

// ReadImage reads an uploaded file and verifies it is an allowed image.
func ReadImage(file io.ReadCloser, maxSize int64) (*File, error) {
	return readFile(file, maxSize, allowedImageTypes)
}

// ReadAudio reads an uploaded file and verifies it is an allowed audio
// format.
func ReadAudio(file io.ReadCloser, maxSize int64) (*File, error) {
	return readFile(file, maxSize, allowedAudioTypes)
}

func readFile(file io.ReadCloser, maxSize int64, allowed map[string]bool) (*File, error) {
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}

	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	if !allowed[contentType] {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return &File{
		Size:     int64(len(data)),
		MimeType: contentType,
		Suffix:   mimeTypeSuffix[contentType],
		Data:     data,
	}, nil
}
