package form

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

func pngBytes() []byte {
	return append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)
}

func wavBytes() []byte {
	header := []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
	return append(header, make([]byte, 64)...)
}

func TestReadImage(t *testing.T) {
	file, err := ReadImage(io.NopCloser(bytes.NewReader(pngBytes())), 1<<20)
	if err != nil {
		t.Fatalf("ReadImage() error = %v", err)
	}
	if file.MimeType != "image/png" {
		t.Errorf("mime type = %q, want %q", file.MimeType, "image/png")
	}
	if file.Suffix != ".png" {
		t.Errorf("suffix = %q, want %q", file.Suffix, ".png")
	}
	if file.Size != int64(len(pngBytes())) {
		t.Errorf("size = %d, want %d", file.Size, len(pngBytes()))
	}
}

func TestReadImage_RejectsNonImage(t *testing.T) {
	_, err := ReadImage(io.NopCloser(bytes.NewReader([]byte("plain text, not an image"))), 1<<20)
	if !errors.Is(err, ErrUnsupportedMimeType) {
		t.Errorf("error = %v, want ErrUnsupportedMimeType", err)
	}
}

func TestReadAudio(t *testing.T) {
	file, err := ReadAudio(io.NopCloser(bytes.NewReader(wavBytes())), 1<<20)
	if err != nil {
		t.Fatalf("ReadAudio() error = %v", err)
	}
	if file.MimeType != "audio/wave" {
		t.Errorf("mime type = %q, want %q", file.MimeType, "audio/wave")
	}
	if file.Suffix != ".wav" {
		t.Errorf("suffix = %q, want %q", file.Suffix, ".wav")
	}
}

func TestFormFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "avatar.png")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(pngBytes()); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, err := FormFile(req, "image")
	if err != nil {
		t.Fatalf("FormFile() error = %v", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := FormFile(req, "audio"); !errors.Is(err, ErrNoFileUploaded) {
		t.Errorf("error = %v, want ErrNoFileUploaded", err)
	}
}

func TestReadAudio_TooLarge(t *testing.T) {
	_, err := ReadAudio(io.NopCloser(bytes.NewReader(wavBytes())), 16)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("error = %v, want ErrFileTooLarge", err)
	}
}
