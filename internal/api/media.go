package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davisrp/timingboard/internal/blob"
)

const maxImageSize = 10 * 1024 * 1024 // 10 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// UploadImageResponse carries the storage key and public URL of an upload.
type UploadImageResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// HandleUploadImage stores a zone photo and returns its public URL
// POST /api/images (multipart form, field "image")
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Failed to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Image file required")
		return
	}
	defer file.Close() //nolint:errcheck

	imageData, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read file")
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		WriteError(w, http.StatusBadRequest, ErrCodeUnsupportedMedia, "Unsupported image format")
		return
	}

	key, err := h.blobs.Save(r.Context(), "zone", mimeType, bytes.NewReader(imageData))
	if err != nil {
		h.logger.Error("failed to store image", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to store image")
		return
	}

	h.logger.Info("image stored", "key", key, "mime_type", mimeType, "bytes", len(imageData))
	writeJSON(w, http.StatusCreated, UploadImageResponse{
		Key: key,
		URL: h.blobs.PublicURL(key),
	})
}

// HandleGetMedia serves stored image bytes
// GET /media/{key}
func (h *Handler) HandleGetMedia(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	reader, mimeType, err := h.blobs.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Object not found")
			return
		}
		h.logger.Error("failed to open media", "key", key, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		return
	}
	defer reader.Close() //nolint:errcheck

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		// Response already started, nothing we can do
		h.logger.Error("failed to write media", "key", key, "error", err)
	}
}
