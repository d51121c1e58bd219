package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/davisrp/timingboard/internal/storage"
)

// pngHeader is the PNG magic-byte signature, enough for MIME sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func uploadRequest(t *testing.T, token string, field string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "photo.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestHandleUploadImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "admin@example.com", storage.RoleAdmin)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, token, "image", pngHeader))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp UploadImageResponse
	decode(t, rec, &resp)
	if !strings.HasSuffix(resp.Key, ".png") {
		t.Errorf("key = %q, want .png suffix", resp.Key)
	}
	if resp.URL != "/media/"+resp.Key {
		t.Errorf("url = %q, want /media/%s", resp.URL, resp.Key)
	}

	// The bytes must come back through the media route
	getRec := env.request(t, "GET", resp.URL, "", nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("media status = %d, want 200", getRec.Code)
	}
	if got := getRec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("media content type = %q, want image/png", got)
	}
	if !bytes.Equal(getRec.Body.Bytes(), pngHeader) {
		t.Error("media bytes do not match the upload")
	}
}

func TestHandleUploadImage_RejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "admin@example.com", storage.RoleAdmin)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, token, "image", []byte("#!/bin/sh\nrm -rf /\n")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	var apiErr APIError
	decode(t, rec, &apiErr)
	if apiErr.Error != ErrCodeUnsupportedMedia {
		t.Errorf("error code = %q, want %q", apiErr.Error, ErrCodeUnsupportedMedia)
	}
}

func TestHandleUploadImage_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "admin@example.com", storage.RoleAdmin)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, token, "wrong-field", pngHeader))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUploadImage_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "user@example.com", storage.RoleUser)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, token, "image", pngHeader))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleGetMedia_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, "GET", "/media/zone_missing.png", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleUploadImage_AcceptsWebP(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "admin@example.com", storage.RoleAdmin)

	webp := append([]byte("RIFF"), 0, 0, 0, 0)
	webp = append(webp, []byte("WEBP")...)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, token, "image", webp))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var resp UploadImageResponse
	decode(t, rec, &resp)
	if !strings.HasSuffix(resp.Key, ".webp") {
		t.Errorf("key = %q, want .webp suffix", resp.Key)
	}
}
