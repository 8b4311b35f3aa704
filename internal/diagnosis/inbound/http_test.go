package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/growguard/internal/diagnosis/usecase"
	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/jwt"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
)

type fakeUC struct {
	got usecase.ScanInput
}

func (f *fakeUC) Scan(_ context.Context, in usecase.ScanInput) (*usecase.ScanOutput, error) {
	f.got = in
	return &usecase.ScanOutput{DiseaseKey: "brown_spot", Confidence: 91.2}, nil
}

type allowJWT struct{}

func (allowJWT) Generate(int64, string) (string, error) { return "", nil }

func (allowJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{SubjectID: 1}, nil }

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newHandler(t *testing.T, uc *fakeUC, maxBytes int64) http.Handler {
	t.Helper()
	cfg, err := config.NewViperFromBytes("yaml", []byte("app: test"))
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	r := router.NewRouter(router.Config{Config: cfg, UUID: fixedID("cid"), JWT: allowJWT{}})
	RegisterHTTPEndpoint(r, uc, maxBytes)
	return r
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHTTP_Scan(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{}
		h := newHandler(t, uc, 1024)
		body, ctype := multipartBody(t, "image", "leaf.png", []byte("pngdata"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnosis/scan", body)
		req.Header.Set("Content-Type", ctype)
		req.Header.Set("Authorization", "Bearer ok")
		rec := httptest.NewRecorder()

		// Act
		h.ServeHTTP(rec, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
		}
		var env struct {
			Data ScanResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Data.DiseaseKey != "brown_spot" || uc.got.Filename != "leaf.png" || string(uc.got.Image) != "pngdata" {
			t.Fatalf("data = %+v, input = %+v", env.Data, uc.got)
		}
	})

	t.Run("TooLarge", func(t *testing.T) {
		// Arrange
		h := newHandler(t, &fakeUC{}, 8)
		body, ctype := multipartBody(t, "image", "leaf.png", bytes.Repeat([]byte("x"), 64))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnosis/scan", body)
		req.Header.Set("Content-Type", ctype)
		req.Header.Set("Authorization", "Bearer ok")
		rec := httptest.NewRecorder()

		// Act
		h.ServeHTTP(rec, req)

		// Assert
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("MissingField", func(t *testing.T) {
		// Arrange
		h := newHandler(t, &fakeUC{}, 1024)
		body, ctype := multipartBody(t, "photo", "leaf.png", []byte("pngdata"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnosis/scan", body)
		req.Header.Set("Content-Type", ctype)
		req.Header.Set("Authorization", "Bearer ok")
		rec := httptest.NewRecorder()

		// Act
		h.ServeHTTP(rec, req)

		// Assert
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
		}
	})
}
