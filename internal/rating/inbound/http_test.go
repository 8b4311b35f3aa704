package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/jwt"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
	"github.com/shandysiswandi/growguard/internal/rating/usecase"
)

type fakeUC struct {
	createID  int64
	gotCreate usecase.CreateInput
	gotList   usecase.ListInput
	list      []usecase.RatingOutput
}

func (f *fakeUC) Create(_ context.Context, in usecase.CreateInput) (int64, error) {
	f.gotCreate = in
	return f.createID, nil
}

func (f *fakeUC) List(_ context.Context, in usecase.ListInput) ([]usecase.RatingOutput, error) {
	f.gotList = in
	return f.list, nil
}

type staticJWT struct{}

func (staticJWT) Generate(int64, string) (string, error) { return "", nil }

func (staticJWT) Verify(token string) (jwt.Claims, error) {
	if token != "good" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return jwt.Claims{SubjectID: 7}, nil
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func newServer(t *testing.T, uc *fakeUC) http.Handler {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app: test"))
	if err != nil {
		t.Fatalf("config error = %v", err)
	}

	r := router.NewRouter(router.Config{Config: cfg, UUID: fixedID("cid"), JWT: staticJWT{}})
	RegisterHTTPEndpoint(r, uc)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body, token string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestHTTP_CreateRating(t *testing.T) {
	// Arrange
	uc := &fakeUC{createID: 1234567890123}
	h := newServer(t, uc)

	// Act
	status, env := doJSON(t, h, http.MethodPost, "/api/v1/ratings", `{"rating":5,"feedback":"great"}`, "good")

	// Assert
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body = %+v", status, env)
	}
	if string(env.Data) != `{"id":"1234567890123"}` {
		t.Fatalf("data = %s", env.Data)
	}
	if uc.gotCreate.Rating != 5 || uc.gotCreate.Feedback != "great" {
		t.Fatalf("input = %+v", uc.gotCreate)
	}
}

func TestHTTP_RequiresBearer(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		token  string
	}{
		{name: "create without token", method: http.MethodPost, body: `{"rating":5}`},
		{name: "create with bad token", method: http.MethodPost, body: `{"rating":5}`, token: "bad"},
		{name: "list without token", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			uc := &fakeUC{}
			h := newServer(t, uc)

			// Act
			status, _ := doJSON(t, h, tt.method, "/api/v1/ratings", tt.body, tt.token)

			// Assert
			if status != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", status)
			}
			if uc.gotCreate != (usecase.CreateInput{}) || uc.gotList != (usecase.ListInput{}) {
				t.Fatalf("usecase reached: %+v %+v", uc.gotCreate, uc.gotList)
			}
		})
	}
}

func TestHTTP_ListRatings(t *testing.T) {
	t.Run("LimitQuery", func(t *testing.T) {
		// Arrange
		at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		uc := &fakeUC{list: []usecase.RatingOutput{
			{ID: 9, Rating: 4, Feedback: "ok", AuthorName: "Ali Khan", CreatedAt: at},
		}}
		h := newServer(t, uc)

		// Act
		status, env := doJSON(t, h, http.MethodGet, "/api/v1/ratings?limit=10", "", "good")

		// Assert
		if status != http.StatusOK {
			t.Fatalf("status = %d, body = %+v", status, env)
		}
		if uc.gotList.Limit != 10 {
			t.Fatalf("limit = %d", uc.gotList.Limit)
		}
		want := `{"ratings":[{"id":"9","rating":4,"feedback":"ok","author_name":"Ali Khan","created_at":"2026-03-01T10:00:00Z"}]}`
		if string(env.Data) != want {
			t.Fatalf("data = %s", env.Data)
		}
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{}
		h := newServer(t, uc)

		// Act
		status, _ := doJSON(t, h, http.MethodGet, "/api/v1/ratings", "", "good")

		// Assert
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if uc.gotList.Limit != 0 {
			t.Fatalf("limit = %d, want 0 so the usecase default applies", uc.gotList.Limit)
		}
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{}
		h := newServer(t, uc)

		// Act
		status, env := doJSON(t, h, http.MethodGet, "/api/v1/ratings?limit=abc", "", "good")

		// Assert
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, body = %+v", status, env)
		}
		if env.Message != "Invalid query limit" {
			t.Fatalf("message = %q", env.Message)
		}
	})
}
