package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/config"
	"github.com/raushankrgupta/chicforgeeks-api/logger"
	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/store"
)

type testEnv struct {
	db      *store.Memory
	h       *Handler
	routes  http.Handler
	storage *fakeStorage
	mailer  *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	oldSecret, oldMinutes, oldKey, oldMax := config.JWTSecret, config.JWTExpiresMinutes, config.InternalAPIKey, config.MaxFileSize
	config.JWTSecret, config.JWTExpiresMinutes, config.InternalAPIKey = "test-secret", 60, "internal-key"
	t.Cleanup(func() {
		config.JWTSecret, config.JWTExpiresMinutes, config.InternalAPIKey, config.MaxFileSize = oldSecret, oldMinutes, oldKey, oldMax
	})

	db := store.NewMemory()
	h := NewHandler(db, logger.Nop())
	env := &testEnv{db: db, h: h, storage: newFakeStorage(), mailer: &fakeMailer{}}
	h.Storage = env.storage
	h.Mailer = env.mailer
	env.routes = h.Routes()
	return env
}

// do sends a JSON request through the full router.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.routes.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its token and id.
func (e *testEnv) register(t *testing.T, name, email string) (string, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "s3cret-pass",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d: %s", email, rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)
	return resp.Token, resp.User.ID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body)
	}
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = b
	return nil
}

func (s *fakeStorage) PresignGet(ctx context.Context, objectKey, filename string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://assets.example.com/%s?ttl=%d", objectKey, int(ttl.Seconds())), nil
}

func (s *fakeStorage) Delete(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	return nil
}

func (s *fakeStorage) List(ctx context.Context, prefix string) ([]models.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StoredObject
	for k, v := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, models.StoredObject{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

type sentEmail struct {
	toEmail, subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendEmail(toName, toEmail, subject, textContent, htmlContent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{toEmail: toEmail, subject: subject})
	return m.err
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
}

var errTest = errors.New("connection reset")
