package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafidmahmud/safepoint/internal/config"
	httpx "github.com/rafidmahmud/safepoint/internal/http"
	"github.com/rafidmahmud/safepoint/internal/repo/memory"
	"github.com/rafidmahmud/safepoint/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	uploads, err := storage.NewUploads(t.TempDir())

	if err != nil {
		t.Fatalf("uploads init: %v", err)
	}

	cfg := config.Config{
		Env:            "dev",
		BcryptCost:     4,
		MaxUploadBytes: 1 << 20,
		CacheTTL:       50 * time.Millisecond,
	}

	log := slog.New(slog.DiscardHandler)

	return httpx.NewRouter(log, cfg, httpx.RouterDeps{
		Users:   memory.NewUsersRepo(),
		Admins:  memory.NewAdminsRepo(),
		Uploads: uploads,
	})
}

func do(t *testing.T, r *gin.Engine, method, path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()

	if body == nil {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func doJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	return do(t, r, http.MethodPost, path, "application/json", bytes.NewBufferString(body))
}

const userBody = `{
	"email": "a@x.com",
	"username": "a",
	"first_name": "A",
	"last_name": "B",
	"password": "secret1",
	"country": "BD"
}`

func TestUserLifecycle(t *testing.T) {
	r := newTestServer(t)

	if w := doJSON(t, r, "/register-user", userBody); w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	// registering the same email again is a distinct conflict, not a 500
	if w := doJSON(t, r, "/register-user", userBody); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, "/login-user", `{"email": "a@x.com", "password": "secret1"}`); w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, "/login-user", `{"email": "a@x.com", "password": "wrong"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password login: %d", w.Code)
	}

	// profile comes back with the submitted fields and no credential
	w := doJSON(t, r, "/user-data", `{"email": "a@x.com"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("user-data: %d %s", w.Code, w.Body.String())
	}

	var profile map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("bad json: %v", err)
	}

	if profile["username"] != "a" || profile["country"] != "BD" {
		t.Errorf("profile fields: %v", profile)
	}

	if strings.Contains(strings.ToLower(w.Body.String()), "password") {
		t.Errorf("credential leaked: %s", w.Body.String())
	}

	// password change invalidates the old secret
	if w := doJSON(t, r, "/change-password-user", `{"email": "a@x.com", "newPassword": "secret2"}`); w.Code != http.StatusOK {
		t.Fatalf("change password: %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, "/login-user", `{"email": "a@x.com", "password": "secret2"}`); w.Code != http.StatusOK {
		t.Fatalf("login with new password: %d", w.Code)
	}

	if w := doJSON(t, r, "/login-user", `{"email": "a@x.com", "password": "secret1"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("login with old password: %d", w.Code)
	}
}

func TestAdminLifecycle(t *testing.T) {
	r := newTestServer(t)

	mk := func(adminType string) string {
		return `{
			"email": "ops@x.com",
			"username": "station-12",
			"admin_type": "` + adminType + `",
			"country": "BD",
			"thana": "Dhanmondi",
			"password": "secret1"
		}`
	}

	// one email may register once per service category
	if w := doJSON(t, r, "/register-admin", mk("police")); w.Code != http.StatusOK {
		t.Fatalf("police register: %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, "/register-admin", mk("hospital")); w.Code != http.StatusOK {
		t.Fatalf("hospital register: %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, "/register-admin", mk("police")); w.Code != http.StatusConflict {
		t.Fatalf("duplicate pair register: %d", w.Code)
	}

	// each record is independently retrievable under its own key
	for _, adminType := range []string{"police", "hospital"} {
		w := doJSON(t, r, "/admin-data", `{"email": "ops@x.com", "admin_type": "`+adminType+`"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("%s admin-data: %d %s", adminType, w.Code, w.Body.String())
		}

		var profile map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
			t.Fatalf("bad json: %v", err)
		}

		if profile["admin_type"] != adminType {
			t.Errorf("got admin_type %v, want %s", profile["admin_type"], adminType)
		}
	}

	if w := doJSON(t, r, "/login-admin", `{"email": "ops@x.com", "password": "secret1", "admin_type": "police"}`); w.Code != http.StatusOK {
		t.Fatalf("admin login: %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, "/login-admin", `{"email": "ops@x.com", "password": "secret1", "admin_type": "fire_service"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("unregistered service type login: %d", w.Code)
	}
}

func TestImageUploadRoundTrip(t *testing.T) {
	r := newTestServer(t)

	if w := doJSON(t, r, "/register-user", userBody); w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("email", "a@x.com")
	fw, _ := mw.CreateFormFile("image", "face.png")
	_, _ = fw.Write([]byte("png-bytes"))
	_ = mw.Close()

	if w := do(t, r, http.MethodPost, "/upload-image-user", mw.FormDataContentType(), buf); w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}

	// the profile now carries the generated path and the bytes are served there
	w := doJSON(t, r, "/user-data", `{"email": "a@x.com"}`)

	var profile struct {
		Image *string `json:"image"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("bad json: %v", err)
	}

	if profile.Image == nil {
		t.Fatal("image path missing from profile")
	}

	served := do(t, r, http.MethodGet, *profile.Image, "", nil)

	if served.Code != http.StatusOK || served.Body.String() != "png-bytes" {
		t.Fatalf("serving %s: %d %q", *profile.Image, served.Code, served.Body.String())
	}

	// an upload without an image part clears the field again
	buf = &bytes.Buffer{}
	mw = multipart.NewWriter(buf)
	_ = mw.WriteField("email", "a@x.com")
	_ = mw.Close()

	if w := do(t, r, http.MethodPost, "/upload-image-user", mw.FormDataContentType(), buf); w.Code != http.StatusOK {
		t.Fatalf("clearing upload: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, "/user-data", `{"email": "a@x.com"}`)

	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("bad json: %v", err)
	}

	if profile.Image != nil {
		t.Errorf("image should be cleared, got %q", *profile.Image)
	}
}

func TestJSONRoutesRejectOtherContentTypes(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodPost, "/login-user", "text/plain", bytes.NewBufferString("email=a"))

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("got status %d, want 415", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestServer(t)

	if w := do(t, r, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}

	if w := do(t, r, http.MethodGet, "/readyz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("readyz: %d", w.Code)
	}
}
