package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	auth "github.com/mind-engage/quizengine/internal/auth/middleware"
	"github.com/mind-engage/quizengine/internal/rbac"
)

/* ---------------- tokens ---------------- */

func TestIssueAndParse(t *testing.T) {
	a := auth.NewAuthService("secret")
	tok, err := a.IssueJWT("ada", "learner")
	if err != nil {
		t.Fatal(err)
	}
	c, err := a.Parse(tok)
	if err != nil || c.Sub != "ada" || c.Role != "learner" {
		t.Fatalf("claims = %+v, %v", c, err)
	}
	if _, err := auth.NewAuthService("other").Parse(tok); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
	if _, err := a.Parse("not-a-token"); err == nil {
		t.Fatal("garbage parsed")
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := auth.NewAuthService("secret")
	var sub, role string
	h := auth.JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, role = auth.SubjectFromContext(r.Context()), rbac.RoleFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no bearer: %d", rec.Code)
	}

	tok, _ := a.IssueJWT("ada", "author")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || sub != "ada" || role != "author" {
		t.Fatalf("code=%d sub=%q role=%q", rec.Code, sub, role)
	}
}

/* ---------------- login ---------------- */

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := auth.NewAuthService("secret")
	h := auth.LoginHandler(a, "author", string(hash))

	cases := []struct {
		name, body string
		want       int
	}{
		{"ok", `{"username":"author","password":"s3cret"}`, http.StatusOK},
		{"bad password", `{"username":"author","password":"nope"}`, http.StatusUnauthorized},
		{"bad user", `{"username":"eve","password":"s3cret"}`, http.StatusUnauthorized},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body)))
			if rec.Code != tc.want {
				t.Fatalf("code = %d, want %d", rec.Code, tc.want)
			}
			if tc.want != http.StatusOK {
				return
			}
			var out struct {
				AccessToken string `json:"access_token"`
			}
			_ = json.NewDecoder(rec.Body).Decode(&out)
			c, err := a.Parse(out.AccessToken)
			if err != nil || c.Role != "author" {
				t.Fatalf("issued claims = %+v, %v", c, err)
			}
		})
	}

	rec := httptest.NewRecorder()
	auth.LoginHandler(a, "author", "").ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"author","password":""}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login without a configured hash: %d", rec.Code)
	}
}

/* ---------------- guest ---------------- */

func TestGuestLoginKeepsIdentity(t *testing.T) {
	a := auth.NewAuthService("secret")
	h := auth.GuestLoginHandler(a, true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !strings.HasPrefix(cookies[0].Value, "guest|") {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/guest", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out struct {
		AccessToken string `json:"access_token"`
		Subject     string `json:"subject"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Subject != cookies[0].Value {
		t.Fatalf("subject = %q, want %q", out.Subject, cookies[0].Value)
	}
	if c, err := a.Parse(out.AccessToken); err != nil || c.Role != "learner" {
		t.Fatalf("claims = %+v, %v", c, err)
	}

	forged := httptest.NewRequest(http.MethodPost, "/auth/guest", nil)
	forged.AddCookie(&http.Cookie{Name: cookies[0].Name, Value: "guest|admin"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, forged)
	_ = json.NewDecoder(rec.Body).Decode(&out)
	if out.Subject == "guest|admin" {
		t.Fatal("malformed guest cookie was reused")
	}
}

func TestGuestLoginDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.GuestLoginHandler(auth.NewAuthService("s"), false).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d", rec.Code)
	}
}
