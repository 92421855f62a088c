package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNew(t *testing.T) {
	a, err := New("test-password", []byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if string(a.hash) == "test-password" {
		t.Error("expected password to be hashed")
	}
	if a.ttl != time.Hour {
		t.Errorf("expected ttl 1h, got %v", a.ttl)
	}
}

func TestNew_Defaults(t *testing.T) {
	a, err := New("pw", nil, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(a.secret) != 32 {
		t.Errorf("expected a random 32 byte secret, got %d bytes", len(a.secret))
	}
	if a.ttl != SessionExpiry {
		t.Errorf("expected default ttl, got %v", a.ttl)
	}

	if _, err := New("", nil, 0); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestGeneratePassword_Format(t *testing.T) {
	pw := GeneratePassword()

	parts := strings.Split(pw, "-")
	if len(parts) != 3 {
		t.Errorf("expected 3 words separated by dashes, got %d parts: %s", len(parts), pw)
	}

	for _, part := range parts {
		found := false
		for _, word := range prizeWords {
			if part == word {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("word %q not in prizeWords list", part)
		}
	}
}

func TestGeneratePassword_Randomness(t *testing.T) {
	passwords := make(map[string]bool)
	for i := 0; i < 10; i++ {
		passwords[GeneratePassword()] = true
	}
	if len(passwords) < 3 {
		t.Errorf("expected more password variety, got only %d unique passwords", len(passwords))
	}
}

func TestLogin_ValidPassword(t *testing.T) {
	a := MustNew("correct-password")

	token, err := a.Login("correct-password")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("expected a JWT, got %q", token)
	}
	if !a.ValidateSession(token) {
		t.Error("expected fresh token to be valid")
	}
}

func TestLogin_InvalidPassword(t *testing.T) {
	a := MustNew("correct-password")

	token, err := a.Login("wrong-password")
	if err != ErrInvalidPassword {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
	if token != "" {
		t.Error("expected no token for invalid password")
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	a := MustNew("pw")
	token, _ := a.Login("pw")
	other, _ := a.Login("pw")

	a.Logout(token)

	if a.ValidateSession(token) {
		t.Error("expected token to be invalid after logout")
	}
	if !a.ValidateSession(other) {
		t.Error("expected other sessions to stay valid")
	}

	// Garbage is ignored
	a.Logout("not-a-token")
}

func TestValidateSession_Expired(t *testing.T) {
	a, _ := New("pw", []byte("secret"), time.Minute)
	start := time.Now()
	a.now = func() time.Time { return start }

	token, _ := a.Login("pw")
	a.now = func() time.Time { return start.Add(2 * time.Minute) }

	if a.ValidateSession(token) {
		t.Error("expected expired token to be invalid")
	}
}

func TestValidateSession_Tampered(t *testing.T) {
	a, _ := New("pw", []byte("secret-a"), time.Hour)
	b, _ := New("pw", []byte("secret-b"), time.Hour)

	token, _ := b.Login("pw")
	if a.ValidateSession(token) {
		t.Error("expected token signed with another secret to be rejected")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   adminSubject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if a.ValidateSession(unsigned) {
		t.Error("expected unsigned token to be rejected")
	}
}

func TestLogout_PrunesExpiredRevocations(t *testing.T) {
	a, _ := New("pw", []byte("secret"), time.Minute)
	start := time.Now()
	a.now = func() time.Time { return start }

	old, _ := a.Login("pw")
	a.Logout(old)

	a.now = func() time.Time { return start.Add(90 * time.Second) }
	fresh, _ := a.Login("pw")
	a.Logout(fresh)

	if len(a.revoked) != 1 {
		t.Errorf("expected expired revocation pruned, %d remain", len(a.revoked))
	}
}

func TestRequireAuthAPI(t *testing.T) {
	a := MustNew("pw")
	token, _ := a.Login("pw")

	handler := a.RequireAuthAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no credentials", func(r *http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"bad cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "x"}) }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/lottery/draw", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.status == http.StatusUnauthorized && !strings.Contains(w.Body.String(), "UNAUTHORIZED") {
				t.Errorf("expected UNAUTHORIZED body, got %s", w.Body.String())
			}
		})
	}
}

func TestSessionCookies(t *testing.T) {
	a, _ := New("pw", nil, time.Hour)

	w := httptest.NewRecorder()
	a.SetSessionCookie(w, "tok")
	c := w.Result().Cookies()[0]
	if c.Name != CookieName || c.Value != "tok" || !c.HttpOnly || c.MaxAge != 3600 {
		t.Errorf("unexpected session cookie: %+v", c)
	}

	w = httptest.NewRecorder()
	ClearSessionCookie(w)
	c = w.Result().Cookies()[0]
	if c.MaxAge >= 0 {
		t.Errorf("expected expired cookie, got MaxAge %d", c.MaxAge)
	}
}
