package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName    = "prizedraw_session"
	SessionExpiry = 12 * time.Hour
	adminSubject  = "admin"
)

// ErrInvalidPassword is returned by Login for a wrong password
var ErrInvalidPassword = errors.New("invalid password")

// Prize-themed words for password generation
var prizeWords = []string{
	"lucky", "ticket", "prize", "jackpot", "golden",
	"ribbon", "trophy", "raffle", "drum", "confetti",
	"lantern", "banner", "medal", "winner", "draw",
	"fortune", "spark", "gala", "cheer",
}

// Auth handles admin authentication with signed session tokens
type Auth struct {
	hash    []byte
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	revoked map[string]time.Time // jti -> token expiry
	mu      sync.Mutex
}

// New creates an Auth for password. An empty secret gets a random one,
// which invalidates sessions on restart. A zero ttl uses SessionExpiry.
func New(password string, secret []byte, ttl time.Duration) (*Auth, error) {
	if password == "" {
		return nil, errors.New("admin password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	if ttl <= 0 {
		ttl = SessionExpiry
	}
	return &Auth{
		hash:    hash,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

// MustNew is New with a random secret that panics on error
func MustNew(password string) *Auth {
	a, err := New(password, nil, 0)
	if err != nil {
		panic(err)
	}
	return a
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = prizeWords[randomInt(len(prizeWords))]
	}
	return strings.Join(words, "-")
}

// Login validates the password and returns a signed session token if valid
func (a *Auth) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	now := a.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Logout revokes a session token. Invalid tokens are ignored.
func (a *Auth) Logout(token string) {
	claims, err := a.parse(token)
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.revoked[claims.ID] = claims.ExpiresAt.Time
	a.pruneLocked()
}

// ValidateSession checks if a session token is valid
func (a *Auth) ValidateSession(token string) bool {
	claims, err := a.parse(token)
	if err != nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, revoked := a.revoked[claims.ID]
	return !revoked
}

func (a *Auth) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// pruneLocked drops revocations for tokens that have expired anyway
func (a *Auth) pruneLocked() {
	now := a.now()
	for id, exp := range a.revoked {
		if now.After(exp) {
			delete(a.revoked, id)
		}
	}
}

// TokenFromRequest returns the bearer token or the session cookie value
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// GetSessionFromRequest extracts and validates the session from a request
func (a *Auth) GetSessionFromRequest(r *http.Request) bool {
	token := TokenFromRequest(r)
	return token != "" && a.ValidateSession(token)
}

// RequireAuthAPI middleware for API endpoints (returns 401)
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.GetSessionFromRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// TTLSeconds returns the session lifetime in seconds
func (a *Auth) TTLSeconds() int {
	return int(a.ttl.Seconds())
}

// SetSessionCookie sets the session cookie on the response
func (a *Auth) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   a.TTLSeconds(),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// randomInt returns a uniform random int in [0, max)
func randomInt(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}
	return int(n.Int64())
}
