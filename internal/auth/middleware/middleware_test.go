package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseflow/quiz-service/internal/rbac"
)

func TestTokenRoundTrip(t *testing.T) {
	a := NewAuthService("test-secret")

	tok, err := a.IssueJWT("alice", "instructor")
	require.NoError(t, err)

	claims, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Sub)
	assert.Equal(t, "instructor", claims.Role)
	assert.Equal(t, "courseflow-quiz", claims.Issuer)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	tok, err := NewAuthService("secret-a").IssueJWT("alice", "student")
	require.NoError(t, err)

	_, err = NewAuthService("secret-b").Parse(tok)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret")
	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no bearer token")

	tok, err := a.IssueJWT("bob", "ta")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", gotSub)
	assert.Equal(t, "ta", gotRole)
}

func TestLoginDevFallback(t *testing.T) {
	a := NewAuthService("test-secret")
	h := LoginHandler(a, "admin", "$2a$10$invalidhashfortest")

	login := func(username, password, role string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"username": username, "password": password, "role": role})
		req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := login("carol", "carol", "student")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	claims, err := a.Parse(resp["access_token"])
	require.NoError(t, err)
	assert.Equal(t, "carol", claims.Sub)
	assert.Equal(t, "student", claims.Role)

	assert.Equal(t, http.StatusUnauthorized, login("carol", "wrong", "student").Code)
	assert.Equal(t, http.StatusUnauthorized, login("carol", "carol", "admin").Code, "admin role cannot be self-claimed")
}
