package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainrush/internal/auth"
	"brainrush/internal/model"
)

func TestJSONWritesBodyAndContentType(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestErrorWritesErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, http.StatusBadRequest, "Not enough coins")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not enough coins", body["error"])
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid object", body: `{"username":"alice","password":"secret123"}`, wantErr: false},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed json", body: `{"username":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var v struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			err := Decode(r, &v)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadJSON)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "alice", v.Username)
			}
		})
	}
}

func TestAuthTokenExtraction(t *testing.T) {
	a := NewAuth(auth.NewTokenManager("test-secret", time.Hour), nil)

	t.Run("from cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
		assert.Equal(t, "cookie-token", a.token(r))
	})

	t.Run("from bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "header-token", a.token(r))
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
		r.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "cookie-token", a.token(r))
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, a.token(r))
	})
}

func TestRequireUserRejectsMissingOrBadToken(t *testing.T) {
	a := NewAuth(auth.NewTokenManager("test-secret", time.Hour), nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.RequireUser(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		a.RequireUser(next).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewTokenManager("other-secret", time.Hour)
		token, err := other.Mint(1, "alice", model.RoleUser)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		a.RequireUser(next).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	a := NewAuth(auth.NewTokenManager("test-secret", time.Hour), nil)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withUser := func(r *http.Request, user *model.User) *http.Request {
		return r.WithContext(context.WithValue(r.Context(), userContextKey, user))
	}

	t.Run("admin passes", func(t *testing.T) {
		r := withUser(httptest.NewRequest(http.MethodGet, "/", nil), &model.User{ID: 1, Role: model.RoleAdmin})
		rec := httptest.NewRecorder()
		a.RequireAdmin(okHandler).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		r := withUser(httptest.NewRequest(http.MethodGet, "/", nil), &model.User{ID: 2, Role: model.RoleUser})
		rec := httptest.NewRecorder()
		a.RequireAdmin(okHandler).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no user unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.RequireAdmin(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserFromContext(t *testing.T) {
	assert.Nil(t, UserFromContext(context.Background()))

	user := &model.User{ID: 7, Username: "bob"}
	ctx := context.WithValue(context.Background(), userContextKey, user)
	assert.Equal(t, user, UserFromContext(ctx))
}
