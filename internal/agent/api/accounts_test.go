package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/agent/api"
)

func TestClient_CreateUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/create", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req api.CreateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, api.CreateUserRequest{Email: "a@example.com", Password: "secret1", Name: "Alice"}, req)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.User{Email: req.Email, Name: req.Name})
	})

	c := newTLSClient(t, mux)

	u, err := c.CreateUser("a@example.com", "secret1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, api.User{Email: "a@example.com", Name: "Alice"}, u)
}

func TestClient_Login(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid credentials"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(api.LoginResponse{Token: "tok-1"})
	})

	c := newTLSClient(t, mux)

	resp, err := c.Login("a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)

	_, err = c.Login("a@example.com", "wrong")
	assert.True(t, api.IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestClient_MeAndUpdateMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"unauthorized"}`)
			return
		}

		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(api.User{Email: "a@example.com", Name: "Alice"})
		case http.MethodPatch:
			var raw map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			// незаданные поля не уходят на сервер
			assert.Equal(t, map[string]any{"name": "Alicia"}, raw)
			_ = json.NewEncoder(w).Encode(api.User{Email: "a@example.com", Name: "Alicia"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	c := newTLSClient(t, mux)

	u, err := c.Me("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	name := "Alicia"
	u, err = c.UpdateMe("tok-1", api.UpdateMeRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.Name)

	_, err = c.Me("other")
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
}
