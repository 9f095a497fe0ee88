package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/assert"

	"origiganics/api/internal/models"
	"origiganics/api/internal/security"
)

func TestSessionStateAndExtend(t *testing.T) {
	router, store, _, cfg := newTestRouter()

	hash, err := security.HashPassword("pa55word-long")
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, store.Create(context.Background(), models.User{
		ID:            "cust-1",
		Email:         "jane@example.com",
		PasswordHash:  hash,
		Role:          models.UserRoleCustomer,
		EmailVerified: true,
	}))

	token, err := security.IssueSessionToken(cfg.Security.CustomerJWTSecret,
		"cust-1", "jane@example.com", string(models.UserRoleCustomer), cfg.Security.CustomerTokenTTL)
	assert.Equal(t, nil, err)

	get := func(path string, bearer string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		router.ServeHTTP(w, req)
		return w
	}

	// No bearer token, no session state.
	assert.Equal(t, http.StatusUnauthorized, get("/api/v1/auth/session", "").Code)

	// A fresh session reads as active before any tracked request.
	w := get("/api/v1/auth/session", token)
	assert.Equal(t, http.StatusOK, w.Code)
	var stateResp struct {
		State string `json:"state"`
	}
	assert.Equal(t, nil, json.NewDecoder(w.Body).Decode(&stateResp))
	assert.Equal(t, "active", stateResp.State)

	// Tracked requests count as activity; state stays active.
	assert.Equal(t, http.StatusOK, get("/api/v1/auth/me", token).Code)
	w = get("/api/v1/auth/session", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, nil, json.NewDecoder(w.Body).Decode(&stateResp))
	assert.Equal(t, "active", stateResp.State)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/session/extend", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, nil, json.NewDecoder(w.Body).Decode(&stateResp))
	assert.Equal(t, "active", stateResp.State)
}
