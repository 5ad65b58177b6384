package snowflake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	var received loginRequest
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/session/v1/login-request", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"token": "session-token-123", "masterToken": "m"}, "success": true}`))
	}))
	defer s.Close()

	source := NewTokenSource(Options{Account: "acct", User: "alice", Password: "hunter2"})
	source.baseURL = s.URL

	token, err := source.SessionToken()
	require.NoError(t, err)
	assert.Equal(t, "session-token-123", token)
	assert.Equal(t, "acct", received.Data.AccountName)
	assert.Equal(t, "alice", received.Data.LoginName)
	assert.Equal(t, "hunter2", received.Data.Password)
}

func TestSessionTokenRejected(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": null, "success": false, "message": "Incorrect username or password was specified."}`))
	}))
	defer s.Close()

	source := NewTokenSource(Options{Account: "acct", User: "alice", Password: "wrong"})
	source.baseURL = s.URL

	_, err := source.SessionToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect username or password")
}
