package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mist/db"
	"mist/models"
)

func sessionCookieFrom(t *testing.T, w interface{ Result() *http.Response }) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	setupTestDB(t)
	r := newRouter()

	w := doRequest(t, r, http.MethodPost, "/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "alice", resp["username"])
	assert.NotContains(t, resp, "password")

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie, "registration should start a session")
	assert.True(t, cookie.HttpOnly)

	// the stored password is a bcrypt hash, never the plaintext
	var user models.User
	require.NoError(t, db.DB.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.NotEqual(t, "secret123", user.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	r := newRouter()

	body := gin.H{"username": "alice", "email": "alice@example.com", "password": "secret123"}
	w := doRequest(t, r, http.MethodPost, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodPost, "/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)
	r := newRouter()

	cases := []gin.H{
		{"username": "al", "email": "alice@example.com", "password": "secret123"},
		{"username": "alice", "email": "not-an-email", "password": "secret123"},
		{"username": "alice", "email": "alice@example.com", "password": "short"},
	}
	for _, body := range cases {
		w := doRequest(t, r, http.MethodPost, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestLogin(t *testing.T) {
	setupTestDB(t)
	r := newRouter()

	w := doRequest(t, r, http.MethodPost, "/register", gin.H{
		"username": "bob", "email": "bob@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodPost, "/login", gin.H{
		"email": "bob@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, sessionCookieFrom(t, w))

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "bob", resp["username"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	setupTestDB(t)
	r := newRouter()

	w := doRequest(t, r, http.MethodPost, "/register", gin.H{
		"username": "bob", "email": "bob@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// wrong password and unknown account get the same answer
	w = doRequest(t, r, http.MethodPost, "/login", gin.H{
		"email": "bob@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/login", gin.H{
		"email": "nobody@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	setupTestDB(t)
	r := newRouter()

	w := doRequest(t, r, http.MethodGet, "/me", nil, authCookie(t, 7, "carol"))
	require.Equal(t, http.StatusOK, w.Code)

	var me models.AuthUser
	decodeBody(t, w, &me)
	assert.Equal(t, uint(7), me.ID)
	assert.Equal(t, "carol", me.Username)
}

func TestLogoutClearsCookie(t *testing.T) {
	setupTestDB(t)
	r := newRouter()

	w := doRequest(t, r, http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
