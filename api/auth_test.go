package api

import (
	"net/http"
	"testing"

	"invoicing/middleware"
	"invoicing/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Email: email, Password: string(hash)}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestAuthHandler_Login(t *testing.T) {
	db := setupSQLiteDB(t)
	user := createUser(t, db, "nick@example.com", "password123")

	cfg := testConfig()
	middleware.InitJWT(cfg)

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := doRequest(router, "POST", "/login", `{"email":"Nick@Example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := responseData(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "nick@example.com", claims.Email)

	// the password hash never leaves the server
	assert.NotContains(t, w.Body.String(), user.Password)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	db := setupSQLiteDB(t)
	createUser(t, db, "nick@example.com", "password123")

	router := gin.New()
	router.POST("/login", NewAuthHandler(testConfig()).Login)

	w := doRequest(router, "POST", "/login", `{"email":"nick@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}))

	router := gin.New()
	router.POST("/login", NewAuthHandler(testConfig()).Login)

	w := doRequest(router, "POST", "/login", `{"email":"ghost@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_InvalidBody(t *testing.T) {
	router := gin.New()
	router.POST("/login", NewAuthHandler(testConfig()).Login)

	w := doRequest(router, "POST", "/login", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "POST", "/login", `{"email":"nick@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	router := gin.New()
	router.POST("/logout", NewAuthHandler(testConfig()).Logout)

	w := doRequest(router, "POST", "/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthHandler_GetProfile(t *testing.T) {
	db := setupSQLiteDB(t)
	user := createUser(t, db, "nick@example.com", "password123")

	router := gin.New()
	router.Use(setUserIDMiddleware(user.ID))
	router.GET("/profile", NewAuthHandler(testConfig()).GetProfile)

	w := doRequest(router, "GET", "/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nick@example.com", responseData(t, w)["email"])

	other := gin.New()
	other.Use(setUserIDMiddleware(999))
	other.GET("/profile", NewAuthHandler(testConfig()).GetProfile)
	assert.Equal(t, http.StatusNotFound, doRequest(other, "GET", "/profile", "").Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	db := setupSQLiteDB(t)
	user := createUser(t, db, "nick@example.com", "password123")

	router := gin.New()
	router.Use(setUserIDMiddleware(user.ID))
	router.PUT("/password", NewAuthHandler(testConfig()).ChangePassword)

	w := doRequest(router, "PUT", "/password", `{"old_password":"wrong","new_password":"newpassword1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, "PUT", "/password", `{"old_password":"password123","new_password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "PUT", "/password", `{"old_password":"password123","new_password":"newpassword1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpassword1")))
}
