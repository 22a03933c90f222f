package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"registration_backend/internal/app/di"
	"registration_backend/internal/feature/registration/domain/entity"
	"registration_backend/internal/feature/registration/transport/http/dto"
	"registration_backend/internal/platform/db"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database", "users.db")
	reg := di.NewRegistration(db.Config{Driver: db.DriverSQLite, Path: path}, nil, 0, bcrypt.MinCost)
	return NewRouter(reg.Register, reg.Users, reg.Store, Options{}), path
}

func register(r http.Handler, form url.Values) (*httptest.ResponseRecorder, dto.RegisterRes) {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res dto.RegisterRes
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func countUsers(t *testing.T, path string) int64 {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var n int64
	require.NoError(t, gdb.Model(&entity.User{}).Count(&n).Error)
	return n
}

func aliceForm() url.Values {
	return url.Values{
		"username": {"alice"},
		"name":     {"Alice Smith"},
		"gender":   {"female"},
		"password": {"secret1"},
	}
}

func TestRegisterThenDuplicate(t *testing.T) {
	r, path := newTestServer(t)

	w, res := register(r, aliceForm())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, res.Success)
	assert.Equal(t, uint(1), res.UserID)
	assert.Equal(t, int64(1), countUsers(t, path))

	w, res = register(r, aliceForm())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, res.Success)
	assert.Equal(t, "Username already exists. Please choose a different username.", res.Message)
	assert.Equal(t, int64(1), countUsers(t, path))
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	r, path := newTestServer(t)

	w, _ := register(r, aliceForm())
	require.Equal(t, http.StatusCreated, w.Code)

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := gdb.DB()
	defer sqlDB.Close()

	var u entity.User
	require.NoError(t, gdb.Where("username = ?", "alice").First(&u).Error)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
}

func TestRegisterValidationFailureWritesNothing(t *testing.T) {
	r, path := newTestServer(t)

	form := aliceForm()
	form.Del("gender")
	w, res := register(r, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", res.Message)
	assert.Equal(t, []string{"Gender is required"}, res.Errors)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "validation failure must not create the data file")
}

func TestRegisterRejectsNonPostWithoutTouchingStorage(t *testing.T) {
	r, path := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestUsersPage(t *testing.T) {
	r, path := newTestServer(t)

	t.Run("empty before first registration", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No users registered yet.")
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "listing must not create the data file")
	})

	t.Run("markup in stored fields is sanitized and escaped", func(t *testing.T) {
		form := aliceForm()
		form.Set("name", "<script>alert(1)</script>Alice")
		w, _ := register(r, form)
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.NotContains(t, body, "<script>alert(1)</script>")
		assert.Contains(t, body, "alice")
		assert.Contains(t, body, "Total Users:")
	})

	t.Run("entity-encoded markup is not rebuilt", func(t *testing.T) {
		form := aliceForm()
		form.Set("username", "mallory")
		form.Set("name", "&lt;script&gt;alert(1)&lt;/script&gt;Mallory")
		w, _ := register(r, form)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		require.NoError(t, err)
		sqlDB, _ := gdb.DB()
		defer sqlDB.Close()

		var u entity.User
		require.NoError(t, gdb.Where("username = ?", "mallory").First(&u).Error)
		assert.Equal(t, "Mallory", u.Name)
	})

	t.Run("text with angle brackets is stored as is and escaped on render", func(t *testing.T) {
		form := aliceForm()
		form.Set("username", "carol")
		form.Set("name", "a < b & c")
		w, _ := register(r, form)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "a &lt; b &amp; c")
		assert.NotContains(t, body, "a < b & c")
	})
}

func TestConcurrentFirstRegistrations(t *testing.T) {
	const rounds, workers = 5, 8

	for round := range rounds {
		r, path := newTestServer(t)

		var wg sync.WaitGroup
		codes := make(chan int, workers)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				form := aliceForm()
				form.Set("username", fmt.Sprintf("user_%d", i))
				w, _ := register(r, form)
				codes <- w.Code
			}()
		}
		wg.Wait()
		close(codes)

		for code := range codes {
			assert.Equal(t, http.StatusCreated, code, "round %d", round)
		}
		assert.Equal(t, int64(workers), countUsers(t, path), "round %d", round)
	}
}

func TestHealthz(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"empty"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
