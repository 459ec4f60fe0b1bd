package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/constants"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUsers map[uint64]*models.User

func (s stubUsers) GetUser(_ context.Context, id uint64) (*models.User, error) {
	if id == 500 {
		return nil, errors.New("connection reset")
	}
	u, ok := s[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return u, nil
}

func runDirectorGuard(t *testing.T, userID interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	users := stubUsers{
		1: {ID: 1, Name: "Dana", IsLeader: true, IsDirector: true},
		2: {ID: 2, Name: "Lee", IsLeader: true},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if userID != nil {
		c.Set(constants.ContextKeyUserID, userID)
	}
	RequireDirector(users)(c)
	return w, c
}

func TestRequireDirector(t *testing.T) {
	tests := []struct {
		name   string
		userID interface{}
		status int
	}{
		{"director passes", uint64(1), http.StatusOK},
		{"leader is forbidden", uint64(2), http.StatusForbidden},
		{"deleted user", uint64(3), http.StatusUnauthorized},
		{"no session", nil, http.StatusUnauthorized},
		{"lookup failure", uint64(500), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runDirectorGuard(t, tt.userID)
			require.Equal(t, tt.status, w.Code)
			require.Equal(t, tt.status != http.StatusOK, c.IsAborted())

			user, ok := GetCurrentUser(c)
			require.Equal(t, tt.status == http.StatusOK, ok)
			if ok {
				require.Equal(t, uint64(1), user.ID)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	require.False(t, ok)

	c.Set(constants.ContextKeyUserID, -1)
	_, ok = GetUserID(c)
	require.False(t, ok)

	c.Set(constants.ContextKeyUserID, 7)
	id, ok := GetUserID(c)
	require.True(t, ok)
	require.Equal(t, uint64(7), id)
}

func TestRequestLogger(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, tc := range []struct {
		path  string
		level logrus.Level
	}{
		{"/ok", logrus.InfoLevel},
		{"/missing", logrus.WarnLevel},
		{"/boom", logrus.ErrorLevel},
	} {
		hook.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

		entry := hook.LastEntry()
		require.NotNil(t, entry, tc.path)
		require.Equal(t, tc.level, entry.Level, tc.path)
		require.Equal(t, tc.path, entry.Data["path"])
	}
}
