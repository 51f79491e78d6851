package middleware

import (
	"kpi_tracker_backend/internal/config"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
)

func TestAuthMiddleware(t *testing.T) {
	is := is.New(t)
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s3cret", ExpireTime: time.Hour}}

	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, id)
	})

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	token, err := util.GenerateJWT(&model.User{UUIDBase: model.UUIDBase{ID: "user-1"}, Email: "a@example.com"}, cfg.JWT.Secret, time.Hour)
	is.NoErr(err)

	w := serve("Bearer " + token)
	is.Equal(w.Code, http.StatusOK)
	is.Equal(w.Body.String(), "user-1")

	req := httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	is.Equal(w.Code, http.StatusOK)

	is.Equal(serve("").Code, http.StatusUnauthorized)
	is.Equal(serve(token).Code, http.StatusUnauthorized) // missing Bearer prefix

	other, err := util.GenerateJWT(&model.User{UUIDBase: model.UUIDBase{ID: "user-1"}}, "another-secret", time.Hour)
	is.NoErr(err)
	is.Equal(serve("Bearer "+other).Code, http.StatusUnauthorized)

	expired, err := util.GenerateJWT(&model.User{UUIDBase: model.UUIDBase{ID: "user-1"}}, cfg.JWT.Secret, -time.Minute)
	is.NoErr(err)
	is.Equal(serve("Bearer "+expired).Code, http.StatusUnauthorized)
}
