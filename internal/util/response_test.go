package util

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
)

func TestHandleErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{ErrGoalNotFound, http.StatusNotFound},
		{ErrUpdateNotFound, http.StatusNotFound},
		{fmt.Errorf("goal not found or forbidden: %w", ErrPermissionDenied), http.StatusForbidden},
		{ErrNoTeam, http.StatusForbidden},
		{ErrNotLatestUpdate, http.StatusConflict},
		{ErrEmailRegistered, http.StatusConflict},
		{ErrInvalidDirection, http.StatusBadRequest},
		{ErrInvalidValue, http.StatusBadRequest},
		{ErrInvalidOwner, http.StatusBadRequest},
		{fmt.Errorf("%w: text/plain", ErrInvalidFileType), http.StatusBadRequest},
		{ErrInvalidLogin, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			is := is.New(t)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			HandleError(c, tc.err)
			is.Equal(w.Code, tc.want)
		})
	}
}
