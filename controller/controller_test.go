package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pmdashboard/apperr"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found", apperr.New(apperr.CodeNotFound, "task 9 not found"), http.StatusNotFound, "NOT_FOUND", "task 9 not found"},
		{"wrapped conflict", fmt.Errorf("update: %w", apperr.ErrConflict), http.StatusConflict, "CONFLICT", apperr.ErrConflict.What},
		{"storage hides cause", apperr.Wrap(apperr.CodeStorageFailure, "storage failure", errors.New("dial tcp")), http.StatusInternalServerError, "STORAGE_FAILURE", "storage failure"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "", "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
			if tt.code == "" {
				assert.NotContains(t, body, "code")
			} else {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, raw := range []string{"0", "-3", "x"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, ok := ParamID(c, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := ParamID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, 42, id)
}

func TestVersion(t *testing.T) {
	v := 3
	assert.Equal(t, 3, Version(&v))
	assert.Equal(t, services.AnyVersion, Version(nil))
}
