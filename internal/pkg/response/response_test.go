package response

import (
	"Zuno/internal/service"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, map[string]int{"n": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "error")
	assert.Equal(t, map[string]any{"n": float64(1)}, body["data"])
}

func TestErrorMapsSentinel(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{service.ErrContentNotFound, http.StatusNotFound, service.KindNotFound},
		{service.ErrPrivateContent, http.StatusForbidden, service.KindForbidden},
		{service.ErrAlreadyFollowing, http.StatusConflict, service.KindConflict},
		{service.ErrInvalidFeedMode, http.StatusBadRequest, service.KindValidation},
		{fmt.Errorf("wrapped: %w", service.ErrDuplicateReport), http.StatusConflict, service.KindConflict},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, service.KindInternal},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Error(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, tc.kind, body["error"])
		assert.Equal(t, tc.err.Error(), body["message"])
	}
}
