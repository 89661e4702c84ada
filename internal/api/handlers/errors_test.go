package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(err error) (int, utils.APIResponse) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, utils.DiscardLogger(), err)

	var body utils.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestRespondError(t *testing.T) {
	code, body := respond(apperr.Validation("understanding must be between 1 and 5", "understanding"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, body.Success)
	assert.Equal(t, "understanding must be between 1 and 5", body.Message)
	assert.Equal(t, []string{"understanding"}, body.Fields)

	code, body = respond(apperr.Persistence("Failed to save interaction", errors.New("disk I/O error")))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to save interaction", body.Message)
	require.Empty(t, body.Error)

	code, body = respond(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Message)
}
