package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(CodeOK))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeBadRequest))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(CodeTimeout))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(12345))
}

func TestErrorDefaultsAndOverrides(t *testing.T) {
	assert.Equal(t, "Not Found", Error(CodeNotFound, "").Msg)
	assert.Equal(t, "gone", Error(CodeNotFound, "gone").Msg)
	assert.Equal(t, struct{}{}, OK(nil).Data)
}

func TestAbortWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, CodeUnauthorized, "missing token")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeUnauthorized, body.Code)
	assert.Equal(t, "missing token", body.Msg)
}
