package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestErrorAbortsWithMessageBody(t *testing.T) {
	r := gin.New()
	reached := false
	r.GET("/", func(c *gin.Context) {
		Error(c, http.StatusForbidden, "nope", nil)
	}, func(c *gin.Context) { reached = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusForbidden, w.Code)
	require.False(t, reached)
	require.JSONEq(t, `{"message":"nope"}`, w.Body.String())
}

func TestErrorDefaultsToBadRequest(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		Error(c, 0, "bad", map[string]string{"name": "is required"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bad", body.Message)
	require.Equal(t, map[string]interface{}{"name": "is required"}, body.Details)
}

func TestMessageMergesExtra(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		Message(c, http.StatusCreated, "done", gin.H{"team": gin.H{"name": "Acme"}})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{"message":"done","team":{"name":"Acme"}}`, w.Body.String())
}
