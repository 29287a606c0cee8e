// internal/handlers/order_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateOrderBodyBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOrderHandler(nil)

	r := gin.New()
	r.POST("/v1/orders", fakeAuth("user"), handler.CreateOrder)

	// A well-formed body missing a required field reports the field.
	req, _ := http.NewRequest("POST", "/v1/orders", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), "lines")

	// Malformed JSON is a plain bad request.
	req, _ = http.NewRequest("POST", "/v1/orders", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}
