package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBucketsExhaust(t *testing.T) {
	b := newBuckets(2)

	assert.True(t, b.allow("1.2.3.4"))
	assert.True(t, b.allow("1.2.3.4"))
	assert.False(t, b.allow("1.2.3.4"))

	// other callers are unaffected
	assert.True(t, b.allow("5.6.7.8"))
}

func TestBucketsDefaultRate(t *testing.T) {
	b := newBuckets(0)
	assert.Equal(t, 60, b.capacity)
}

// The authn budget must run dry independently of, and before, the general one.
func TestAuthnBudgetIsTighterAndIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewLimiter(100, 2)

	r := gin.New()
	r.Use(l.General())
	r.POST("/signin", l.Authn(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit(http.MethodPost, "/signin"))
	assert.Equal(t, http.StatusOK, hit(http.MethodPost, "/signin"))
	assert.Equal(t, http.StatusTooManyRequests, hit(http.MethodPost, "/signin"))

	// the general budget still has room for the rest of the API
	assert.Equal(t, http.StatusOK, hit(http.MethodGet, "/users"))
}
