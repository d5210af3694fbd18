package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/portfolio/:username", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, name := range []string{"ada", "charles"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/portfolio/"+name, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/portfolio/:username", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestEventMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEventMetrics(reg)
	m.Inc("profile.events", "profile.updated", OutcomeProcessed)
	m.Inc("profile.events", "", OutcomeSkipped)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.consumed.WithLabelValues("profile.events", "profile.updated", OutcomeProcessed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.consumed.WithLabelValues("profile.events", "unknown", OutcomeSkipped)))
}

func TestNilRegistererIsSafe(t *testing.T) {
	var events *EventMetrics
	events.Inc("t", "e", OutcomeFailed)
	NewEventMetrics(nil).Inc("t", "e", OutcomeFailed)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewHTTPMetrics(nil).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
