package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue returns the counter sample of the named family whose labels match.
func counterValue(t *testing.T, r *Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := r.registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] == pair.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("no %s sample with labels %v", name, labels)

	return 0
}

func TestRegistry_ObserveCheckout(t *testing.T) {
	r := NewRegistry()

	r.ObserveCheckout("success", 20*time.Millisecond)
	r.ObserveCheckout("success", 30*time.Millisecond)
	r.ObserveCheckout("STOCK_SHORTFALL", 5*time.Millisecond)
	r.AddItemsSold(3)
	r.AddItemsSold(0)

	assert.InDelta(t, 2, counterValue(t, r, "storefront_checkout_attempts_total", map[string]string{"outcome": "success"}), 0)
	assert.InDelta(t, 1, counterValue(t, r, "storefront_checkout_attempts_total", map[string]string{"outcome": "STOCK_SHORTFALL"}), 0)
	assert.InDelta(t, 3, counterValue(t, r, "storefront_checkout_items_sold_total", nil), 0)
}

func TestRegistry_MiddlewareAndHandler(t *testing.T) {
	r := NewRegistry()

	e := echo.New()
	e.Use(r.Middleware())
	e.GET("/products/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/metrics", echo.WrapHandler(r.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.InDelta(t, 1, counterValue(t, r, "storefront_http_requests_total", map[string]string{
		"method": http.MethodGet,
		"path":   "/products/:id",
		"status": "204",
	}), 0)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
