package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/quotes/:id", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/quotes/:id", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/quotes/:id", "GET", "NOT_FOUND")

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.Requests["GET /api/quotes/:id|200"])
	assert.InDelta(t, 20.0, s.AvgMillis["GET /api/quotes/:id|200"], 0.001)
	assert.Equal(t, int64(1), s.Errors["GET /api/quotes/:id|NOT_FOUND"])

	var nilMetrics *Metrics
	nilMetrics.RecordRequest("/", "GET", 200, 0)
	assert.Empty(t, nilMetrics.Snapshot().Requests)
}

func TestRequestLogger_RecordsRouteTemplate(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendString(c.Params("id"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "42", string(body))

	assert.Equal(t, int64(1), m.Snapshot().Requests["GET /items/:id|200"])
}
