package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedAudit struct {
	userID, action, resource, resourceID string
}

type fakeAuditWriter struct {
	records chan recordedAudit
}

func (f *fakeAuditWriter) WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error {
	f.records <- recordedAudit{userID: userID, action: action, resource: resource, resourceID: resourceID}
	return nil
}

func TestAuditMiddlewareRecordsRequest(t *testing.T) {
	writer := &fakeAuditWriter{records: make(chan recordedAudit, 1)}

	app := fiber.New()
	app.Use(AuditMiddleware(writer))
	app.Get("/things", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case rec := <-writer.records:
		assert.Equal(t, "anonymous", rec.userID)
		assert.Equal(t, "http_request", rec.action)
		assert.Equal(t, "/things", rec.resourceID)
	case <-time.After(2 * time.Second):
		t.Fatal("audit record never written")
	}
}
