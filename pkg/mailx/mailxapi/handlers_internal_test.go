package mailxapi

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispositionFileName(t *testing.T) {
	name, err := dispositionFileName(`form-data; name="file"; filename="q1 report.pdf"`)
	require.NoError(t, err)
	assert.Equal(t, "q1 report.pdf", name)

	_, err = dispositionFileName(`form-data; name="file"; filename="a.pdf"; filename="b.pdf"`)
	assert.Error(t, err)

	_, err = dispositionFileName(`form-data; name`)
	assert.Error(t, err)
}

func TestErrorHandler_MalformedDispositionIsServerError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/upload", func(c *fiber.Ctx) error {
		if _, err := dispositionFileName(`form-data; name`); err != nil {
			return apiErrors.NewWithCause(ErrUploadRead, err).WithDetail("reason", "malformed content-disposition")
		}
		return errors.New("disposition unexpectedly parsed")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/upload", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), ErrUploadRead.Code)
}
