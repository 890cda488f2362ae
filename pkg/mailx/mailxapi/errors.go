package mailxapi

import (
	"errors"
	"net/http"

	"github.com/Abraxas-365/sesrelay/pkg/errx"
	"github.com/Abraxas-365/sesrelay/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

var apiErrors = errx.NewRegistry("MAILX_API")

var (
	ErrMissingFile = apiErrors.Register("MISSING_FILE", errx.TypeValidation, http.StatusBadRequest, "Multipart field 'file' is required")
	ErrUploadRead  = apiErrors.Register("UPLOAD_READ", errx.TypeInternal, http.StatusInternalServerError, "Failed to read uploaded file")
)

// ErrorHandler renders errors returned by handlers as JSON. errx errors keep
// their status; fiber errors keep theirs; anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	requestID := c.GetRespHeader(fiber.HeaderXRequestID)

	logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"ip":         c.IP(),
		"request_id": requestID,
	}).WithError(err).Error("Request error")

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errx.HTTPErrorResponse{
			Code:       "FIBER_ERROR",
			Message:    fe.Message,
			Type:       string(errx.TypeValidation),
			StatusCode: fe.Code,
			RequestID:  requestID,
		})
	}

	resp := errx.Response(err)
	resp.RequestID = requestID
	return c.Status(resp.StatusCode).JSON(resp)
}
