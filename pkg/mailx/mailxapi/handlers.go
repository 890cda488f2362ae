// Package mailxapi exposes the mailer over HTTP.
package mailxapi

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Abraxas-365/sesrelay/pkg/mailx"
	"github.com/gofiber/fiber/v2"
)

const (
	// RoutePrefix is where the email routes are mounted.
	RoutePrefix = "/api/email"

	testSubject = "Test Email"
	testBody    = "Test Email from SES"
)

// Handlers serves the test-email endpoints. None of them require authentication.
type Handlers struct {
	service mailx.EmailService
}

// NewHandlers creates handlers backed by service.
func NewHandlers(service mailx.EmailService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the email routes under RoutePrefix.
func (h *Handlers) RegisterRoutes(router fiber.Router) {
	email := router.Group(RoutePrefix)
	email.Get("", h.SendTestEmail)
	email.Post("/attachment", h.SendWithAttachmentStream)
	email.Post("/attachment/filepath", h.SendWithAttachmentPath)
}

// SplitRecipients splits a ';'-joined recipient string. Order and empty
// entries are kept; nothing is deduplicated.
func SplitRecipients(s string) []string {
	return strings.Split(s, ";")
}

// SendTestEmail handles GET /api/email?recipient=a@x.com;b@x.com
func (h *Handlers) SendTestEmail(c *fiber.Ctx) error {
	recipient := c.Query("recipient")
	if recipient == "" {
		return c.JSON(false)
	}

	status, err := h.service.SendEmail(c.UserContext(), SplitRecipients(recipient), testSubject, testBody)
	if err != nil {
		return err
	}
	return c.JSON(status == http.StatusOK)
}

// SendWithAttachmentStream handles a multipart upload with fields "to" and "file".
func (h *Handlers) SendWithAttachmentStream(c *fiber.Ctx) error {
	to := c.FormValue("to")
	if to == "" {
		return c.JSON(false)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apiErrors.NewWithCause(ErrMissingFile, err)
	}

	fileName, err := dispositionFileName(fh.Header.Get(fiber.HeaderContentDisposition))
	if err != nil {
		return apiErrors.NewWithCause(ErrUploadRead, err).WithDetail("reason", "malformed content-disposition")
	}

	f, err := fh.Open()
	if err != nil {
		return apiErrors.NewWithCause(ErrUploadRead, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return apiErrors.NewWithCause(ErrUploadRead, err)
	}

	status, err := h.service.SendEmailWithAttachmentStream(c.UserContext(), SplitRecipients(to), testSubject, testBody, fileName, &buf)
	if err != nil {
		return err
	}
	return c.JSON(status == http.StatusOK)
}

// SendWithAttachmentPath handles a form with fields "to" and "filePath". The
// path is passed on as given.
func (h *Handlers) SendWithAttachmentPath(c *fiber.Ctx) error {
	to := c.FormValue("to")
	if to == "" {
		return c.JSON(false)
	}

	status, err := h.service.SendEmailWithAttachmentPath(c.UserContext(), SplitRecipients(to), testSubject, testBody, c.FormValue("filePath"))
	if err != nil {
		return err
	}
	return c.JSON(status == http.StatusOK)
}

func dispositionFileName(header string) (string, error) {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(params["filename"]), nil
}
