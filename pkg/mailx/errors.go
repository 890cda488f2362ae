package mailx

import (
	"net/http"

	"github.com/Abraxas-365/sesrelay/pkg/errx"
)

var mailxErrors = errx.NewRegistry("MAILX")

var (
	ErrNoRecipients   = mailxErrors.Register("NO_RECIPIENTS", errx.TypeValidation, http.StatusBadRequest, "At least one recipient is required")
	ErrAttachmentRead = mailxErrors.Register("ATTACHMENT_READ", errx.TypeInternal, http.StatusInternalServerError, "Failed to read attachment")
	ErrBuildMessage   = mailxErrors.Register("BUILD_MESSAGE", errx.TypeInternal, http.StatusInternalServerError, "Failed to build MIME message")
	ErrSendFailed     = mailxErrors.Register("SEND_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to send email")
)
