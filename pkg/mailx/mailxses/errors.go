package mailxses

import (
	"net/http"

	"github.com/Abraxas-365/sesrelay/pkg/errx"
)

var sesErrors = errx.NewRegistry("MAILX_SES")

var (
	ErrSendFailed = sesErrors.Register("SEND_FAILED", errx.TypeExternal, http.StatusBadGateway, "SES raw send failed")
	ErrNoResponse = sesErrors.Register("NO_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "SES returned no HTTP response")
)
