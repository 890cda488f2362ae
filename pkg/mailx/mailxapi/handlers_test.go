package mailxapi_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Abraxas-365/sesrelay/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/sesrelay/pkg/logx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx/mailxapi"
	"github.com/Abraxas-365/sesrelay/pkg/mailx/mailxtest"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app  *fiber.App
	stub *mailxtest.StubSender
	dir  string
	logs *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logs := &bytes.Buffer{}
	logx.SetOutput(logs)
	t.Cleanup(func() { logx.SetOutput(os.Stdout) })

	dir := t.TempDir()
	files, err := fsxlocal.NewLocalFileSystem(dir)
	require.NoError(t, err)

	stub := mailxtest.NewStubSender()
	app := fiber.New(fiber.Config{ErrorHandler: mailxapi.ErrorHandler})
	mailxapi.NewHandlers(mailx.NewService(stub, files, "noreply@x.com")).RegisterRoutes(app)

	return &harness{app: app, stub: stub, dir: dir, logs: logs}
}

func (h *harness) do(t *testing.T, req *http.Request) (int, string) {
	t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func testEmailRequest(recipient string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/api/email?recipient="+url.QueryEscape(recipient), nil)
}

func uploadRequest(t *testing.T, to string, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if to != "" {
		require.NoError(t, w.WriteField("to", to))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/email/attachment", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func filePathRequest(to, filePath string) *http.Request {
	form := url.Values{}
	if to != "" {
		form.Set("to", to)
	}
	if filePath != "" {
		form.Set("filePath", filePath)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/email/attachment/filepath", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSplitRecipients(t *testing.T) {
	cases := map[string][]string{
		"a@x.com":                 {"a@x.com"},
		"a@x.com;b@x.com":         {"a@x.com", "b@x.com"},
		"b@x.com;a@x.com;b@x.com": {"b@x.com", "a@x.com", "b@x.com"},
	}
	for in, want := range cases {
		assert.Equal(t, want, mailxapi.SplitRecipients(in), in)
	}
}

func TestSendTestEmail_PassesRecipientsInOrder(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, testEmailRequest("b@x.com;a@x.com;b@x.com"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "true", body)

	require.Equal(t, 1, h.stub.Calls())
	raw := h.stub.Last()
	assert.Equal(t, []string{"b@x.com", "a@x.com", "b@x.com"}, raw.Destinations)

	parsed := mailxtest.Parse(t, raw.Data)
	assert.Equal(t, "Test Email", parsed.Header.Get("Subject"))
	assert.Equal(t, "<html><head><title>SES Email</title></head><body>Test Email from SES</body></html>", parsed.Body)
}

func TestSendTestEmail_MissingRecipient(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, httptest.NewRequest(http.MethodGet, "/api/email", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "false", body)
	assert.Zero(t, h.stub.Calls())
}

func TestAttachmentStream_MissingTo(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, uploadRequest(t, "", "report.csv", "1,2,3"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "false", body)
	assert.Zero(t, h.stub.Calls())
}

func TestAttachmentStream_SendsUpload(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, uploadRequest(t, "a@x.com;b@x.com", "report.csv", "1,2,3"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "true", body)

	require.Equal(t, 1, h.stub.Calls())
	parsed := mailxtest.Parse(t, h.stub.Last().Data)
	assert.Equal(t, "1,2,3", string(parsed.Attachments["report.csv"]))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, h.stub.Last().Destinations)
}

func TestSendTestEmail_LogsMessageIDAndRecipients(t *testing.T) {
	h := newHarness(t)
	h.stub.MessageID = "0100-xyz"

	status, body := h.do(t, testEmailRequest("a@x.com;b@x.com"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "true", body)

	logs := h.logs.String()
	assert.Contains(t, logs, "INFO")
	assert.Contains(t, logs, "The email with message id 0100-xyz sent successfully to a@x.com, b@x.com")
}

func TestAttachmentStream_MissingFile(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, uploadRequest(t, "a@x.com", "", ""))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, mailxapi.ErrMissingFile.Code)
	assert.Zero(t, h.stub.Calls())
}

func TestAttachmentPath_MissingTo(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, filePathRequest("", "report.pdf"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "false", body)
	assert.Zero(t, h.stub.Calls())
}

func TestAttachmentPath_SendsFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "report.pdf"), []byte("%PDF"), 0o644))

	status, body := h.do(t, filePathRequest("a@x.com", "report.pdf"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "true", body)

	parsed := mailxtest.Parse(t, h.stub.Last().Data)
	assert.Equal(t, "%PDF", string(parsed.Attachments["report.pdf"]))
}

func TestAttachmentPath_UnknownFileIsNotFound(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do(t, filePathRequest("a@x.com", "missing.pdf"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Zero(t, h.stub.Calls())
}

func TestEndpoints_ReflectProviderStatus(t *testing.T) {
	requests := map[string]func(t *testing.T, dir string) *http.Request{
		"test email": func(*testing.T, string) *http.Request { return testEmailRequest("a@x.com") },
		"stream": func(t *testing.T, _ string) *http.Request {
			return uploadRequest(t, "a@x.com", "a.txt", "hello")
		},
		"path": func(t *testing.T, dir string) *http.Request {
			require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
			return filePathRequest("a@x.com", "a.txt")
		},
	}

	for name, build := range requests {
		t.Run(name+"/ok", func(t *testing.T) {
			h := newHarness(t)
			_, body := h.do(t, build(t, h.dir))
			assert.Equal(t, "true", body)
			assert.Equal(t, 1, h.stub.Calls())
		})

		t.Run(name+"/rejected", func(t *testing.T) {
			h := newHarness(t)
			h.stub.Status = http.StatusBadRequest

			_, body := h.do(t, build(t, h.dir))
			assert.Equal(t, "false", body)
			assert.Equal(t, 1, h.stub.Calls())
			assert.Contains(t, h.logs.String(), "ERROR")
		})
	}
}
