package mailxconsole_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/Abraxas-365/sesrelay/pkg/logx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx/mailxconsole"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleProvider_AcceptsEverything(t *testing.T) {
	var buf bytes.Buffer
	logx.SetOutput(&buf)
	t.Cleanup(func() { logx.SetOutput(os.Stdout) })

	res, err := mailxconsole.NewConsoleProvider().SendRawEmail(context.Background(), mailx.RawEmail{
		From:         "noreply@x.com",
		Destinations: []string{"a@x.com"},
		Data:         []byte("Subject: hi\r\n\r\nbody"),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	_, err = uuid.Parse(res.MessageID)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), res.MessageID)
	assert.Contains(t, buf.String(), "a@x.com")
}
