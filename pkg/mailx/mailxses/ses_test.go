package mailxses_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/Abraxas-365/sesrelay/pkg/errx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx/mailxses"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `<SendRawEmailResponse xmlns="http://ses.amazonaws.com/doc/2010-12-01/">
  <SendRawEmailResult><MessageId>0100-abc</MessageId></SendRawEmailResult>
  <ResponseMetadata><RequestId>req-1</RequestId></ResponseMetadata>
</SendRawEmailResponse>`

const rejectedBody = `<ErrorResponse xmlns="http://ses.amazonaws.com/doc/2010-12-01/">
  <Error><Type>Sender</Type><Code>MessageRejected</Code><Message>Email address is not verified.</Message></Error>
  <RequestId>req-2</RequestId>
</ErrorResponse>`

// fakeHTTP answers every SES call with a canned response and keeps the form it received.
type fakeHTTP struct {
	status int
	body   string
	err    error
	form   url.Values
}

func (f *fakeHTTP) Do(req *http.Request) (*http.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	f.form, _ = url.ParseQuery(string(payload))

	return &http.Response{
		StatusCode: f.status,
		Header:     http.Header{"Content-Type": {"text/xml"}},
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Request:    req,
	}, nil
}

func newProvider(h *fakeHTTP) *mailxses.SESProvider {
	client := ses.New(ses.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String("https://email.test"),
		HTTPClient:   h,
		Credentials:  aws.AnonymousCredentials{},
		Retryer:      aws.NopRetryer{},
	})
	return mailxses.NewSESProvider(client)
}

func TestSESProvider_OK(t *testing.T) {
	h := &fakeHTTP{status: http.StatusOK, body: okBody}
	p := newProvider(h)

	res, err := p.SendRawEmail(context.Background(), mailx.RawEmail{
		From:             "noreply@x.com",
		Destinations:     []string{"a@x.com", "b@x.com"},
		Data:             []byte("Subject: hi\r\n\r\nbody"),
		ConfigurationSet: "transactional",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "0100-abc", res.MessageID)

	assert.Equal(t, "SendRawEmail", h.form.Get("Action"))
	assert.Equal(t, "noreply@x.com", h.form.Get("Source"))
	assert.Equal(t, "a@x.com", h.form.Get("Destinations.member.1"))
	assert.Equal(t, "b@x.com", h.form.Get("Destinations.member.2"))
	assert.Equal(t, "transactional", h.form.Get("ConfigurationSetName"))

	data, err := base64.StdEncoding.DecodeString(h.form.Get("RawMessage.Data"))
	require.NoError(t, err)
	assert.Equal(t, "Subject: hi\r\n\r\nbody", string(data))
}

func TestSESProvider_RejectedReturnsStatus(t *testing.T) {
	p := newProvider(&fakeHTTP{status: http.StatusBadRequest, body: rejectedBody})

	res, err := p.SendRawEmail(context.Background(), mailx.RawEmail{
		Destinations: []string{"a@x.com"},
		Data:         []byte("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Empty(t, res.MessageID)
}

func TestSESProvider_TransportFailureIsError(t *testing.T) {
	p := newProvider(&fakeHTTP{err: errors.New("dial tcp: connection refused")})

	_, err := p.SendRawEmail(context.Background(), mailx.RawEmail{
		Destinations: []string{"a@x.com"},
		Data:         []byte("x"),
	})
	require.Error(t, err)

	e, ok := errx.As(err)
	require.True(t, ok)
	assert.Equal(t, mailxses.ErrSendFailed.Code, e.Code)
}

type recordingAPI struct {
	input *ses.SendRawEmailInput
}

func (r *recordingAPI) SendRawEmail(_ context.Context, in *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	r.input = in
	return &ses.SendRawEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSESProvider_OmitsEmptyOptionalFields(t *testing.T) {
	api := &recordingAPI{}
	p := mailxses.NewSESProvider(api)

	res, err := p.SendRawEmail(context.Background(), mailx.RawEmail{Data: []byte("x")})
	// no raw HTTP response in metadata from a hand-built output
	require.Error(t, err)
	assert.Equal(t, "m-1", res.MessageID)

	require.NotNil(t, api.input)
	assert.Nil(t, api.input.Source)
	assert.Nil(t, api.input.ConfigurationSetName)
	assert.Equal(t, []byte("x"), api.input.RawMessage.Data)
}
