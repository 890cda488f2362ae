package mailxses

import (
	"context"
	"errors"

	"github.com/Abraxas-365/sesrelay/pkg/mailx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// SendRawEmailAPI is the SES operation this provider uses. *ses.Client satisfies it.
type SendRawEmailAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SESProvider implements mailx.RawSender using the SES SendRawEmail operation.
type SESProvider struct {
	client SendRawEmailAPI
}

// NewSESProvider creates a new SES raw email provider.
func NewSESProvider(client SendRawEmailAPI) *SESProvider {
	return &SESProvider{client: client}
}

// SendRawEmail submits raw as a single message. When SES answers with an
// HTTP error the status is returned without an error; failures that never
// produced a response are returned as errors.
func (p *SESProvider) SendRawEmail(ctx context.Context, raw mailx.RawEmail) (mailx.SendResult, error) {
	input := &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: raw.Data},
		Destinations: raw.Destinations,
	}
	if raw.From != "" {
		input.Source = aws.String(raw.From)
	}
	if raw.ConfigurationSet != "" {
		input.ConfigurationSetName = aws.String(raw.ConfigurationSet)
	}

	out, err := p.client.SendRawEmail(ctx, input)
	if err != nil {
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) && respErr.HTTPStatusCode() != 0 {
			return mailx.SendResult{StatusCode: respErr.HTTPStatusCode()}, nil
		}
		return mailx.SendResult{}, sesErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("destinations", raw.Destinations)
	}

	status, ok := statusCode(out.ResultMetadata)
	if !ok {
		return mailx.SendResult{MessageID: aws.ToString(out.MessageId)}, sesErrors.New(ErrNoResponse)
	}

	return mailx.SendResult{
		MessageID:  aws.ToString(out.MessageId),
		StatusCode: status,
	}, nil
}

func statusCode(md middleware.Metadata) (int, bool) {
	resp, ok := awsmiddleware.GetRawResponse(md).(*smithyhttp.Response)
	if !ok || resp == nil || resp.Response == nil {
		return 0, false
	}
	return resp.StatusCode, true
}

var _ mailx.RawSender = (*SESProvider)(nil)
