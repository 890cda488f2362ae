// cmd/container.go
//
// Composition root. Owns the AWS clients, the attachment store and the email
// provider, and wires them into the HTTP handlers.
package main

import (
	"context"

	"github.com/Abraxas-365/sesrelay/pkg/config"
	"github.com/Abraxas-365/sesrelay/pkg/fsx"
	"github.com/Abraxas-365/sesrelay/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/sesrelay/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/sesrelay/pkg/logx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx/mailxapi"
	"github.com/Abraxas-365/sesrelay/pkg/mailx/mailxconsole"
	"github.com/Abraxas-365/sesrelay/pkg/mailx/mailxses"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// Container holds the process-wide, read-only dependencies.
type Container struct {
	Config *config.Config

	// Infrastructure
	FileStore fsx.FileReader
	SESClient *ses.Client
	S3Client  *s3.Client

	// Email
	Provider      mailx.RawSender
	EmailService  mailx.EmailService
	EmailHandlers *mailxapi.Handlers
}

func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initFileStore(ctx)
	c.initProvider(ctx)
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure
// ---------------------------------------------------------------------------

func (c *Container) loadAWSConfig(ctx context.Context, region string) aws.Config {
	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(region),
	}

	ec := c.Config.AWSEmail
	if ec.AccessKeyID != "" && ec.SecretAccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ec.AccessKeyID, ec.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logx.Fatalf("Unable to load AWS SDK config: %v", err)
	}
	return awsCfg
}

func (c *Container) initFileStore(ctx context.Context) {
	sc := c.Config.Storage

	switch sc.Mode {
	case "s3":
		c.S3Client = s3.NewFromConfig(c.loadAWSConfig(ctx, sc.Region))
		c.FileStore = fsxs3.NewS3FileSystem(c.S3Client, sc.Bucket, sc.Prefix)
		logx.Infof("  ✅ S3 attachment store configured (bucket: %s, region: %s)", sc.Bucket, sc.Region)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(sc.Root)
		if err != nil {
			logx.Fatalf("Failed to initialize local attachment store: %v", err)
		}
		c.FileStore = localFS
		logx.Infof("  ✅ Local attachment store configured (root: %s)", localFS.BasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", sc.Mode)
	}
}

func (c *Container) initProvider(ctx context.Context) {
	ec := c.Config.AWSEmail

	switch ec.Provider {
	case "console":
		c.Provider = mailxconsole.NewConsoleProvider()
		logx.Info("  ✅ Console email provider configured (emails are logged, not sent)")

	default:
		c.SESClient = ses.NewFromConfig(c.loadAWSConfig(ctx, ec.Region), func(o *ses.Options) {
			if ec.Endpoint != "" {
				o.BaseEndpoint = aws.String(ec.Endpoint)
			}
		})
		c.Provider = mailxses.NewSESProvider(c.SESClient)
		logx.Infof("  ✅ SES email provider configured (region: %s, sender: %s)", ec.Region, ec.Sender)
	}
}

// ---------------------------------------------------------------------------
// Modules
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	service := mailx.NewService(c.Provider, c.FileStore, c.Config.AWSEmail.Sender)
	if set := c.Config.AWSEmail.ConfigurationSet; set != "" {
		service = service.WithDefaults(mailx.WithConfigurationSet(set))
	}
	c.EmailService = service
	c.EmailHandlers = mailxapi.NewHandlers(c.EmailService)
}
