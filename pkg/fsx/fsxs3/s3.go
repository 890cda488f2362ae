package fsxs3

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/Abraxas-365/sesrelay/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ObjectAPI is the subset of the S3 client used to read attachments.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3FileSystem implements fsx.FileReader over a bucket. Paths map to object
// keys under an optional prefix.
type S3FileSystem struct {
	client ObjectAPI
	bucket string
	prefix string
}

// NewS3FileSystem creates a reader for bucket, scoping keys under prefix
func NewS3FileSystem(client ObjectAPI, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		return nil, fs.translate(p, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fsx.ReadFailed(p, err)
	}
	return data, nil
}

func (fs *S3FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	out, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		return fsx.FileInfo{}, fs.translate(p, err)
	}

	info := fsx.FileInfo{
		Name: path.Base(fs.key(p)),
		Size: aws.ToInt64(out.ContentLength),
	}
	if out.LastModified != nil {
		info.ModTime = *out.LastModified
	}
	return info, nil
}

func (fs *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := fs.Stat(ctx, p)
	if err != nil {
		if fsx.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// HealthCheck checks the bucket exists and is readable with the current credentials
func (fs *S3FileSystem) HealthCheck(ctx context.Context) error {
	_, err := fs.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(fs.bucket),
	})
	if err != nil {
		return fsx.Unavailable("s3://"+fs.bucket, err)
	}
	return nil
}

func (fs *S3FileSystem) key(p string) string {
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if fs.prefix == "" {
		return clean
	}
	return fs.prefix + "/" + clean
}

func (fs *S3FileSystem) translate(p string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fsx.NotFound(p)
		}
	}
	return fsx.ReadFailed(p, err)
}

var _ fsx.FileReader = (*S3FileSystem)(nil)
