package input

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/funktionslust/boxbulk"
	"github.com/funktionslust/boxbulk/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

// S3Scheme is the scheme of bulk sources stored in S3, e.g. "s3://bucket/path/to/folders.csv".
const S3Scheme = "s3"

// S3InputConfig represents the S3Input configurable fields model.
type S3InputConfig struct {
	AwsCfg *aws.Config
	// Bucket is used to check the connection on setup. Optional.
	Bucket string
}

// NewS3Input returns a new instance of the S3Input.
func NewS3Input(cfg S3InputConfig) *S3Input {
	return &S3Input{
		Cfg: cfg,
	}
}

// S3Input represents an input that reads bulk sources from AWS S3 buckets.
type S3Input struct {
	boxbulk.BaseStorage
	Cfg  S3InputConfig
	sess *session.Session
}

// Setup creates the S3 session. If a bucket is configured, it checks whether the config is
// proper by performing a simple S3 API call.
func (i *S3Input) Setup() error {
	sess, err := session.NewSession(i.Cfg.AwsCfg)
	if err != nil {
		return fmt.Errorf("failed to create a new s3 session: %v", err)
	}
	i.sess = sess
	if i.Cfg.Bucket == "" {
		return nil
	}
	_, err = s3.New(sess).HeadBucketWithContext(i.Context, &s3.HeadBucketInput{Bucket: aws.String(i.Cfg.Bucket)})
	if err != nil {
		return fmt.Errorf("ping s3 query error: %v", err)
	}
	return nil
}

// Open downloads the object located at "s3://bucket/key".
func (i *S3Input) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, key := utils.SplitLocation(path)
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return nil, fmt.Errorf("%w: %s doesn't point to an object", boxbulk.ErrFileNotFound, path)
	}
	i.Logger.Info("s3 download start", zap.String("bucket", bucket), zap.String("key", key))
	buff := &aws.WriteAtBuffer{}
	_, err := s3manager.NewDownloader(i.sess).DownloadWithContext(ctx, buff, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", boxbulk.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to download a bulk source from S3: %v", err)
	}
	i.Logger.Info("s3 download end", zap.String("key", key), zap.Int("bytes", len(buff.Bytes())))
	return io.NopCloser(bytes.NewReader(buff.Bytes())), nil
}

// isNotFound reports whether the S3 error means the object or the bucket doesn't exist.
func isNotFound(err error) bool {
	aerr, ok := err.(awserr.Error)
	if !ok {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
		return true
	}
	return false
}
