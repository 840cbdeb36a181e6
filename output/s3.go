package output

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/funktionslust/boxbulk"
	"github.com/funktionslust/boxbulk/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

// S3Scheme is the scheme of report destinations in S3, e.g. "s3://bucket/reports".
const S3Scheme = "s3"

var contentTypes = map[boxbulk.ReportFormat]string{
	boxbulk.ReportFormatCSV:  "text/csv",
	boxbulk.ReportFormatJSON: "application/json",
}

// S3OutputConfig represents the S3Output configurable fields model.
type S3OutputConfig struct {
	AwsCfg *aws.Config
	// ACL is the canned ACL of uploaded reports. Optional.
	ACL string
}

// NewS3Output returns a new instance of the S3Output.
func NewS3Output(cfg S3OutputConfig) *S3Output {
	return &S3Output{
		Cfg: cfg,
	}
}

// S3Output represents an output that uploads reports to AWS S3 buckets.
type S3Output struct {
	boxbulk.BaseStorage
	Cfg  S3OutputConfig
	sess *session.Session
}

// Setup creates the S3 session.
func (o *S3Output) Setup() error {
	sess, err := session.NewSession(o.Cfg.AwsCfg)
	if err != nil {
		return fmt.Errorf("failed to create a new s3 session: %v", err)
	}
	o.sess = sess
	return nil
}

// Save uploads the report to "s3://bucket/prefix/{name}.{format}" where report.Dir is
// "s3://bucket/prefix".
func (o *S3Output) Save(ctx context.Context, report *boxbulk.Report) (string, error) {
	bucket, prefix := utils.SplitLocation(report.Dir)
	if bucket == "" {
		return "", fmt.Errorf("%w: %s lacks a bucket", boxbulk.ErrIO, report.Dir)
	}
	data, err := report.Encode()
	if err != nil {
		return "", fmt.Errorf("encode report: %v", err)
	}
	key := path.Join(prefix, report.FileName())
	input := &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypes[report.Format]),
	}
	if o.Cfg.ACL != "" {
		input.ACL = aws.String(o.Cfg.ACL)
	}
	o.Logger.Info("s3 upload start", zap.String("bucket", bucket), zap.String("key", key))
	if _, err := s3manager.NewUploader(o.sess).UploadWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("%w: failed to upload the report to S3: %v", boxbulk.ErrIO, err)
	}
	o.Logger.Info("s3 upload end", zap.String("key", key))
	return fmt.Sprintf("%s://%s/%s", S3Scheme, bucket, key), nil
}
