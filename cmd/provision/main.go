package main

import (
	"VisionAPI/internal/config"
	"VisionAPI/pkg/awsclient"
	"VisionAPI/pkg/envfile"
	"VisionAPI/pkg/log"
	"VisionAPI/pkg/s3"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type bucketProvisioner interface {
	EnsurePublicBucket(ctx context.Context, bucket string, region string) (bool, error)
}

type options struct {
	bucket  string
	region  string
	prefix  string
	envPath string
}

func main() {
	logger := log.NewLogger()
	if err := config.LoadEnv(); err != nil {
		logger.Fatalf("Error loading .env file: %v", err)
	}

	opts := options{}
	flag.StringVar(&opts.bucket, "bucket", os.Getenv("BUCKET_NAME"), "Bucket to create and open for public access")
	flag.StringVar(&opts.region, "region", os.Getenv("AWS_REGION"), "AWS region of the bucket")
	flag.StringVar(&opts.prefix, "dir", "myphotos/", "Key prefix recorded as VISION_S3_DIR")
	flag.StringVar(&opts.envPath, "env", ".env", "Env file that receives BUCKET_NAME and VISION_S3_DIR")
	flag.Parse()

	sess, err := awsclient.NewSession(awsclient.Config{
		Region:          opts.region,
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		MaxRetries:      config.DefaultMaxRetries,
	})
	if err != nil {
		logger.Fatalf("Failed to create AWS session: %v", err)
	}

	if err := provision(context.Background(), logger, s3.New(sess), opts); err != nil {
		logger.Fatal(err)
	}
}

func provision(ctx context.Context, logger *logrus.Logger, client bucketProvisioner, opts options) error {
	if opts.bucket == "" {
		return fmt.Errorf("bucket name is required (-bucket or BUCKET_NAME)")
	}
	if opts.region == "" {
		return fmt.Errorf("region is required (-region or AWS_REGION)")
	}

	created, err := client.EnsurePublicBucket(ctx, opts.bucket, opts.region)
	if err != nil {
		return fmt.Errorf("provision bucket %s: %w", opts.bucket, err)
	}

	logger.WithFields(logrus.Fields{
		"bucket":  opts.bucket,
		"region":  opts.region,
		"created": created,
	}).Info("Bucket is ready for public access")

	added, err := envfile.AppendMissing(opts.envPath, map[string]string{
		"BUCKET_NAME":   opts.bucket,
		"VISION_S3_DIR": opts.prefix,
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"file":  opts.envPath,
		"added": added,
	}).Info("Env file updated")

	return nil
}
