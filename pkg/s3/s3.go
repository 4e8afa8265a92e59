package s3

import (
	"VisionAPI/internal/entity"
	"VisionAPI/pkg/awsclient"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	jsoniter "github.com/json-iterator/go"
)

const (
	serviceName = "s3"

	DefaultPresignExpiry = 15 * time.Minute
)

type ItfS3 interface {
	HeadObject(ctx context.Context, bucket string, key string) (entity.ObjectMeta, error)
	UploadObject(ctx context.Context, bucket string, key string, contentType string, body []byte) (string, error)
	PresignUrl(bucket string, key string, expiry time.Duration) (string, error)
	EnsurePublicBucket(ctx context.Context, bucket string, region string) (bool, error)
}

type s3Client struct {
	client   s3iface.S3API
	uploader s3manageriface.UploaderAPI
}

func New(sess *session.Session) ItfS3 {
	return NewWithClient(s3.New(sess))
}

func NewWithClient(client s3iface.S3API) ItfS3 {
	return &s3Client{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
	}
}

// HeadObject returns the object metadata. A missing object surfaces as a
// NotFound response error.
func (s *s3Client) HeadObject(ctx context.Context, bucket string, key string) (entity.ObjectMeta, error) {
	out, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return entity.ObjectMeta{}, awsclient.Classify(serviceName, err)
	}

	return entity.ObjectMeta{LastModified: aws.TimeValue(out.LastModified)}, nil
}

func (s *s3Client) UploadObject(ctx context.Context, bucket string, key string, contentType string, body []byte) (string, error) {
	uploadOutput, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(body),
	})
	if err != nil {
		return "", awsclient.Classify(serviceName, err)
	}

	return uploadOutput.Location, nil
}

func (s *s3Client) PresignUrl(bucket string, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(strings.TrimPrefix(key, "/")),
	})

	urlStr, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}

	return urlStr, nil
}

// EnsurePublicBucket creates the bucket when it does not exist yet and opens
// it for anonymous reads and writes. It reports whether the bucket was created.
func (s *s3Client) EnsurePublicBucket(ctx context.Context, bucket string, region string) (bool, error) {
	created := false

	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	switch {
	case err == nil:
	case isNotFound(err):
		input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
		if region != "" && region != "us-east-1" {
			input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
				LocationConstraint: aws.String(region),
			}
		}
		if _, err := s.client.CreateBucketWithContext(ctx, input); err != nil {
			return false, awsclient.Classify(serviceName, err)
		}
		created = true
	default:
		return false, awsclient.Classify(serviceName, err)
	}

	_, err = s.client.PutPublicAccessBlockWithContext(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(bucket),
		PublicAccessBlockConfiguration: &s3.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(false),
			IgnorePublicAcls:      aws.Bool(false),
			BlockPublicPolicy:     aws.Bool(false),
			RestrictPublicBuckets: aws.Bool(false),
		},
	})
	if err != nil {
		return created, awsclient.Classify(serviceName, err)
	}

	policy, err := PublicPolicy(bucket)
	if err != nil {
		return created, err
	}

	_, err = s.client.PutBucketPolicyWithContext(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucket),
		Policy: aws.String(policy),
	})
	if err != nil {
		return created, awsclient.Classify(serviceName, err)
	}

	return created, nil
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid       string   `json:"Sid"`
	Effect    string   `json:"Effect"`
	Principal string   `json:"Principal"`
	Action    []string `json:"Action"`
	Resource  string   `json:"Resource"`
}

// PublicPolicy renders the bucket policy granting anonymous GetObject and
// PutObject on every key.
func PublicPolicy(bucket string) (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Sid:       "PublicReadWrite",
			Effect:    "Allow",
			Principal: "*",
			Action:    []string{"s3:GetObject", "s3:PutObject"},
			Resource:  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
		}},
	}

	raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func isNotFound(err error) bool {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode() == http.StatusNotFound
	}
	return false
}
