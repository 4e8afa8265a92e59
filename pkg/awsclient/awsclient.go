package awsclient

import (
	"VisionAPI/pkg/response"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	HTTPTimeout     time.Duration
	MaxRetries      int
}

// NewSession uses static credentials when both keys are configured and falls
// back to the default provider chain (Lambda execution role) otherwise.
func NewSession(cfg Config) (*session.Session, error) {
	awsCfg := &aws.Config{
		Region:     aws.String(cfg.Region),
		MaxRetries: aws.Int(cfg.MaxRetries),
	}

	if cfg.HTTPTimeout > 0 {
		awsCfg.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// Classify converts an error returned by an AWS client into a typed
// response.Error. A RequestFailure means the service answered and refused the
// call; anything else never got a response from the service.
func Classify(service string, err error) error {
	if err == nil {
		return nil
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		return err
	}

	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		if reqErr.StatusCode() == http.StatusNotFound {
			return response.Wrap(
				response.NewError(response.KindNotFound, http.StatusBadRequest, fmt.Sprintf("%s resource not found", service)),
				err,
			)
		}
		return response.Wrap(
			response.NewError(response.KindUpstream, http.StatusBadGateway, fmt.Sprintf("%s rejected the request", service)),
			err,
		)
	}

	return response.Wrap(
		response.NewError(response.KindUpstream, http.StatusInternalServerError, fmt.Sprintf("%s request failed", service)),
		err,
	)
}
