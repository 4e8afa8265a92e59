package detection

import (
	"VisionAPI/pkg/response"
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// RequestValidator turns raw request bodies into typed requests. It has no
// side effects; every failure is a *response.Error.
type RequestValidator struct {
	validate *validator.Validate
	allowed  map[string]struct{}
}

// NewRequestValidator builds a validator. An empty allow-list accepts every
// bucket.
func NewRequestValidator(v *validator.Validate, allowedBuckets []string) *RequestValidator {
	if v == nil {
		v = validator.New()
	}
	v.RegisterTagNameFunc(JSONTagName)

	allowed := make(map[string]struct{}, len(allowedBuckets))
	for _, b := range allowedBuckets {
		b = strings.TrimSpace(b)
		if b != "" {
			allowed[b] = struct{}{}
		}
	}

	return &RequestValidator{
		validate: v,
		allowed:  allowed,
	}
}

// JSONTagName makes validator report fields by their JSON name.
func JSONTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func (r *RequestValidator) DetectionRequest(body []byte) (DetectionRequest, error) {
	var req DetectionRequest
	if err := r.decode(body, &req); err != nil {
		return DetectionRequest{}, err
	}

	if err := r.check(req); err != nil {
		return DetectionRequest{}, err
	}

	if !r.BucketAllowed(req.Bucket) {
		return DetectionRequest{}, ErrBucketNotAllowed
	}

	return req, nil
}

func (r *RequestValidator) GenerateRequest(body []byte) (GenerateRequest, error) {
	var req GenerateRequest
	if err := r.decode(body, &req); err != nil {
		return GenerateRequest{}, err
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := r.check(req); err != nil {
		return GenerateRequest{}, err
	}

	return req, nil
}

func (r *RequestValidator) BucketAllowed(bucket string) bool {
	if len(r.allowed) == 0 {
		return true
	}
	_, ok := r.allowed[bucket]
	return ok
}

func (r *RequestValidator) decode(body []byte, dst interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	if err := jsonCodec.Unmarshal(body, dst); err != nil {
		return response.Wrap(ErrInvalidBody, err)
	}

	return nil
}

func (r *RequestValidator) check(req interface{}) error {
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return response.Wrap(ErrInvalidFields, err)
	}

	var missing, invalid []string
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if fe.Tag() == "required" {
			missing = append(missing, field)
			details[field] = fmt.Sprintf("field '%s' is required", field)
			continue
		}
		invalid = append(invalid, field)
		details[field] = describe(fe)
	}

	if len(missing) > 0 {
		msg := fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", "))
		return response.WithDetails(ErrMissingFields, msg, details)
	}

	msg := fmt.Sprintf("invalid field(s): %s", strings.Join(invalid, ", "))
	return response.WithDetails(ErrInvalidFields, msg, details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of [%s]", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field '%s' failed '%s' validation", fe.Field(), fe.Tag())
	}
}
