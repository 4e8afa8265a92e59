package config

import (
	"VisionAPI/internal/api/detection"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(detection.JSONTagName)
	return v
}
