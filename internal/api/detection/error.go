package detection

import (
	"VisionAPI/pkg/response"
	"net/http"
)

var (
	ErrInvalidBody       = response.NewError(response.KindValidation, http.StatusBadRequest, "invalid JSON in the request body")
	ErrMissingFields     = response.NewError(response.KindValidation, http.StatusBadRequest, "missing required fields")
	ErrInvalidFields     = response.NewError(response.KindValidation, http.StatusBadRequest, "invalid request fields")
	ErrBucketNotAllowed  = response.NewError(response.KindAuthorization, http.StatusForbidden, "bucket is not allowed")
	ErrImageNotFound     = response.NewError(response.KindNotFound, http.StatusBadRequest, "image not found")
	ErrEmptyGeneration   = response.NewError(response.KindUpstream, http.StatusBadGateway, "generative service returned no content")
	ErrRouteNotFound     = response.NewError(response.KindNotFound, http.StatusNotFound, "route not found")
	ErrNotConfigured     = response.NewError(response.KindConfiguration, http.StatusInternalServerError, "service is not configured")
	ErrInternalServerErr = response.NewError(response.KindInternal, http.StatusInternalServerError, "internal server error")
)
