package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

const (
	ProductRequiredMessage  = "Product name is required."
	UnexpectedErrorMessage  = "Unexpected error while running Ad Agent pipeline."
	VideoJobNotFoundMessage = "Video job not found."
)

var ErrVideoJobNotFound = errors.New("video job not found")

var ErrVideoGenerationDisabled = errors.New("video generation is not configured")

// ValidationError is a client input problem; Status is the HTTP code to answer with.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewProductRequiredError() *ValidationError {
	return &ValidationError{Status: http.StatusBadRequest, Message: ProductRequiredMessage}
}

func NewProductTooLongError() *ValidationError {
	return &ValidationError{
		Status:  http.StatusUnprocessableEntity,
		Message: "Product name must be <= " + strconv.Itoa(MaxProductNameLength) + " characters.",
	}
}

// OrchestrationError is fatal to a pipeline run.
type OrchestrationError struct {
	Stage string
	Err   error
}

func (e *OrchestrationError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *OrchestrationError) Unwrap() error {
	return e.Err
}

func NewOrchestrationError(stage string, err error) *OrchestrationError {
	var existing *OrchestrationError
	if errors.As(err, &existing) {
		return existing
	}
	return &OrchestrationError{Stage: stage, Err: err}
}

// AssetError is a per-scene media failure. It never aborts a run.
type AssetError struct {
	SceneID string
	Kind    AssetKind
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.SceneID, e.Kind, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}
