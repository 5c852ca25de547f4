package assistant

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned when the inbound message is blank.
var ErrEmptyMessage = errors.New("message must not be empty")

// OffTopicError signals a gate rejection: the message is outside the
// data-validation domain. It maps to a client error, never to a retry.
type OffTopicError struct {
	Reason string
}

func (e *OffTopicError) Error() string {
	return fmt.Sprintf("off-topic request: %s", e.Reason)
}

// Stage identifies the pipeline stage where a generation failure happened.
type Stage string

const (
	StageCompletion Stage = "completion"
	StageNormalize  Stage = "normalize"
	StageValidate   Stage = "validate"
	StageReconcile  Stage = "reconcile"
)

// GenerationError is a pipeline-stage failure. Recoverable errors feed the
// single allowed retry; terminal ones surface to the caller immediately.
type GenerationError struct {
	Stage       Stage
	Message     string
	Recoverable bool
	Err         error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %s", e.Stage, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newRecoverable(stage Stage, message string, err error) *GenerationError {
	return &GenerationError{Stage: stage, Message: message, Recoverable: true, Err: err}
}

func newTerminal(stage Stage, message string, err error) *GenerationError {
	return &GenerationError{Stage: stage, Message: message, Err: err}
}
