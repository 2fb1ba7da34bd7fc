package errors

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ResourceNotFoundError struct {
	resource string
	id       string
}

func NewJobNotFoundError(id uuid.UUID) *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: "job", id: id.String()}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.resource, e.id)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// PreconditionError is returned when a step cannot start with the current state.
type PreconditionError struct {
	msg string
}

func NewNoSourceFilesError() *PreconditionError {
	return &PreconditionError{msg: "no source files to package"}
}

func (e *PreconditionError) Error() string {
	return e.msg
}

func IsPreconditionError(err error) bool {
	var e *PreconditionError
	return errors.As(err, &e)
}

type MonitorInProgressError struct {
	jobID uuid.UUID
}

func NewMonitorInProgressError(jobID uuid.UUID) *MonitorInProgressError {
	return &MonitorInProgressError{jobID: jobID}
}

func (e *MonitorInProgressError) Error() string {
	return fmt.Sprintf("job %s is already monitored", e.jobID)
}

func IsMonitorInProgressError(err error) bool {
	var e *MonitorInProgressError
	return errors.As(err, &e)
}

type MonitorTimeoutError struct {
	jobID uuid.UUID
	idle  time.Duration
}

func NewMonitorTimeoutError(jobID uuid.UUID, idle time.Duration) *MonitorTimeoutError {
	return &MonitorTimeoutError{jobID: jobID, idle: idle}
}

func (e *MonitorTimeoutError) Error() string {
	return fmt.Sprintf("no report received for job %s in %s", e.jobID, e.idle)
}

func IsMonitorTimeoutError(err error) bool {
	var e *MonitorTimeoutError
	return errors.As(err, &e)
}

type TokenExpiredError struct {
	expiredAt time.Time
}

func NewTokenExpiredError(expiredAt time.Time) *TokenExpiredError {
	return &TokenExpiredError{expiredAt: expiredAt}
}

func (e *TokenExpiredError) Error() string {
	return fmt.Sprintf("access token expired at %s", e.expiredAt.Format(time.RFC3339))
}

func IsTokenExpiredError(err error) bool {
	var e *TokenExpiredError
	return errors.As(err, &e)
}
