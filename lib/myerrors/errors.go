package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type httpErrorCoder interface {
	error
	GetHTTPErrorCode() int
}

type messageCarrier interface {
	GetMessage() string
}

type httpError struct {
	httpCode int
	err      error
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) Unwrap() error {
	return e.err
}

func (e httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

func (e httpError) GetMessage() string {
	return e.err.Error()
}

func newError(httpCode int, err error) *httpError {
	return &httpError{
		httpCode: httpCode,
		err:      err,
	}
}

func NewInvalidInputError(err error) *httpError {
	return newError(http.StatusBadRequest, err)
}

func NewInvalidInputErrorf(format string, args ...interface{}) *httpError {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

func NewNotFoundError(err error) *httpError {
	return newError(http.StatusNotFound, err)
}

func NewUnauthorizedError(err error) *httpError {
	return newError(http.StatusUnauthorized, err)
}

func NewAuthenticationError(err error) *httpError {
	return newError(http.StatusForbidden, err)
}

func NewInternalError(err error) *httpError {
	return newError(http.StatusInternalServerError, err)
}

func NewNotImplementedError(err error) *httpError {
	return newError(http.StatusNotImplemented, err)
}

func NewUnavailableError(err error) *httpError {
	return newError(http.StatusServiceUnavailable, err)
}

// NewHTTPError carries an error status received from the remote API as-is.
func NewHTTPError(httpCode int, err error) *httpError {
	return newError(httpCode, err)
}

type connectivityError struct {
	err error
}

func (e connectivityError) Error() string {
	return fmt.Sprintf("connectivity error: %s", e.err.Error())
}

func (e connectivityError) Unwrap() error {
	return e.err
}

func (e connectivityError) GetHTTPErrorCode() int {
	return http.StatusServiceUnavailable
}

func (e connectivityError) GetMessage() string {
	return "cannot reach the server, check that the backend is running and the network is up"
}

// NewConnectivityError marks a call that never received a response at all.
func NewConnectivityError(err error) *connectivityError {
	return &connectivityError{
		err: err,
	}
}

func IsConnectivityError(err error) bool {
	var connErr *connectivityError

	return errors.As(err, &connErr)
}

func IsUnauthorizedError(err error) bool {
	return GetHttpStatus(err) == http.StatusUnauthorized
}

func GetHttpStatus(err error) int {
	if err != nil {
		myError, ok := err.(httpErrorCoder)
		if ok {
			return myError.GetHTTPErrorCode()
		}
	}

	return http.StatusInternalServerError
}

// GetMessage extracts a human-readable message, falling back to a per-operation default.
func GetMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	carrier, ok := err.(messageCarrier)
	if ok && carrier.GetMessage() != "" {
		return carrier.GetMessage()
	}

	if err.Error() != "" {
		return err.Error()
	}

	return fallback
}
