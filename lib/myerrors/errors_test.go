package myerrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	myErr := fmt.Errorf("my error")

	testCases := []struct {
		name       string
		in         error
		httpStatus int
		errorText  string
	}{
		{
			name:       "No http error",
			in:         myErr,
			httpStatus: 500,
			errorText:  "my error",
		},
		{
			name:       "Invalid input error",
			in:         NewInvalidInputError(myErr),
			httpStatus: 400,
			errorText:  "status: 400, err: my error",
		},
		{
			name:       "Invalid input errorf",
			in:         NewInvalidInputErrorf("%s: %d", myErr.Error(), 123),
			httpStatus: 400,
			errorText:  "status: 400, err: my error: 123",
		},
		{
			name:       "Unauthorized error",
			in:         NewUnauthorizedError(myErr),
			httpStatus: 401,
			errorText:  "status: 401, err: my error",
		},
		{
			name:       "Authentication error",
			in:         NewAuthenticationError(myErr),
			httpStatus: 403,
			errorText:  "status: 403, err: my error",
		},
		{
			name:       "Not found error",
			in:         NewNotFoundError(myErr),
			httpStatus: 404,
			errorText:  "status: 404, err: my error",
		},
		{
			name:       "Internal error",
			in:         NewInternalError(myErr),
			httpStatus: 500,
			errorText:  "status: 500, err: my error",
		},
		{
			name:       "Passthrough http error",
			in:         NewHTTPError(422, myErr),
			httpStatus: 422,
			errorText:  "status: 422, err: my error",
		},
		{
			name:       "Connectivity error",
			in:         NewConnectivityError(myErr),
			httpStatus: 503,
			errorText:  "connectivity error: my error",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.httpStatus, GetHttpStatus(tc.in))
			assert.Equal(t, tc.errorText, tc.in.Error())
		})
	}
}

func TestConnectivityError(t *testing.T) {
	err := NewConnectivityError(fmt.Errorf("dial tcp: connection refused"))

	assert.True(t, IsConnectivityError(err))
	assert.False(t, IsConnectivityError(NewInternalError(fmt.Errorf("boom"))))
	assert.Contains(t, GetMessage(err, "fallback"), "cannot reach the server")
}

func TestGetMessage(t *testing.T) {
	assert.Equal(t, "fallback", GetMessage(nil, "fallback"))
	assert.Equal(t, "plain error", GetMessage(fmt.Errorf("plain error"), "fallback"))
	assert.Equal(t, "product not found", GetMessage(NewNotFoundError(fmt.Errorf("product not found")), "fallback"))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorizedError(NewUnauthorizedError(fmt.Errorf("login required"))))
	assert.False(t, IsUnauthorizedError(NewNotFoundError(fmt.Errorf("nope"))))
}
