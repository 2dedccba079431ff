package apiclient

import (
	"context"
)

// LoginRoute is where the user is sent after an unauthorized response.
const LoginRoute = "/login"

//go:generate mockgen -source=api.go -package apiclient -destination client_mock.go Client,Redirector
type Client interface {
	Get(c context.Context, path string) ([]byte, error)
	Post(c context.Context, path string, body []byte) ([]byte, error)
	Put(c context.Context, path string, body []byte) ([]byte, error)
	Delete(c context.Context, path string) ([]byte, error)
	PostMultipart(c context.Context, path string, fieldName string, fileName string, data []byte) ([]byte, error)
}

// Redirector is told to send the user to the login flow after a 401,
// with the originating path preserved as return target.
type Redirector interface {
	RedirectToLogin(c context.Context, returnTo string)
}
