package mystore

import (
	"context"
	"os"
)

//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store[T any] interface {
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	Delete(c context.Context, uid string) error
	List(c context.Context) ([]T, error)
}

// New picks a file-backed store when a state directory is configured,
// an in-memory store otherwise. The name determines the backing file.
func New[T any](c context.Context, name string) (Store[T], func(), error) {
	if dir := os.Getenv("SHOPCLIENT_STATE_DIR"); dir != "" {
		return newFileStore[T](c, dir, name)
	}

	return NewInMemoryStore[T](c)
}
