package mycontext

import (
	"context"
)

// CtxCorrelationID is a context key for the correlation-id (used by mylog)
type CtxCorrelationID struct{}

func WithCorrelationID(c context.Context, uid string) context.Context {
	return context.WithValue(c, CtxCorrelationID{}, uid)
}

func CorrelationID(c context.Context) string {
	uid, ok := c.Value(CtxCorrelationID{}).(string)
	if !ok {
		return ""
	}

	return uid
}
