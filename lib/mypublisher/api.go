package mypublisher

import (
	"context"

	"github.com/sportsequipment/shopclient/lib/myevents"
)

// EventHandlerFunc receives every event published on a subscribed topic.
type EventHandlerFunc func(c context.Context, envelope myevents.EventEnvelope)

//go:generate mockgen -source=api.go -package mypublisher -destination publisher_mock.go Publisher
type Publisher interface {
	Publish(c context.Context, topic string, event myevents.Event) error
	Subscribe(topic string, handler EventHandlerFunc)
}
