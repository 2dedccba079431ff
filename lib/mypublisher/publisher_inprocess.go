package mypublisher

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sportsequipment/shopclient/lib/myevents"
	"github.com/sportsequipment/shopclient/lib/mylog"
	"github.com/sportsequipment/shopclient/lib/mytime"
	"github.com/sportsequipment/shopclient/lib/myuuid"
)

// inProcessPublisher delivers events synchronously, within the publishing
// turn. All state here lives in a single process (the "tab"), so there is
// no broker involved: subscribers are plain callbacks.
type inProcessPublisher struct {
	sync.Mutex
	nower    mytime.Nower
	uuider   myuuid.UUIDer
	logger   mylog.Logger
	handlers map[string][]EventHandlerFunc
}

func New(nower mytime.Nower, uuider myuuid.UUIDer) Publisher {
	return &inProcessPublisher{
		nower:    nower,
		uuider:   uuider,
		logger:   mylog.New("publisher"),
		handlers: map[string][]EventHandlerFunc{},
	}
}

func (p *inProcessPublisher) Subscribe(topic string, handler EventHandlerFunc) {
	p.Lock()
	defer p.Unlock()

	p.handlers[topic] = append(p.handlers[topic], handler)
}

func (p *inProcessPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	envelope := myevents.EventEnvelope{
		UID:           p.uuider.Create(),
		CreatedAt:     p.nower.Now(),
		Topic:         topic,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(payload),
	}

	p.Lock()
	handlers := make([]EventHandlerFunc, len(p.handlers[topic]))
	copy(handlers, p.handlers[topic])
	p.Unlock()

	p.logger.Log(c, envelope.AggregateUID, mylog.SeverityDebug, "Publish %s to %d subscribers", envelope.String(), len(handlers))

	// Handlers run outside the lock so they may publish in turn.
	for _, handler := range handlers {
		handler(c, envelope)
	}

	return nil
}
