package mylog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sportsequipment/shopclient/lib/mycontext"
)

func init() {
	if os.Getenv("SHOPCLIENT_LOG_FORMAT") == "json" {
		New = newJSONLogger
		// Disable log prefixes such as the default timestamp.
		// Prefix text prevents the message from being parsed as JSON.
		log.SetFlags(0)
	}
}

type structuredLogger struct {
	componentName string
}

func newJSONLogger(componentName string) Logger {
	return structuredLogger{
		componentName: componentName,
	}
}

func (l structuredLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...interface{}) {
	log.Println(entry{
		Component:     l.componentName,
		Labels:        map[string]string{"aggregate": traceLabel},
		CorrelationID: mycontext.CorrelationID(ctx),
		Severity:      string(severity),
		Message:       l.componentName + ":" + fmt.Sprintf(format, a...),
	}.String())
}

type entry struct {
	Component     string            `json:"component,omitempty"`
	Labels        map[string]string `json:"labels,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Severity      string            `json:"severity,omitempty"`
	Message       string            `json:"message"`
}

func (e entry) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		log.Printf("error marshalling log record: %v", err)
	}

	return string(out)
}
