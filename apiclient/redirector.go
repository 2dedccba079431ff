package apiclient

import (
	"context"
	"net/url"
	"sync"

	"github.com/sportsequipment/shopclient/lib/mylog"
)

// LoggingRedirector is the non-browser stand-in for a router push: it
// records the login route (with the return target) so the front-end can
// act on it, and logs the transition.
type LoggingRedirector struct {
	sync.Mutex
	logger  mylog.Logger
	pending string
}

func NewLoggingRedirector() *LoggingRedirector {
	return &LoggingRedirector{
		logger: mylog.New("redirector"),
	}
}

func (r *LoggingRedirector) RedirectToLogin(c context.Context, returnTo string) {
	target := LoginRoute + "?redirect=" + url.QueryEscape(returnTo)

	r.Lock()
	r.pending = target
	r.Unlock()

	r.logger.Log(c, returnTo, mylog.SeverityInfo, "Session ended, please log in again (%s)", target)
}

// PendingRedirect returns the last requested login redirect, if any.
func (r *LoggingRedirector) PendingRedirect() (string, bool) {
	r.Lock()
	defer r.Unlock()

	return r.pending, r.pending != ""
}
