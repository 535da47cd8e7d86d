package tracer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/williampepple1/redirlookup/internal/config"
	"github.com/williampepple1/redirlookup/pkg/models"
)

// ErrTooManyRedirects is returned when a trace exceeds the configured hop limit.
var ErrTooManyRedirects = errors.New("too many redirects")

// TransportError reports a trace that could not complete. The chain of a
// failed trace is always empty.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("trace %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Tracer follows the redirects of a single URL.
//
// Trace performs one transaction against url and returns the URLs visited,
// request URL first and final URL last. An empty url yields an empty chain
// and no error. Any failure is returned as a *TransportError together with
// an empty chain.
type Tracer interface {
	Trace(ctx context.Context, url string) (models.RedirectChain, error)
}

// New creates a new tracer based on the configuration
func New(config *config.AppConfig) Tracer {
	if config.Browser.Enabled {
		return NewBrowserTracer(config)
	}
	return NewHTTPTracer(config)
}

var refangSchemes = map[string]string{
	"hxxp":  "http",
	"hxxps": "https",
	"fxp":   "ftp",
	"fxps":  "ftps",
	"fxxp":  "ftp",
	"fxxps": "ftps",
}

// Refang rewrites a defanged scheme such as hxxps to the scheme it stands
// for. Other URLs are returned unchanged.
func Refang(rawURL string) string {
	scheme, rest, found := strings.Cut(rawURL, "://")
	if !found {
		return rawURL
	}
	if real, ok := refangSchemes[strings.ToLower(scheme)]; ok {
		return real + "://" + rest
	}
	return rawURL
}

func fail(url string, err error) (models.RedirectChain, error) {
	return models.RedirectChain{}, &TransportError{URL: url, Err: err}
}
