package tracer

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"slices"

	"golang.org/x/net/publicsuffix"

	"github.com/williampepple1/redirlookup/internal/config"
	"github.com/williampepple1/redirlookup/internal/extraction"
	"github.com/williampepple1/redirlookup/internal/proxy"
	"github.com/williampepple1/redirlookup/pkg/models"
)

// HTTPTracer follows redirects with a net/http client
type HTTPTracer struct {
	Config    *config.AppConfig
	Extractor *extraction.Extractor
	Proxy     *proxy.Manager
}

// NewHTTPTracer creates a new HTTP tracer
func NewHTTPTracer(config *config.AppConfig) *HTTPTracer {
	return &HTTPTracer{
		Config:    config,
		Extractor: extraction.NewExtractor(),
		Proxy:     proxy.NewManager(&config.Proxies),
	}
}

// Trace sends one GET request to url and lets the client follow redirects.
// With meta refresh following enabled, an HTML refresh target of the final
// page is requested as a further hop.
func (t *HTTPTracer) Trace(ctx context.Context, url string) (models.RedirectChain, error) {
	if url == "" {
		return models.RedirectChain{}, nil
	}

	client, err := t.newClient()
	if err != nil {
		return fail(url, err)
	}
	defer client.CloseIdleConnections()

	target := url
	if t.Config.Tracer.Refang {
		target = Refang(url)
	}

	chain := models.RedirectChain{}
	for {
		hops, refresh, err := t.do(ctx, client, target)
		if err != nil {
			return fail(url, err)
		}
		chain = append(chain, hops...)

		if refresh == "" {
			return chain, nil
		}
		if len(chain) > hopLimit(t.Config.Tracer.MaxRedirects) {
			return fail(url, ErrTooManyRedirects)
		}
		target = refresh
	}
}

// do runs a single client transaction and returns the URLs it visited and,
// when enabled, the meta refresh target of the final response.
func (t *HTTPTracer) do(ctx context.Context, client *http.Client, target string) ([]string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}

	if agents := t.Config.Tracer.UserAgents; len(agents) > 0 {
		req.Header.Set("User-Agent", agents[rand.Intn(len(agents))])
	}

	resp, err := client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, "", err
	}
	defer resp.Body.Close()

	hops := visited(resp)

	var refresh string
	if t.Config.Tracer.FollowMetaRefresh && isHTML(resp) {
		refresh, err = t.Extractor.RefreshTarget(resp.Body, resp.Request.URL)
		if err != nil {
			return nil, "", fmt.Errorf("read refresh target: %w", err)
		}
	}
	// Drain so the connection can be reused by the next hop.
	io.Copy(io.Discard, io.LimitReader(resp.Body, extraction.MaxDocumentSize))

	return hops, refresh, nil
}

// newClient builds a client for a single trace. Every trace gets its own
// cookie jar so cookies set during one redirect sequence never leak into
// another URL's trace.
func (t *HTTPTracer) newClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if t.Proxy.Enabled() {
		if _, err := t.Proxy.ApplyToTransport(transport); err != nil {
			return nil, fmt.Errorf("apply proxy: %w", err)
		}
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport:     transport,
		Jar:           jar,
		Timeout:       t.Config.Tracer.Timeout,
		CheckRedirect: redirectPolicy(t.Config.Tracer.MaxRedirects),
	}, nil
}

// net/http stops after 10 redirects when no CheckRedirect is set.
const defaultMaxHops = 10

// redirectPolicy stops after maxHops redirects. A non-positive maxHops keeps
// the net/http default.
func redirectPolicy(maxHops int) func(*http.Request, []*http.Request) error {
	if maxHops <= 0 {
		return nil
	}
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) > maxHops {
			return ErrTooManyRedirects
		}
		return nil
	}
}

// hopLimit returns the effective number of redirects allowed per trace.
func hopLimit(maxHops int) int {
	if maxHops <= 0 {
		return defaultMaxHops
	}
	return maxHops
}

// visited walks back from the final response through the redirect responses
// that caused each request and returns the request URLs in visiting order.
func visited(resp *http.Response) []string {
	var urls []string
	for req := resp.Request; req != nil; {
		urls = append(urls, req.URL.String())
		if req.Response == nil {
			break
		}
		req = req.Response.Request
	}
	slices.Reverse(urls)
	return urls
}

func isHTML(resp *http.Response) bool {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && (mediaType == "text/html" || mediaType == "application/xhtml+xml")
}
