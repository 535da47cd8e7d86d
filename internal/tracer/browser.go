package tracer

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/williampepple1/redirlookup/internal/config"
	"github.com/williampepple1/redirlookup/internal/proxy"
	"github.com/williampepple1/redirlookup/pkg/models"
)

// BrowserTracer follows redirects in a headless browser, which also records
// redirects done by JavaScript or meta refresh.
type BrowserTracer struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
}

// NewBrowserTracer creates a new browser tracer
func NewBrowserTracer(config *config.AppConfig) *BrowserTracer {
	return &BrowserTracer{
		Config: config,
		Proxy:  proxy.NewManager(&config.Proxies),
	}
}

// Trace navigates to url and records every top-level document request made
// until the page settles.
func (t *BrowserTracer) Trace(ctx context.Context, url string) (models.RedirectChain, error) {
	if url == "" {
		return models.RedirectChain{}, nil
	}

	target := url
	if t.Config.Tracer.Refang {
		target = Refang(url)
	}

	ctx, cancel := context.WithTimeout(ctx, t.Config.Tracer.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", t.Config.Browser.Headless),
		chromedp.UserAgent(t.Config.Browser.UserAgent),
	)
	proxyURL, err := t.Proxy.GetProxyURL()
	if err != nil {
		return fail(url, err)
	}
	if proxyURL != nil {
		opts = append(opts, chromedp.ProxyServer(proxyURL.String()))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Start the browser so the main frame id is known before navigating.
	if err := chromedp.Run(browserCtx); err != nil {
		return fail(url, err)
	}
	mainFrame := cdp.FrameID(chromedp.FromContext(browserCtx).Target.TargetID)

	var (
		mu    sync.Mutex
		chain = models.RedirectChain{}
	)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		e, ok := ev.(*network.EventRequestWillBeSent)
		if !ok || e.Type != network.ResourceTypeDocument || e.FrameID != mainFrame {
			return
		}
		mu.Lock()
		chain = append(chain, e.Request.URL)
		mu.Unlock()
	})

	var location string
	err = chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(target),
		chromedp.Sleep(t.Config.Browser.WaitTime),
		chromedp.Location(&location),
	)
	if err != nil {
		return fail(url, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(chain) == 0 && location != "" {
		chain = append(chain, location)
	}
	return chain, nil
}
