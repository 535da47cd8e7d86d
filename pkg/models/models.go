package models

// RedirectChain is the ordered list of URLs visited while resolving one URL.
// It starts with the URL the request was sent to and ends with the final
// response URL. An empty chain means the request failed.
type RedirectChain []string

// Final returns the last URL of the chain, or "" for an empty chain.
func (c RedirectChain) Final() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

// Result represents the redirect lookup of a single URL
type Result struct {
	URL       string        `json:"url"`
	Redirects RedirectChain `json:"redirects"`
}

// NewResult builds a Result, never leaving Redirects nil so it encodes as [].
func NewResult(url string, chain RedirectChain) Result {
	if chain == nil {
		chain = RedirectChain{}
	}
	return Result{
		URL:       url,
		Redirects: chain,
	}
}
