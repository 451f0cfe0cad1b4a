package whttp

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	DefaultUserAgent = "rptrscope/1.0"
	DefaultTimeout   = 30 * time.Second
)

// TransportError reports a failed fetch: either a network failure (Err set)
// or a non-success response (StatusCode set).
type TransportError struct {
	URL        string
	StatusCode int
	Title      string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	if e.Title != "" {
		return fmt.Sprintf("fetch %s: unexpected status %d (%s)", e.URL, e.StatusCode, e.Title)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Proxy     string
}

// Client performs single GET requests. It never retries: a failed request is
// reported to the caller, which decides whether the failure is fatal.
type Client struct {
	http      *retryablehttp.Client
	userAgent string
}

// NewClient builds a Client from opts, applying defaults for empty fields.
func NewClient(opts Options) (*Client, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 0
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = opts.Timeout

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		retryClient.HTTPClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	}

	return &Client{http: retryClient, userAgent: opts.UserAgent}, nil
}

// Fetch retrieves rawURL and returns its body decoded to UTF-8.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		title, _ := PageTitle(string(body))
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode, Title: title}
	}

	return body, nil
}

// PageTitle returns the trimmed <title> text of an HTML document, if any.
func PageTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	title, ok := traverse(doc)
	if !ok {
		return "", false
	}
	title = strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")
	return strings.ToValidUTF8(strings.TrimSpace(title), ""), true
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}
