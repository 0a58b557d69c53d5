package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"slices"
	"strings"
	"time"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
	"github.com/WangYihang/domain-triage/pkg/domain/service"
	"golang.org/x/net/html/charset"
)

// MaxRedirects bounds the redirect chain followed by a single fetch
const MaxRedirects = 10

// Fetcher implements service.HTTPFetcher
type Fetcher struct {
	client          *http.Client
	maxResponseSize int64
	userAgent       string
}

// Config holds HTTP fetcher configuration
type Config struct {
	Timeout         time.Duration
	MaxResponseSize int64
	UserAgent       string
	// Transport overrides the default transport, mainly for tests
	Transport http.RoundTripper
}

// NewFetcher creates a new HTTP fetcher
func NewFetcher(config Config) *Fetcher {
	transport := config.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: config.Timeout,
			}).DialContext,
			TLSHandshakeTimeout:   config.Timeout,
			ResponseHeaderTimeout: config.Timeout,
			DisableKeepAlives:     true,
		}
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", MaxRedirects)
				}
				return nil
			},
		},
		maxResponseSize: config.MaxResponseSize,
		userAgent:       config.UserAgent,
	}
}

// Fetch implements service.HTTPFetcher
func (f *Fetcher) Fetch(ctx context.Context, url string) (*service.HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &entity.FetchFailure{URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &entity.FetchFailure{URL: url, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	// Limit response size; read one extra byte to tell truncation apart
	limited := io.LimitReader(resp.Body, f.maxResponseSize+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, &entity.FetchFailure{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	truncated := int64(len(raw)) > f.maxResponseSize
	if truncated {
		raw = raw[:f.maxResponseSize]
	}

	headers := make(map[string]string)
	for key, values := range resp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	return &service.HTTPResponse{
		URL:           url,
		FinalURL:      resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		RedirectChain: redirectChain(resp),
		Headers:       headers,
		Body:          decode(raw, resp.Header.Get("Content-Type")),
		ContentLength: len(raw),
		Truncated:     truncated,
	}, nil
}

// redirectChain walks back from the final response through the responses
// that caused each redirect, oldest hop first
func redirectChain(resp *http.Response) []int {
	var chain []int
	for req := resp.Request; req != nil && req.Response != nil; req = req.Response.Request {
		chain = append(chain, req.Response.StatusCode)
	}
	slices.Reverse(chain)
	return chain
}

// decode converts the body to UTF-8 using the declared or sniffed charset
func decode(raw []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// unwrapURLError drops the "Get \"http://...\":" prefix net/http adds, the
// URL is already carried by FetchFailure
func unwrapURLError(err error) error {
	var ue *neturl.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}
