package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/ppiankov/proofline/internal/cache"
	"github.com/ppiankov/proofline/internal/extract"
	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/util"
	"github.com/ppiankov/proofline/internal/worker"
)

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// Fetcher loads report text from a file, an http(s) URL or stdin
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // nil when robots.txt is ignored
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	stdin      io.Reader
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, respectRobots bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	proxyFunc := util.NewProxyFunc(httpProxy, httpsProxy, noProxy)

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{Proxy: proxyFunc},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		stdin:     os.Stdin,
	}
	if respectRobots {
		f.robots = util.NewRobotsChecker(userAgent, timeout, proxyFunc)
	}
	return f
}

// NewFetcherFromConfig creates a Fetcher from the HTTP section of the config
func NewFetcherFromConfig(cfg model.HTTPConfig) *Fetcher {
	return NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.RespectRobot,
		cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
}

// WithCache serves repeated URL fetches from c for ttl
func (f *Fetcher) WithCache(c cache.Cache, ttl time.Duration) *Fetcher {
	f.cache = c
	f.cacheTTL = ttl
	return f
}

// WithLimiter throttles requests per host, honouring robots.txt crawl delays
func (f *Fetcher) WithLimiter(l *worker.Limiter) *Fetcher {
	f.limiter = l
	return f
}

// FetchResult contains a fetched body and its metadata
type FetchResult struct {
	Body        []byte
	ContentType string
	FinalURL    string
	FromCache   bool
}

// Document is report text ready to be checked
type Document struct {
	Source      string
	Text        string
	ContentType string
	FinalURL    string
	FromCache   bool
}

// Load reads the report named by source: "-" for stdin, an http(s) URL, or
// a file path. HTML is flattened to plain text and legacy Chinese encodings
// are decoded to UTF-8.
func (f *Fetcher) Load(ctx context.Context, source string) (*Document, error) {
	var (
		result *FetchResult
		err    error
	)

	switch {
	case source == "-":
		result, err = f.readAll(f.stdin, "")
	case isURL(source):
		result, err = f.FetchWithRetry(ctx, source)
	default:
		result, err = f.readFile(source)
	}
	if err != nil {
		return nil, err
	}

	text, err := decodeText(result.Body, result.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	if extract.LooksLikeHTML(result.ContentType, text) {
		text, err = extract.PlainText(text)
		if err != nil {
			return nil, fmt.Errorf("parse HTML: %w", err)
		}
	}

	return &Document{
		Source:      source,
		Text:        strings.TrimSpace(text),
		ContentType: result.ContentType,
		FinalURL:    result.FinalURL,
		FromCache:   result.FromCache,
	}, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (f *Fetcher) readFile(path string) (*FetchResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer func() { _ = file.Close() }()

	contentType := ""
	if ext := strings.ToLower(path); strings.HasSuffix(ext, ".html") || strings.HasSuffix(ext, ".htm") {
		contentType = "text/html"
	}
	return f.readAll(file, contentType)
}

func (f *Fetcher) readAll(r io.Reader, contentType string) (*FetchResult, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("report exceeds %d bytes", f.maxBytes)
	}
	return &FetchResult{Body: body, ContentType: contentType}, nil
}

// FetchWithRetry fetches rawURL, retrying transient failures with
// exponential backoff.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.Key(rawURL)
	if f.cache != nil {
		if doc, ok := f.cache.Get(key); ok {
			return &FetchResult{Body: doc.Body, ContentType: doc.ContentType, FinalURL: doc.FinalURL, FromCache: true}, nil
		}
	}

	if err := f.checkRobots(ctx, rawURL); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			if f.cache != nil {
				_ = f.cache.Set(key, &cache.Document{
					Body:        result.Body,
					ContentType: result.ContentType,
					FinalURL:    result.FinalURL,
					FetchedAt:   time.Now().UTC(),
				}, f.cacheTTL)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
		if attempt < fetchMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			fetchSleepFunc(backoff)
		}
	}
	return nil, lastErr
}

func (f *Fetcher) checkRobots(ctx context.Context, rawURL string) error {
	var delay time.Duration
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
		}
		delay = crawlDelay
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
			return err
		}
	}
	return nil
}

// Fetch performs a single GET of rawURL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/html;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	result, err := f.readAll(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	result.FinalURL = resp.Request.URL.String()
	return result, nil
}

// isRetryableFetchError returns true for 5xx, 429 and transient network failures
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

// decodeText converts body to UTF-8. A declared charset wins; undeclared
// bytes that are not valid UTF-8 are read as GB18030.
func decodeText(body []byte, contentType string) (string, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	if strings.Contains(strings.ToLower(contentType), "charset=") {
		enc, name, _ := charset.DetermineEncoding(body, contentType)
		if name != "utf-8" {
			decoded, err := enc.NewDecoder().Bytes(body)
			if err != nil {
				return "", err
			}
			return string(decoded), nil
		}
	}

	if utf8.Valid(body) {
		return string(body), nil
	}

	decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
