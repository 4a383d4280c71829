// Package transport is the HTTP layer shared by manga resolution, chapter
// pages and page images. It never retries on status codes: callers see the
// first response as is.
package transport

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Getter fetches a URL and returns its status code and decoded body.
type Getter interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

type debugLogger interface {
	Debugf(string, ...any)
}

type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Cookie     string
	CookieFile string

	// RateLimit caps requests per second across all workers; 0 disables it.
	RateLimit float64
	RateBurst int

	CloudflareBypass bool

	Transport   http.RoundTripper
	DebugLogger debugLogger
}

type Client struct {
	hc      *http.Client
	limiter *rate.Limiter
	log     debugLogger
}

var _ Getter = (*Client)(nil)

func New(opts Options) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	var baseTransport http.RoundTripper
	if opts.Transport != nil {
		baseTransport = opts.Transport
	} else {
		baseTransport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 100,
			ForceAttemptHTTP2:   true,
		}
	}

	if opts.CloudflareBypass {
		baseTransport = cloudflarebp.AddCloudFlareByPass(baseTransport)
	}

	c := &Client{
		hc: &http.Client{
			Timeout: opts.Timeout,
			Transport: roundTripper{
				base:         baseTransport,
				ua:           opts.UserAgent,
				cookieHeader: joinCookies(opts.Cookie, opts.CookieFile),
				log:          opts.DebugLogger,
			},
			Jar: jar,
		},
		log: opts.DebugLogger,
	}

	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	if opts.DebugLogger != nil {
		opts.DebugLogger.Debugf("HTTP client initialized (timeout=%s, ua=%q, rate=%.2f/s, cf=%t)",
			opts.Timeout, opts.UserAgent, opts.RateLimit, opts.CloudflareBypass)
	}

	return c, nil
}

// Get performs a single GET. A non-200 status is not an error; transport
// failures (including the client timeout) are.
func (c *Client) Get(ctx context.Context, target string) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,image/avif,image/webp,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && c.log != nil {
			c.log.Debugf("closing body of %s: %v", target, cerr)
		}
	}()

	r, err := decodeBody(resp)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode %s: %w", target, err)
	}

	data, err := io.ReadAll(r)
	if cerr := r.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s: %w", target, err)
	}

	return resp.StatusCode, data, nil
}

// decoded pairs the outermost decoding reader with the decompressor that
// needs closing, if any. The response body itself is closed by Get.
type decoded struct {
	io.Reader
	closer io.Closer
}

func (d decoded) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// decodeBody undoes Content-Encoding and converts HTML to UTF-8.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	d := decoded{Reader: resp.Body}

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		d.Reader = brotli.NewReader(d.Reader)
	case "gzip":
		gz, err := gzip.NewReader(d.Reader)
		if err != nil {
			return nil, err
		}
		d.Reader, d.closer = gz, gz
	}

	ct := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err == nil && strings.HasPrefix(mt, "text/html") {
		cr, err := charset.NewReader(d.Reader, ct)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.Reader = cr
	}

	return d, nil
}

type roundTripper struct {
	base         http.RoundTripper
	ua           string
	cookieHeader string
	log          debugLogger
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.ua != "" {
		req.Header.Set("User-Agent", rt.ua)
	}

	if rt.cookieHeader != "" && req.Header.Get("Cookie") == "" {
		req.Header.Set("Cookie", rt.cookieHeader)
	}

	if rt.log != nil {
		rt.log.Debugf("HTTP %s %s", req.Method, req.URL.String())
	}

	return rt.base.RoundTrip(req)
}

func joinCookies(inline, file string) string {
	s := strings.TrimSpace(inline)
	if file == "" {
		return s
	}

	b, err := os.ReadFile(file)
	if err != nil {
		return s
	}

	// first non-empty line
	sc := bufio.NewScanner(strings.NewReader(string(b)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if s == "" {
			return line
		}
		return s + "; " + line
	}

	return s
}

func PickUserAgent(override string) string {
	if override != "" {
		return override
	}

	return "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
}
