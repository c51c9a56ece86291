package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"workout-stats-go/internal/logger"
	"workout-stats-go/internal/types"
)

var (
	ErrTooLarge     = errors.New("export exceeds size limit")
	ErrFetch        = errors.New("fetch export")
	ErrForbiddenURL = errors.New("export url not allowed")
)

const maxRedirects = 5

// Policy restricts which URLs a Fetcher may reach. The zero value allows
// https to public addresses only.
type Policy struct {
	AllowHTTP    bool
	AllowPrivate bool
}

func (p Policy) checkURL(u *url.URL) error {
	switch {
	case u.Scheme == "https":
	case u.Scheme == "http" && p.AllowHTTP:
	default:
		return fmt.Errorf("%w: scheme %q", ErrForbiddenURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: no host", ErrForbiddenURL)
	}
	return nil
}

// control runs on every dial with the resolved address, so names that
// resolve to internal hosts are caught too.
func (p Policy) control(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForbiddenURL, address)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("%w: %s", ErrForbiddenURL, host)
	}
	if p.AllowPrivate {
		return nil
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: address %s", ErrForbiddenURL, ip)
	}
	return nil
}

// Fetcher downloads exports over http(s), retrying transient failures with
// exponential backoff.
type Fetcher struct {
	Client         *http.Client
	Policy         Policy
	MaxElapsed     time.Duration
	InitialBackoff time.Duration
	MaxBytes       int64
	Log            *logger.Logger
}

func NewFetcher(timeout, maxElapsed time.Duration, maxBytes int64, policy Policy, log *logger.Logger) *Fetcher {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: policy.control}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &Fetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return policy.checkURL(req.URL)
			},
		},
		Policy:     policy,
		MaxElapsed: maxElapsed,
		MaxBytes:   maxBytes,
		Log:        log.Component("dataset.fetch"),
	}
}

// Fetch downloads the export at rawURL and parses it. 4xx responses and
// disallowed urls are not retried.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (types.RawTable, error) {
	log := f.Log.WithField("url", rawURL)

	u, err := url.Parse(rawURL)
	if err != nil {
		return types.RawTable{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if err := f.Policy.checkURL(u); err != nil {
		log.WithError(err).Warn("url rejected")
		return types.RawTable{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = f.MaxElapsed
	if f.InitialBackoff > 0 {
		bo.InitialInterval = f.InitialBackoff
	}

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.Client.Do(req)
		if errors.Is(err, ErrForbiddenURL) {
			log.WithError(err).Warn("url rejected")
			return backoff.Permanent(err)
		}
		if err != nil {
			log.WithField("attempt", attempt).WithError(err).Warn("fetch failed")
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			log.WithField("attempt", attempt).WithField("status", resp.StatusCode).Warn("server error")
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("unexpected status: %s", resp.Status))
		}

		data, err := readLimited(resp.Body, f.MaxBytes)
		if err != nil {
			return backoff.Permanent(err)
		}
		body = data
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return types.RawTable{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	log.WithField("bytes", len(body)).WithField("attempts", attempt).Info("export downloaded")
	return Parse(body)
}

// readLimited reads r up to max bytes; max <= 0 means no limit.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}
