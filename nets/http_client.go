package nets

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

type HTTPClient = *http.Client

const maxRedirects = 5

// HTTPClient fetches remote projects.
func (Module) HTTPClient(
	dialer Dialer,
	getURL GetProxyURL,
	isLocalAddr IsLocalAddr,
) HTTPClient {
	transport := &http.Transport{
		DialContext: dialer.DialContext,
		Proxy: func(req *http.Request) (*url.URL, error) {
			u, err := getURL()
			if err != nil || u == nil || isSocks(u) {
				return nil, err
			}
			if isLocalAddr(req.Context(), req.URL.Host) {
				return nil, nil
			}
			return u, nil
		},
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		MaxIdleConns:          4,
		IdleConnTimeout:       time.Minute,
	}
	return &http.Client{
		Timeout: time.Minute,
		Transport: userAgent{
			RoundTripper: transport,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

const UserAgent = "turtleplay"

type userAgent struct {
	http.RoundTripper
}

func (u userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}
	return u.RoundTripper.RoundTrip(req)
}
