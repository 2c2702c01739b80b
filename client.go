package deadlinks

import (
	"context"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// HeadClient issues a HEAD request and returns the final status code
type HeadClient interface {
	Head(ctx context.Context, targetURL string) (statusCode int, err error)
}

// HTTPHeadClient is safe for concurrent use, all checks of a scan share one
type HTTPHeadClient struct {
	agent  string
	client *http.Client
}

func NewHTTPHeadClient(timeout time.Duration, agent string, useCookies bool) *HTTPHeadClient {
	dialTimeout := 5 * time.Second
	if timeout < dialTimeout {
		dialTimeout = timeout
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: dialTimeout,
			}).DialContext,
			TLSHandshakeTimeout: dialTimeout,
			MaxIdleConnsPerHost: 4,
		},
	}
	if useCookies {
		cookieJar, _ := cookiejar.New(nil)
		client.Jar = cookieJar
	}
	return &HTTPHeadClient{
		agent:  agent,
		client: client,
	}
}

func (hc *HTTPHeadClient) Head(ctx context.Context, targetURL string) (statusCode int, err error) {
	req, errRequest := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if errRequest != nil {
		return 0, errRequest
	}
	if hc.agent != "" {
		req.Header.Set("User-Agent", hc.agent)
	}
	resp, errDo := hc.client.Do(req)
	if errDo != nil {
		return 0, errDo
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// get is only used to fetch robots.txt
func (hc *HTTPHeadClient) get(ctx context.Context, targetURL string) (*http.Response, error) {
	req, errRequest := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if errRequest != nil {
		return nil, errRequest
	}
	if hc.agent != "" {
		req.Header.Set("User-Agent", hc.agent)
	}
	return hc.client.Do(req)
}
