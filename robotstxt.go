package deadlinks

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

type robotsFetcher func(ctx context.Context, targetURL string) (*http.Response, error)

// robotsPolicy remote urls the robots.txt of their host disallows for our
// agent are not checked
type robotsPolicy struct {
	agent  string
	fetch  robotsFetcher
	flight singleflight.Group
	mu     sync.RWMutex
	groups map[string]*robotstxt.Group
}

func newRobotsPolicy(agent string, fetch robotsFetcher) *robotsPolicy {
	return &robotsPolicy{
		agent:  agent,
		fetch:  fetch,
		groups: map[string]*robotstxt.Group{},
	}
}

func (rp *robotsPolicy) allowed(ctx context.Context, u *url.URL) bool {
	origin := u.Scheme + "://" + u.Host
	rp.mu.RLock()
	group, ok := rp.groups[origin]
	rp.mu.RUnlock()
	if !ok {
		v, _, _ := rp.flight.Do(origin, func() (interface{}, error) {
			g := rp.load(ctx, origin)
			rp.mu.Lock()
			rp.groups[origin] = g
			rp.mu.Unlock()
			return g, nil
		})
		group = v.(*robotstxt.Group)
	}
	if group == nil {
		return true
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	return group.Test(p)
}

// load nil means everything is allowed, unreachable robots.txt included
func (rp *robotsPolicy) load(ctx context.Context, origin string) *robotstxt.Group {
	resp, errGet := rp.fetch(ctx, origin+"/robots.txt")
	if errGet != nil {
		return nil
	}
	data, errFromResponse := robotstxt.FromResponse(resp)
	resp.Body.Close()
	if errFromResponse != nil {
		return nil
	}
	return data.FindGroup(rp.agent)
}
