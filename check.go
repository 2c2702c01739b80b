package deadlinks

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/foomo/deadlinks/vo"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// Checker finds out if classified references are available. Fragments are
// looked up in the parsed document, local paths in the tree and remote urls
// with a single HEAD request. Every remote url is requested once per Checker.
type Checker struct {
	fsys        fs.FS
	client      HeadClient
	timeout     time.Duration
	checkRemote bool
	robots      *robotsPolicy
	metrics     *Metrics
	remoteSlots *semaphore.Weighted
	flight      singleflight.Group
	mu          sync.Mutex
	remote      map[string]vo.Outcome
}

type checkerOptions struct {
	timeout           time.Duration
	remoteConcurrency int64
	checkRemote       bool
	robots            *robotsPolicy
	metrics           *Metrics
}

func newChecker(fsys fs.FS, client HeadClient, opts checkerOptions) *Checker {
	if opts.remoteConcurrency < 1 {
		opts.remoteConcurrency = 1
	}
	return &Checker{
		fsys:        fsys,
		client:      client,
		timeout:     opts.timeout,
		checkRemote: opts.checkRemote,
		robots:      opts.robots,
		metrics:     opts.metrics,
		remoteSlots: semaphore.NewWeighted(opts.remoteConcurrency),
		remote:      map[string]vo.Outcome{},
	}
}

// NewChecker with the default remote timeout and concurrency
func NewChecker(fsys fs.FS, client HeadClient) *Checker {
	return newChecker(fsys, client, checkerOptions{
		timeout:           15 * time.Second,
		remoteConcurrency: 32,
		checkRemote:       true,
	})
}

// Check doc must be the document the reference was extracted from
func (c *Checker) Check(ctx context.Context, doc *Document, cr vo.ClassifiedReference) (outcome vo.Outcome) {
	switch cr.Kind {
	case vo.ReferenceKindFragment:
		outcome = c.checkFragment(doc, cr.Anchor)
	case vo.ReferenceKindLocal:
		outcome = c.checkLocal(cr.ResolvedPath)
	case vo.ReferenceKindRemote:
		outcome = c.checkRemoteURL(ctx, cr)
	default:
		return vo.OK()
	}
	c.metrics.trackCheck(cr.Kind, outcome)
	return outcome
}

func (c *Checker) checkFragment(doc *Document, anchor string) vo.Outcome {
	// a bare "#" is the top of the document
	if anchor == "" || doc.HasID(anchor) {
		return vo.OK()
	}
	return vo.Failed(vo.ReasonFragmentNotFound, "no element with id '"+anchor+"' in "+doc.Path)
}

func (c *Checker) checkLocal(resolvedPath string) vo.Outcome {
	if exists(c.fsys, resolvedPath) {
		return vo.OK()
	}
	if !fs.ValidPath(resolvedPath) {
		return vo.Failed(vo.ReasonLocalNotFound, "resolves to '"+resolvedPath+"' outside of the root")
	}
	return vo.Failed(vo.ReasonLocalNotFound, "resolves to '"+resolvedPath+"'")
}

// exists as a file or a folder
func exists(fsys fs.FS, name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	_, errStat := fs.Stat(fsys, name)
	return errStat == nil
}

func (c *Checker) checkRemoteURL(ctx context.Context, cr vo.ClassifiedReference) vo.Outcome {
	if !c.checkRemote {
		return vo.OK()
	}
	if c.robots != nil && !c.robots.allowed(ctx, cr.URL) {
		return vo.OK()
	}
	targetURL := cr.URL.String()
	c.mu.Lock()
	outcome, ok := c.remote[targetURL]
	c.mu.Unlock()
	if ok {
		return outcome
	}
	v, _, _ := c.flight.Do(targetURL, func() (interface{}, error) {
		o := c.head(ctx, targetURL)
		if ctx.Err() == nil {
			c.mu.Lock()
			c.remote[targetURL] = o
			c.mu.Unlock()
		}
		return o, nil
	})
	return v.(vo.Outcome)
}

func (c *Checker) head(ctx context.Context, targetURL string) vo.Outcome {
	if errAcquire := c.remoteSlots.Acquire(ctx, 1); errAcquire != nil {
		return vo.Failed(vo.ReasonRemoteUnreachable, errAcquire.Error())
	}
	defer c.remoteSlots.Release(1)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	statusCode, errHead := c.client.Head(ctx, targetURL)
	outcome := vo.Outcome{
		StatusCode: statusCode,
		Duration:   time.Since(start),
	}
	switch {
	case errHead != nil:
		outcome.Reason = vo.ReasonRemoteUnreachable
		outcome.StatusCode = 0
		outcome.Detail = errHead.Error()
		if errors.Is(errHead, context.DeadlineExceeded) {
			outcome.Detail = "timeout after " + c.timeout.String()
		}
	case statusCode == http.StatusNotFound || statusCode == http.StatusGone:
		outcome.Reason = vo.ReasonRemoteGone
		outcome.Detail = http.StatusText(statusCode)
	}
	c.metrics.trackRemote(vo.RemoteCheck{URL: targetURL, StatusCode: outcome.StatusCode, Duration: outcome.Duration})
	return outcome
}

// RemoteChecks every remote url requested so far
func (c *Checker) RemoteChecks() []vo.RemoteCheck {
	c.mu.Lock()
	defer c.mu.Unlock()
	checks := make([]vo.RemoteCheck, 0, len(c.remote))
	for targetURL, o := range c.remote {
		checks = append(checks, vo.RemoteCheck{
			URL:        targetURL,
			StatusCode: o.StatusCode,
			Duration:   o.Duration,
		})
	}
	return checks
}
