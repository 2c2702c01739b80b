package deadlinks

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foomo/deadlinks/config"
	"github.com/foomo/deadlinks/vo"
	"golang.org/x/sync/errgroup"
)

// errStop ends a fail-fast scan after the first failure
var errStop = errors.New("stopping at first failure")

// Scanner drives a scan over one document or a folder of documents below
// the tree root. Documents are processed concurrently, within a document
// all references are checked concurrently.
type Scanner struct {
	conf     *config.Config
	fsys     fs.FS
	client   HeadClient
	resolver *Resolver
	logger   *slog.Logger
	metrics  *Metrics
}

type Option func(*Scanner)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Scanner) {
		s.metrics = m
	}
}

// WithFS replaces os.DirFS(conf.Root) as the document tree
func WithFS(fsys fs.FS) Option {
	return func(s *Scanner) {
		s.fsys = fsys
	}
}

func WithHeadClient(client HeadClient) Option {
	return func(s *Scanner) {
		s.client = client
	}
}

func NewScanner(conf *config.Config, opts ...Option) (*Scanner, error) {
	if errValidate := conf.Validate(); errValidate != nil {
		return nil, errValidate
	}
	s := &Scanner{
		conf:     conf,
		resolver: NewResolver(conf.Ignore...),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fsys == nil {
		s.fsys = os.DirFS(conf.Root)
	}
	if s.client == nil {
		s.client = NewHTTPHeadClient(conf.Timeout, conf.Agent, conf.UseCookies)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

func (s *Scanner) newChecker() *Checker {
	opts := checkerOptions{
		timeout:           s.conf.Timeout,
		remoteConcurrency: int64(s.conf.RemoteConcurrency),
		checkRemote:       s.conf.CheckRemote,
		metrics:           s.metrics,
	}
	if s.conf.RespectRobots {
		fetch := NewHTTPHeadClient(s.conf.Timeout, s.conf.Agent, false).get
		if hc, ok := s.client.(*HTTPHeadClient); ok {
			fetch = hc.get
		}
		opts.robots = newRobotsPolicy(s.conf.Agent, fetch)
	}
	return newChecker(s.fsys, s.client, opts)
}

// Scan the configured path, a single document or a folder
func (s *Scanner) Scan(ctx context.Context) (*vo.ScanReport, error) {
	p := cleanDocumentPath(s.conf.Path)
	info, errStat := fs.Stat(s.fsys, p)
	if errStat != nil {
		return nil, errStat
	}
	if info.IsDir() {
		return s.ScanFolder(ctx, p, s.conf.Recursive)
	}
	return s.ScanFile(ctx, p)
}

// ScanFile scans exactly one document, files without a document extension
// are skipped
func (s *Scanner) ScanFile(ctx context.Context, docPath string) (*vo.ScanReport, error) {
	docPath = cleanDocumentPath(docPath)
	docs := []string{}
	if s.isDocument(docPath) {
		docs = append(docs, docPath)
	}
	return s.scanDocuments(ctx, docs)
}

// ScanFolder scans all documents in folder, "." or "" is the tree root
func (s *Scanner) ScanFolder(ctx context.Context, folder string, recursive bool) (*vo.ScanReport, error) {
	docs, errList := s.listDocuments(cleanDocumentPath(folder), recursive)
	if errList != nil {
		return nil, errList
	}
	return s.scanDocuments(ctx, docs)
}

func (s *Scanner) isDocument(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, docExt := range s.conf.Extensions {
		if ext == strings.ToLower(docExt) {
			return true
		}
	}
	return false
}

func (s *Scanner) listDocuments(folder string, recursive bool) (docs []string, err error) {
	docs = []string{}
	errWalk := fs.WalkDir(s.fsys, folder, func(p string, d fs.DirEntry, errEntry error) error {
		if errEntry != nil {
			return errEntry
		}
		if d.IsDir() {
			if p != folder && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if s.isDocument(p) {
			docs = append(docs, p)
		}
		return nil
	})
	if errWalk != nil {
		return nil, errWalk
	}
	sort.Strings(docs)
	return docs, nil
}

func (s *Scanner) scanDocuments(ctx context.Context, docs []string) (*vo.ScanReport, error) {
	report := vo.NewScanReport(s.conf.Root)
	col := &collector{
		report:   report,
		failFast: s.conf.Policy == config.PolicyFailFast,
		metrics:  s.metrics,
	}
	checker := s.newChecker()
	s.logger.Info("scanning documents", "root", s.conf.Root, "documents", len(docs), "policy", s.conf.Policy)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.conf.Concurrency)
	for _, docPath := range docs {
		docPath := docPath
		g.Go(func() error {
			return s.scanDocument(gctx, checker, col, docPath)
		})
	}
	errWait := g.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errWait != nil && !errors.Is(errWait, errStop) {
		return nil, errWait
	}
	report.Remote = checker.RemoteChecks()
	report.Duration = time.Since(report.Started)
	report.Sort()
	s.logger.Info("scan complete",
		"documents", report.Documents,
		"references", report.TotalReferences(),
		"failures", len(report.Failures),
		"elapsed", report.Duration,
	)
	return report, nil
}

func (s *Scanner) scanDocument(ctx context.Context, checker *Checker, col *collector, docPath string) error {
	if errCtx := ctx.Err(); errCtx != nil {
		return errCtx
	}
	col.documentScanned()
	file, errOpen := s.fsys.Open(docPath)
	if errOpen != nil {
		s.logger.Warn("could not read document", "document", docPath, "error", errOpen)
		return col.add(vo.Failure{Document: docPath, Reason: vo.ReasonRead, Detail: errOpen.Error()})
	}
	defer file.Close()
	doc, errParse := ParseDocument(docPath, file)
	if errParse != nil {
		s.logger.Warn("could not parse document", "document", docPath, "error", errParse)
		return col.add(vo.Failure{Document: docPath, Reason: vo.ReasonParse, Detail: errParse.Error()})
	}
	refs := Extract(doc)
	s.logger.Debug("checking document", "document", docPath, "references", len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		ref := ref
		cr := s.resolver.Classify(ref)
		col.referenceFound(cr.Kind)
		if cr.Kind == vo.ReferenceKindIgnored {
			continue
		}
		g.Go(func() error {
			outcome := checker.Check(gctx, doc, cr)
			if outcome.OK() {
				return nil
			}
			if gctx.Err() != nil {
				// cancelled, the failure that caused it has been collected
				return gctx.Err()
			}
			return col.add(vo.NewFailure(ref, outcome))
		})
	}
	return g.Wait()
}

// collector the only mutable state shared between checks
type collector struct {
	mu       sync.Mutex
	report   *vo.ScanReport
	failFast bool
	metrics  *Metrics
}

func (c *collector) documentScanned() {
	c.mu.Lock()
	c.report.Documents++
	c.mu.Unlock()
	c.metrics.trackDocument()
}

func (c *collector) referenceFound(kind vo.ReferenceKind) {
	c.mu.Lock()
	c.report.References[kind]++
	c.mu.Unlock()
}

// add returns errStop for fail-fast scans, so the errgroups cancel
func (c *collector) add(f vo.Failure) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failFast {
		if len(c.report.Failures) == 0 {
			c.report.Failures = append(c.report.Failures, f)
			c.metrics.trackFailure(f.Reason)
		}
		return errStop
	}
	c.report.Failures = append(c.report.Failures, f)
	c.metrics.trackFailure(f.Reason)
	return nil
}
