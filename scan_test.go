package deadlinks

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/foomo/deadlinks/config"
	"github.com/foomo/deadlinks/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() *config.Config {
	conf := config.Default()
	conf.Root = "public"
	conf.Timeout = 2 * time.Second
	return conf
}

func getTestScanner(t *testing.T, conf *config.Config, fsys fs.FS, opts ...Option) *Scanner {
	s, errScanner := NewScanner(conf, append([]Option{WithFS(fsys)}, opts...)...)
	require.NoError(t, errScanner)
	return s
}

func newGoneServer(t *testing.T) *httptest.Server {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gone":
			w.WriteHeader(http.StatusGone)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(testServer.Close)
	return testServer
}

func TestScanMissingImage(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`<html><body><img src="missing.png"></body></html>`)},
	}
	report, errScan := getTestScanner(t, getTestConfig(), fsys).ScanFolder(context.Background(), "", true)
	require.NoError(t, errScan)
	require.Len(t, report.Failures, 1)
	f := report.Failures[0]
	assert.Equal(t, vo.ReasonLocalNotFound, f.Reason)
	assert.Equal(t, "missing.png", f.Target)
	assert.Equal(t, "index.html", f.Document)
	assert.Equal(t, "img src", f.Label)
	assert.Equal(t, vo.ElementKindImage, f.Element)
	assert.Equal(t, 1, report.Documents)
}

func TestScanRemoteGone(t *testing.T) {
	testServer := newGoneServer(t)
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`<a href="` + testServer.URL + `/gone">gone</a><a href="` + testServer.URL + `/fine">fine</a>`)},
	}
	report, errScan := getTestScanner(t, getTestConfig(), fsys).ScanFolder(context.Background(), "", true)
	require.NoError(t, errScan)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, vo.ReasonRemoteGone, report.Failures[0].Reason)
	assert.Equal(t, http.StatusGone, report.Failures[0].StatusCode)
	assert.Equal(t, "gone", report.Failures[0].Label)
	assert.Len(t, report.Remote, 2)
}

func getBrokenSite(remote string) fstest.MapFS {
	return fstest.MapFS{
		"index.html": {Data: []byte(`
<h1 id="top">site</h1>
<a href="#top">top</a>
<a href="#bottom">bottom</a>
<a href="blog/">blog</a>
<a href="mailto:me@example.test">mail</a>
<a href="">empty</a>
<img src="/images/logo.svg" alt="logo">
<form action="/search.html"></form>
`)},
		"blog/index.html": {Data: []byte(`
<a href="../index.html">home</a>
<a href="post.html">post</a>
<img src="/images/missing.png">
<iframe src="` + remote + `/missing" title="video"></iframe>
`)},
		"blog/post.html": {Data: []byte(`
<img src="images/cat.png" title="cat">
<picture><source srcset="images/cat.webp 1x, images/cat@2x.webp 2x"></picture>
`)},
		"blog/images/cat.png":  {Data: []byte("png")},
		"blog/images/cat.webp": {Data: []byte("webp")},
		"images/logo.svg":      {Data: []byte("svg")},
		"styles/main.css":      {Data: []byte("body{}")},
	}
}

func TestScanCollectAll(t *testing.T) {
	testServer := newGoneServer(t)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s := getTestScanner(t, getTestConfig(), getBrokenSite(testServer.URL), WithMetrics(m))
	report, errScan := s.ScanFolder(context.Background(), "", true)
	require.NoError(t, errScan)

	failures := []string{}
	for _, f := range report.Failures {
		failures = append(failures, f.Document+" "+f.Target+" "+string(f.Reason))
	}
	assert.Equal(t, []string{
		"blog/index.html /images/missing.png local-not-found",
		"blog/index.html " + testServer.URL + "/missing remote-gone",
		"blog/post.html images/cat@2x.webp local-not-found",
		"index.html #bottom fragment-not-found",
		"index.html /search.html local-not-found",
	}, failures)
	assert.Equal(t, 3, report.Documents)
	assert.Equal(t, 2, report.References[vo.ReferenceKindIgnored])
	assert.Equal(t, 2, report.References[vo.ReferenceKindFragment])
	assert.Equal(t, 1, report.References[vo.ReferenceKindRemote])
	assert.Equal(t, 9, report.References[vo.ReferenceKindLocal])

	assert.Equal(t, float64(3), testutil.ToFloat64(m.documents))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.failures.WithLabelValues(string(vo.ReasonLocalNotFound))))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.checks.WithLabelValues(string(vo.ReferenceKindFragment), "failed")))

	err := report.Err()
	assert.True(t, errors.Is(err, vo.ErrRemoteGone))
	assert.True(t, errors.Is(err, vo.ErrFragmentNotFound))
}

func TestScanIsIdempotent(t *testing.T) {
	testServer := newGoneServer(t)
	fsys := getBrokenSite(testServer.URL)
	s := getTestScanner(t, getTestConfig(), fsys)
	first, errFirst := s.ScanFolder(context.Background(), "", true)
	require.NoError(t, errFirst)
	second, errSecond := s.ScanFolder(context.Background(), "", true)
	require.NoError(t, errSecond)
	assert.Equal(t, first.Failures, second.Failures)
	assert.Equal(t, first.References, second.References)
}

func TestScanFailFast(t *testing.T) {
	testServer := newGoneServer(t)
	conf := getTestConfig()
	conf.Policy = config.PolicyFailFast
	report, errScan := getTestScanner(t, conf, getBrokenSite(testServer.URL)).ScanFolder(context.Background(), "", true)
	require.NoError(t, errScan)
	assert.Len(t, report.Failures, 1)
}

func TestScanNotRecursive(t *testing.T) {
	testServer := newGoneServer(t)
	report, errScan := getTestScanner(t, getTestConfig(), getBrokenSite(testServer.URL)).ScanFolder(context.Background(), "", false)
	require.NoError(t, errScan)
	assert.Equal(t, 1, report.Documents)
	assert.Len(t, report.Failures, 2)
}

func TestScanFile(t *testing.T) {
	testServer := newGoneServer(t)
	s := getTestScanner(t, getTestConfig(), getBrokenSite(testServer.URL))
	report, errScan := s.ScanFile(context.Background(), "/blog/post.html")
	require.NoError(t, errScan)
	assert.Equal(t, 1, report.Documents)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "blog/post.html", report.Failures[0].Document)

	report, errScan = s.ScanFile(context.Background(), "styles/main.css")
	require.NoError(t, errScan)
	assert.Equal(t, 0, report.Documents)
	assert.True(t, report.OK())
}

func TestScanConfiguredPath(t *testing.T) {
	testServer := newGoneServer(t)
	conf := getTestConfig()
	conf.Path = "blog"
	report, errScan := getTestScanner(t, conf, getBrokenSite(testServer.URL)).Scan(context.Background())
	require.NoError(t, errScan)
	assert.Equal(t, 2, report.Documents)

	conf.Path = "nope"
	_, errScan = getTestScanner(t, conf, getBrokenSite(testServer.URL)).Scan(context.Background())
	assert.Error(t, errScan)
}

type unreadableFile struct {
	fs.File
}

func (unreadableFile) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

// brokenFS can list every file, but can not open or read some of them
type brokenFS struct {
	fstest.MapFS
}

func (b brokenFS) Open(name string) (fs.File, error) {
	switch name {
	case "locked.html":
		return nil, fs.ErrPermission
	case "garbled.html":
		f, errOpen := b.MapFS.Open(name)
		if errOpen != nil {
			return nil, errOpen
		}
		return unreadableFile{File: f}, nil
	}
	return b.MapFS.Open(name)
}

func TestScanUnreadableDocuments(t *testing.T) {
	fsys := brokenFS{MapFS: fstest.MapFS{
		"locked.html":  {Data: []byte(`<a href="x.html">x</a>`)},
		"garbled.html": {Data: []byte(`<a href="x.html">x</a>`)},
		"index.html":   {Data: []byte(`<a href="nope.html">nope</a>`)},
	}}
	report, errScan := getTestScanner(t, getTestConfig(), fsys).ScanFolder(context.Background(), ".", true)
	require.NoError(t, errScan)
	require.Len(t, report.Failures, 3)
	assert.Equal(t, vo.ReasonParse, report.Failures[0].Reason)
	assert.Equal(t, "garbled.html", report.Failures[0].Document)
	assert.Equal(t, vo.ReasonLocalNotFound, report.Failures[1].Reason)
	assert.Equal(t, vo.ReasonRead, report.Failures[2].Reason)
	assert.True(t, errors.Is(report.Failures[0], vo.ErrParse))
}

func TestScanSlowRemoteDoesNotBlockSiblings(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer testServer.Close()
	conf := getTestConfig()
	conf.Timeout = 200 * time.Millisecond
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`
<a href="` + testServer.URL + `/slow">slow</a>
<a href="a.html">a</a>
<a href="b.html">b</a>
`)},
	}
	start := time.Now()
	report, errScan := getTestScanner(t, conf, fsys).ScanFolder(context.Background(), "", true)
	require.NoError(t, errScan)
	assert.Less(t, time.Since(start), 3*time.Second)
	reasons := map[vo.Reason]int{}
	for _, f := range report.Failures {
		reasons[f.Reason]++
	}
	assert.Equal(t, map[vo.Reason]int{vo.ReasonRemoteUnreachable: 1, vo.ReasonLocalNotFound: 2}, reasons)
}

func TestScanCancel(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer testServer.Close()
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`<a href="` + testServer.URL + `/hang">hang</a>`)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	_, errScan := getTestScanner(t, getTestConfig(), fsys).ScanFolder(ctx, "", true)
	assert.ErrorIs(t, errScan, context.Canceled)
}

func TestScanIgnoreAndOffline(t *testing.T) {
	conf := getTestConfig()
	conf.CheckRemote = false
	conf.Ignore = []string{"/generated/"}
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`
<a href="https://example.invalid/gone">remote</a>
<a href="/generated/feed.xml">feed</a>
`)},
	}
	report, errScan := getTestScanner(t, conf, fsys, WithHeadClient(failingHeadClient{t: t})).ScanFolder(context.Background(), "", true)
	require.NoError(t, errScan)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.References[vo.ReferenceKindIgnored])
}

func TestDetectBrokenURLsOnDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog", "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte(`<a href="blog/post.html">post</a>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blog", "post.html"), []byte(`<img src="images/cat.png" alt="cat">`), 0o644))

	conf := config.Default()
	conf.Root = root
	assert.NoError(t, DetectBrokenURLsAtFile(context.Background(), conf, "index.html"))

	errDetect := DetectBrokenURLsInFolder(context.Background(), conf, "", true)
	require.Error(t, errDetect)
	assert.True(t, errors.Is(errDetect, vo.ErrLocalNotFound))
	assert.Contains(t, errDetect.Error(), "blog/post.html")
	assert.Contains(t, errDetect.Error(), "images/cat.png")
	assert.Contains(t, errDetect.Error(), "(cat)")

	assert.NoError(t, DetectBrokenURLsInFolder(context.Background(), conf, "", false))

	require.NoError(t, os.WriteFile(filepath.Join(root, "blog", "images", "cat.png"), []byte("png"), 0o644))
	assert.NoError(t, DetectBrokenURLsInFolder(context.Background(), conf, "", true))

	assert.ErrorIs(t, DetectBrokenURLsInFolder(context.Background(), config.Default(), "", true), config.ErrNoRoot)
}

func TestScanRespectRobots(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer testServer.Close()
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`<a href="` + testServer.URL + `/private/gone">private</a><a href="` + testServer.URL + `/public/gone">public</a>`)},
	}
	conf := getTestConfig()
	conf.RespectRobots = true
	report, errScan := getTestScanner(t, conf, fsys).ScanFolder(context.Background(), "", true)
	require.NoError(t, errScan)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "public", report.Failures[0].Label)
}
