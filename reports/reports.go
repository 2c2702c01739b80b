package reports

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/foomo/deadlinks/vo"
)

// Filter keeps a failure in a report when it returns true
type Filter func(f vo.Failure) bool

type reporter func(report *vo.ScanReport, w io.Writer, filter Filter)

const (
	NameSummary   = "summary"
	NameBroken    = "broken-links"
	NameDocuments = "documents"
	NameErrors    = "errors"
	NameHighscore = "highscore"
	NameResults   = "results"
	NameMarkdown  = "markdown"
)

var ErrUnknownReport = errors.New("unknown report")

var reporters = map[string]reporter{
	NameSummary:   reportSummary,
	NameBroken:    reportBrokenLinks,
	NameDocuments: reportDocuments,
	NameErrors:    reportErrors,
	NameHighscore: reportHighscore,
	NameResults:   reportResults,
	NameMarkdown:  reportMarkdown,
}

// Names of all reports
func Names() []string {
	names := make([]string, 0, len(reporters))
	for name := range reporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write the named report, all filters have to match for a failure to be reported
func Write(name string, report *vo.ScanReport, w io.Writer, filters ...Filter) error {
	r, ok := reporters[name]
	if !ok {
		return fmt.Errorf("%w: %q, use one of %s", ErrUnknownReport, name, strings.Join(Names(), ", "))
	}
	r(report, w, chain(filters))
	return nil
}

func chain(filters []Filter) Filter {
	active := []Filter{}
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(f vo.Failure) bool {
		for _, filter := range active {
			if !filter(f) {
				return false
			}
		}
		return true
	}
}

// FilterDocumentPrefix only failures in documents below prefix
func FilterDocumentPrefix(prefix string) Filter {
	if prefix == "" {
		return nil
	}
	prefix = strings.TrimPrefix(prefix, "/")
	return func(f vo.Failure) bool {
		return strings.HasPrefix(f.Document, prefix)
	}
}

// FilterReasons only failures with one of the reasons
func FilterReasons(reasons ...vo.Reason) Filter {
	if len(reasons) == 0 {
		return nil
	}
	return func(f vo.Failure) bool {
		for _, reason := range reasons {
			if f.Reason == reason {
				return true
			}
		}
		return false
	}
}

func filtered(report *vo.ScanReport, filter Filter) []vo.Failure {
	failures := []vo.Failure{}
	for _, f := range report.Failures {
		if filter != nil && !filter(f) {
			continue
		}
		failures = append(failures, f)
	}
	return failures
}

func printers(w io.Writer) (printh func(header ...interface{}), println func(a ...interface{}), printsep func()) {
	printsep = func() {
		fmt.Fprintln(w, "-----------------------------------------------------------------------------")
	}
	println = func(a ...interface{}) { fmt.Fprintln(w, a...) }
	printh = func(header ...interface{}) {
		println()
		println(header...)
		printsep()
	}
	return
}

func reportSummary(report *vo.ScanReport, w io.Writer, filter Filter) {
	printh, println, _ := printers(w)
	printh("summary", report.Root)
	println("documents", report.Documents)
	println("references", report.TotalReferences())
	println("failures", len(filtered(report, filter)))
	println("duration", report.Duration)
	ReportSummaryBody(report, w, filter)
}

// ReportSummaryBody reference kinds, failure reasons and remote performance buckets
func ReportSummaryBody(report *vo.ScanReport, w io.Writer, filter Filter) {
	printh, println, _ := printers(w)
	printh("references")
	kinds := []string{}
	for kind := range report.References {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		println(kind, report.References[vo.ReferenceKind(kind)])
	}
	printh("failures")
	reasonMap := map[vo.Reason]int{}
	for _, f := range filtered(report, filter) {
		reasonMap[f.Reason]++
	}
	reasons := []string{}
	for reason := range reasonMap {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		println(reason, reasonMap[vo.Reason(reason)])
	}
	printh("remote performance buckets")
	bucketListRemote(w, report.Remote)
}

func bucketListRemote(w io.Writer, checks []vo.RemoteCheck) {
	if len(checks) == 0 {
		fmt.Fprintln(w, "no remote checks")
		return
	}
	for _, bucket := range vo.GetBucketList() {
		count := bucket.Count(checks)
		fmt.Fprintln(
			w,
			count,
			"	",
			math.Round(float64(count)/float64(len(checks))*100),
			"%	(", bucket.From, "=>", bucket.To, ")",
			bucket.Name,
		)
	}
}

// GetReportHandler serves the named reports below basePath, supports the
// query parameters prefix=<document prefix> and reason=<reason>,<reason>
func GetReportHandler(basePath string, getReport func(r *http.Request) (*vo.ScanReport, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.Trim(strings.TrimPrefix(r.URL.Path, basePath), "/")
		if name == "" {
			name = NameSummary
		}
		if _, ok := reporters[name]; !ok {
			http.NotFound(w, r)
			return
		}
		report, errReport := getReport(r)
		if errReport != nil {
			http.Error(w, errReport.Error(), http.StatusInternalServerError)
			return
		}
		reasons := []vo.Reason{}
		for _, rawReason := range strings.Split(r.URL.Query().Get("reason"), ",") {
			rawReason = strings.TrimSpace(rawReason)
			if rawReason != "" {
				reasons = append(reasons, vo.Reason(rawReason))
			}
		}
		contentType := "text/plain; charset=utf-8"
		if name == NameMarkdown {
			contentType = "text/markdown; charset=utf-8"
		}
		w.Header().Set("Content-Type", contentType)
		_ = Write(name, report, w,
			FilterDocumentPrefix(r.URL.Query().Get("prefix")),
			FilterReasons(reasons...),
		)
	}
}
