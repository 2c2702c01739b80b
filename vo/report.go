package vo

import (
	"sort"
	"time"
)

// RemoteCheck one remote url that has been checked during a scan
type RemoteCheck struct {
	URL        string
	StatusCode int
	Duration   time.Duration
}

// ScanReport everything that went wrong in a scan
type ScanReport struct {
	Root       string
	Documents  int
	References map[ReferenceKind]int
	Failures   []Failure
	Remote     []RemoteCheck
	Started    time.Time
	Duration   time.Duration
}

func NewScanReport(root string) *ScanReport {
	return &ScanReport{
		Root:       root,
		References: map[ReferenceKind]int{},
		Started:    time.Now(),
	}
}

// Sort failures by document, target and label, remote checks by url
func (r *ScanReport) Sort() {
	sort.SliceStable(r.Failures, func(i, j int) bool {
		a, b := r.Failures[i], r.Failures[j]
		if a.Document != b.Document {
			return a.Document < b.Document
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Reason < b.Reason
	})
	sort.SliceStable(r.Remote, func(i, j int) bool {
		return r.Remote[i].URL < r.Remote[j].URL
	})
}

func (r *ScanReport) TotalReferences() (total int) {
	for _, n := range r.References {
		total += n
	}
	return
}

func (r *ScanReport) OK() bool {
	return len(r.Failures) == 0
}

// Err nil if nothing is broken
func (r *ScanReport) Err() error {
	if r.OK() {
		return nil
	}
	return &BrokenReferencesError{Failures: r.Failures}
}

// FailuresByReason failures grouped by their reason
func (r *ScanReport) FailuresByReason() map[Reason][]Failure {
	grouped := map[Reason][]Failure{}
	for _, f := range r.Failures {
		grouped[f.Reason] = append(grouped[f.Reason], f)
	}
	return grouped
}
