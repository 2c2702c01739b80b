package reports

import (
	"io"
	"sort"

	"github.com/foomo/deadlinks/vo"
)

type scores []vo.RemoteCheck

func (s scores) Len() int           { return len(s) }
func (s scores) Less(i, j int) bool { return s[i].Duration > s[j].Duration }
func (s scores) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// reportHighscore remote urls, slowest first
func reportHighscore(report *vo.ScanReport, w io.Writer, filter Filter) {
	printh, println, _ := printers(w)
	printh("high score")
	scores := make(scores, len(report.Remote))
	copy(scores, report.Remote)
	sort.Stable(scores)
	for i, s := range scores {
		println(i, s.StatusCode, s.URL, s.Duration)
	}
}
