package reports

import (
	"io"
	"sort"

	"github.com/foomo/deadlinks/vo"
)

// reportBrokenLinks every broken target and the documents it is used in
func reportBrokenLinks(report *vo.ScanReport, w io.Writer, filter Filter) {
	printh, println, _ := printers(w)
	printh("broken links")
	broken := map[string][]string{}
	for _, f := range filtered(report, filter) {
		if f.Target == "" {
			continue
		}
		broken[f.Target] = append(broken[f.Target], f.Document)
	}
	brokenKeys := make([]string, len(broken))
	i := 0
	for k, docs := range broken {
		sort.Strings(docs)
		brokenKeys[i] = k
		i++
	}
	sort.Strings(brokenKeys)
	for _, brokenKey := range brokenKeys {
		println(brokenKey, " (", len(broken[brokenKey]), "):")
		for i, from := range broken[brokenKey] {
			if i > 19 {
				println("	...")
				break
			}
			println("	", from)
		}
	}
}
