package reports

import (
	"io"
	"sort"
	"strconv"

	"github.com/foomo/deadlinks/vo"
)

// reportErrors failures bucketed by reason, remote ones also by status code
func reportErrors(report *vo.ScanReport, w io.Writer, filter Filter) {
	printh, println, _ := printers(w)
	printh("errors")
	errorBuckets := map[string][]vo.Failure{}
	keys := []string{}
	for _, f := range filtered(report, filter) {
		key := string(f.Reason)
		if f.StatusCode > 0 {
			key += " " + strconv.Itoa(f.StatusCode)
		}
		if _, ok := errorBuckets[key]; !ok {
			keys = append(keys, key)
		}
		errorBuckets[key] = append(errorBuckets[key], f)
	}
	sort.Strings(keys)
	for _, key := range keys {
		println(key, ":")
		for _, f := range errorBuckets[key] {
			println("	", f.Document, f.Target)
		}
	}
}
