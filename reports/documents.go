package reports

import (
	"io"

	"github.com/foomo/deadlinks/vo"
)

// reportDocuments failures listed per document
func reportDocuments(report *vo.ScanReport, w io.Writer, filter Filter) {
	printh, println, _ := printers(w)
	failures := filtered(report, filter)
	printh("documents with failures")
	document := ""
	for _, f := range failures {
		if f.Document != document {
			document = f.Document
			println(document)
		}
		if f.Target == "" {
			println("	", f.Reason, f.Detail)
			continue
		}
		println("	", f.Reason, f.Target, "("+f.Label+")", statusOrDetail(f))
	}
}

func statusOrDetail(f vo.Failure) interface{} {
	if f.StatusCode > 0 {
		return f.StatusCode
	}
	return f.Detail
}
