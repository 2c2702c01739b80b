package reports

import (
	"io"
	"strconv"

	"github.com/foomo/deadlinks/vo"
	"github.com/nao1215/markdown"
)

// reportMarkdown a report to paste into an issue or a CI summary
func reportMarkdown(report *vo.ScanReport, w io.Writer, filter Filter) {
	failures := filtered(report, filter)
	md := markdown.NewMarkdown(w)
	md.H1("Broken references")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root", "`" + report.Root + "`"},
			{"Documents", strconv.Itoa(report.Documents)},
			{"References", strconv.Itoa(report.TotalReferences())},
			{"Remote URLs", strconv.Itoa(len(report.Remote))},
			{"Failures", strconv.Itoa(len(failures))},
		},
	})
	md.PlainText("")
	if len(failures) == 0 {
		md.Tip("No broken references found.")
		_ = md.Build()
		return
	}
	md.Cautionf("%d broken reference(s) found.", len(failures))
	md.PlainText("")
	md.H2("Failures")
	md.PlainText("")
	rows := make([][]string, len(failures))
	for i, f := range failures {
		status := f.Detail
		if f.StatusCode > 0 {
			status = strconv.Itoa(f.StatusCode)
		}
		rows[i] = []string{"`" + f.Document + "`", "`" + f.Target + "`", f.Label, string(f.Reason), status}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Document", "Target", "Label", "Reason", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
	_ = md.Build()
}
