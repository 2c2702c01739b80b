package reports

import (
	"io"

	"github.com/foomo/deadlinks/vo"
	"gopkg.in/yaml.v3"
)

// reportResults all failures as yaml
func reportResults(report *vo.ScanReport, w io.Writer, filter Filter) {
	printh, println, _ := printers(w)
	failures := filtered(report, filter)
	printh("results", len(failures))
	yamlBytes, errYaml := yaml.Marshal(failures)
	if errYaml != nil {
		println("could not print", errYaml)
		return
	}
	println(string(yamlBytes))
}
