package deadlinks

import (
	"context"

	"github.com/foomo/deadlinks/config"
)

// DetectBrokenURLsAtFile scans exactly one document, docPath is relative to
// the output folder root. The returned error lists every broken reference,
// or only the first one for fail-fast configurations.
func DetectBrokenURLsAtFile(ctx context.Context, conf *config.Config, docPath string, opts ...Option) error {
	s, errScanner := NewScanner(conf, opts...)
	if errScanner != nil {
		return errScanner
	}
	report, errScan := s.ScanFile(ctx, docPath)
	if errScan != nil {
		return errScan
	}
	return report.Err()
}

// DetectBrokenURLsInFolder scans all documents in folder below the output
// folder root, "" is the root itself
func DetectBrokenURLsInFolder(ctx context.Context, conf *config.Config, folder string, includingSubfolders bool, opts ...Option) error {
	s, errScanner := NewScanner(conf, opts...)
	if errScanner != nil {
		return errScanner
	}
	report, errScan := s.ScanFolder(ctx, folder, includingSubfolders)
	if errScan != nil {
		return errScan
	}
	return report.Err()
}
