package maintenance

import (
	"github.com/insurehub/insurehub/backend/go-services/pkg/logger"
)

// BackfillStats are the end-of-run counters of the document type backfill.
// Every record lands in exactly one bucket.
type BackfillStats struct {
	Total                  int `json:"total"`
	Updated                int `json:"updated"`
	AlreadyCorrect         int `json:"already_correct"`
	SkippedNoURL           int `json:"skipped_no_url"`
	SkippedCannotDetermine int `json:"skipped_cannot_determine"`
	Errors                 int `json:"errors"`
}

// Skipped is the combined skip count across both sub-reasons.
func (s *BackfillStats) Skipped() int {
	return s.SkippedNoURL + s.SkippedCannotDetermine
}

// LogSummary prints the structured end-of-run summary. Partial failure is
// logged at warning level so it stands out from a clean run.
func (s *BackfillStats) LogSummary(dryRun bool) {
	mode := "live"
	if dryRun {
		mode = "dry-run"
	}
	logger.Infof("document type backfill summary (%s)", mode)
	logger.Infof("  total records:     %d", s.Total)
	logger.Infof("  updated:           %d", s.Updated)
	logger.Infof("  already correct:   %d", s.AlreadyCorrect)
	logger.Infof("  skipped (no url):  %d", s.SkippedNoURL)
	logger.Infof("  skipped (unknown): %d", s.SkippedCannotDetermine)
	if s.Errors > 0 {
		logger.Warnf("  errors:            %d (partial failure, see log above)", s.Errors)
	} else {
		logger.Infof("  errors:            0")
	}
}

// MigrateStats are the end-of-run counters of the folder structure migrator.
type MigrateStats struct {
	Total                 int `json:"total"`
	Migrated              int `json:"migrated"`
	AlreadyInNewStructure int `json:"already_in_new_structure"`
	SkippedNoURL          int `json:"skipped_no_url"`
	Failed                int `json:"failed"`
}

// LogSummary prints the structured end-of-run summary for a migration run.
func (s *MigrateStats) LogSummary(dryRun bool) {
	mode := "live"
	if dryRun {
		mode = "dry-run"
	}
	logger.Infof("folder structure migration summary (%s)", mode)
	logger.Infof("  total records:        %d", s.Total)
	logger.Infof("  migrated:             %d", s.Migrated)
	logger.Infof("  already in structure: %d", s.AlreadyInNewStructure)
	logger.Infof("  skipped (no url):     %d", s.SkippedNoURL)
	if s.Failed > 0 {
		logger.Warnf("  failed:               %d (partial failure, see log above)", s.Failed)
	} else {
		logger.Infof("  failed:               0")
	}
}
