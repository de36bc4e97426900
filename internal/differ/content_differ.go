package differ

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeStats summarizes a line-level comparison between two snapshot bodies.
type ChangeStats struct {
	LinesAdded   int `json:"lines_added"`
	LinesRemoved int `json:"lines_removed"`
}

// HasChanges reports whether any lines were added or removed.
func (cs *ChangeStats) HasChanges() bool {
	return cs != nil && (cs.LinesAdded > 0 || cs.LinesRemoved > 0)
}

// ContentDiffer produces a line-level change summary between two snapshot
// bodies. It complements the URL diff: the URL diff drives notifications,
// the change summary gives them context about how much of the document moved.
type ContentDiffer struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	logger zerolog.Logger
}

// NewContentDiffer creates a new ContentDiffer.
func NewContentDiffer(logger zerolog.Logger) *ContentDiffer {
	return &ContentDiffer{
		dmp:    diffmatchpatch.New(),
		logger: logger.With().Str("component", "ContentDiffer").Logger(),
	}
}

// Summarize compares two bodies line-by-line and returns added/removed
// line counts.
func (cd *ContentDiffer) Summarize(previousBody, currentBody string) *ChangeStats {
	prevChars, currChars, lines := cd.dmp.DiffLinesToChars(previousBody, currentBody)
	diffs := cd.dmp.DiffMain(prevChars, currChars, false)
	diffs = cd.dmp.DiffCharsToLines(diffs, lines)

	stats := &ChangeStats{}
	for _, diff := range diffs {
		lineCount := countLines(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			stats.LinesAdded += lineCount
		case diffmatchpatch.DiffDelete:
			stats.LinesRemoved += lineCount
		}
	}

	cd.logger.Debug().
		Int("lines_added", stats.LinesAdded).
		Int("lines_removed", stats.LinesRemoved).
		Msg("Computed content change summary")

	return stats
}

// countLines counts the lines in a diff fragment; a trailing fragment
// without a newline still counts as one line.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	count := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		count++
	}
	return count
}
