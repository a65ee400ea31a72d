package data

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// ReportEntry is the outcome of one solver on one benchmark file.
type ReportEntry struct {
	Name      string  `yaml:"name"`
	Score     uint64  `yaml:"score"`
	BestKnown uint64  `yaml:"best_known"`
	Seconds   float64 `yaml:"seconds"`
}

// PercentError is the relative gap to the best known score, in percent.
// Zero when no best known score is recorded.
func (e ReportEntry) PercentError() float64 {
	if e.BestKnown == 0 {
		return 0
	}
	best := float64(e.BestKnown)
	return (best - float64(e.Score)) / best * 100
}

// Report collects one solver's results over a benchmark directory.
type Report struct {
	Scheduler string        `yaml:"scheduler"`
	Entries   []ReportEntry `yaml:"entries"`
}

// NewReport creates an empty report for a solver.
func NewReport(scheduler string) *Report {
	return &Report{Scheduler: scheduler}
}

// TotalScore sums the scores of all entries.
func (r *Report) TotalScore() uint64 {
	return lo.SumBy(r.Entries, func(e ReportEntry) uint64 { return e.Score })
}

// TotalSeconds sums the solve times of all entries.
func (r *Report) TotalSeconds() float64 {
	return lo.SumBy(r.Entries, func(e ReportEntry) float64 { return e.Seconds })
}

// MeanPercentError averages the per-file gaps over entries with a known
// best score.
func (r *Report) MeanPercentError() float64 {
	known := lo.Filter(r.Entries, func(e ReportEntry, _ int) bool { return e.BestKnown > 0 })
	if len(known) == 0 {
		return 0
	}
	total := lo.SumBy(known, func(e ReportEntry) float64 { return e.PercentError() })
	return total / float64(len(known))
}

var (
	reportTitleStyle  = lipgloss.NewStyle().Bold(true)
	reportHeaderStyle = lipgloss.NewStyle().Faint(true)
	reportFooterStyle = lipgloss.NewStyle().Faint(true)
)

// Render formats the report for the terminal: filename, time, score and
// percent error per entry, followed by a summary line.
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString(reportTitleStyle.Render("Scheduler: "+r.Scheduler) + "\n")
	b.WriteString(reportHeaderStyle.Render(fmt.Sprintf("%-28s %10s %12s %8s", "file", "time", "score", "error")) + "\n")

	for _, entry := range r.Entries {
		fmt.Fprintf(&b, "%-28s %9.2fs %12d %7.2f%%\n",
			entry.Name, entry.Seconds, entry.Score, entry.PercentError())
	}

	summary := fmt.Sprintf("%d files, total score %d, mean error %.2f%%, %.2fs",
		len(r.Entries), r.TotalScore(), r.MeanPercentError(), r.TotalSeconds())
	b.WriteString(reportFooterStyle.Render(summary) + "\n")

	return b.String()
}
