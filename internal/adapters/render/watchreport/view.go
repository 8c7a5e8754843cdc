package watchreport

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dramaradar/internal/application"
	"github.com/bnema/dramaradar/internal/domain"
)

type RenderOptions struct {
	// Location formats timestamps; nil falls back to UTC.
	Location *time.Location
}

func (o RenderOptions) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Render formats a completed watch run for the terminal.
func Render(report application.Report, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderReport(report, opts, s)
	})
}

// RenderSeen formats the durable seen-set listing, newest first.
func RenderSeen(records []domain.SeenRecord, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderSeen(records, opts, s)
	})
}

func renderReport(report application.Report, opts RenderOptions, s styles) string {
	header := fmt.Sprintf("observed: %d   new: %d   notified: %d", report.Observed, report.New, report.Notified)

	lines := []string{
		s.title.Render("Maoyan Web-Heat Watch"),
		s.header.Render(header + badges(report, s)),
		s.header.Render("ran at " + report.RanAt.In(opts.location()).Format("2006-01-02 15:04:05")),
	}

	switch {
	case report.Baseline:
		lines = append(lines, s.empty.Render(fmt.Sprintf(
			"Baseline run: recorded %d titles, notifications suppressed.", report.Observed)))
	case report.New == 0:
		lines = append(lines, s.empty.Render("No new titles."))
	default:
		for _, item := range report.NewItems {
			lines = append(lines, itemLine(item, s))
		}
	}

	if report.Failed > 0 {
		lines = append(lines, s.warning.Render(fmt.Sprintf("%d notification(s) failed to deliver.", report.Failed)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func badges(report application.Report, s styles) string {
	out := ""
	if report.Baseline {
		out += "   " + s.badge.Render("[baseline]")
	}
	if report.DryRun {
		out += "   " + s.badge.Render("[dry-run]")
	}
	return out
}

func itemLine(item domain.RankedItem, s styles) string {
	parts := []string{
		s.rank.Render(fmt.Sprintf("#%d", item.Rank)),
		" ",
		s.item.Render(item.Title),
	}

	if detail := itemDetail(item); detail != "" {
		parts = append(parts, " ", s.detail.Render("("+detail+")"))
	}
	if item.IsFirstDay {
		parts = append(parts, " ", s.firstDay.Render("[first day]"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func itemDetail(item domain.RankedItem) string {
	switch {
	case item.Platform != "" && item.OnlineDesc != "":
		return item.Platform + "；" + item.OnlineDesc
	case item.Platform != "":
		return item.Platform
	default:
		return item.OnlineDesc
	}
}

func renderSeen(records []domain.SeenRecord, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Seen Titles"),
		s.header.Render(fmt.Sprintf("titles: %d", len(records))),
	}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render("Seen-set is empty; the next run is a baseline."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	loc := opts.location()
	for _, rec := range records {
		line := lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.item.Render(rec.Title),
			" ",
			s.detail.Render(seenDetail(rec)),
			" ",
			s.rank.Render("first seen "+rec.FirstSeenAt.In(loc).Format("2006-01-02 15:04")),
		)
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func seenDetail(rec domain.SeenRecord) string {
	if rec.Platform == "" {
		return ""
	}
	return "(" + rec.Platform + ")"
}
