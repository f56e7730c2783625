// Package static provides non-interactive terminal output components.
//
// This package renders tables of recent entries and installations.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/recents/internal/format"
	"github.com/raphi011/recents/internal/instance"
	"github.com/raphi011/recents/internal/rank"
	"github.com/raphi011/recents/internal/ui/styles"
)

// EntryHeaders are the columns of an entry table.
var EntryHeaders = []string{"NAME", "KIND", "BRANCH", "ACCESSED", "PATH"}

// InstanceHeaders are the columns of an installation table.
var InstanceHeaders = []string{"ID", "NAME", "VERSION", "SOURCE"}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// Highlight renders label with the runes at the given offsets highlighted.
// Offsets outside label are ignored. Without color the label is returned
// unchanged.
func Highlight(label string, offsets []int, color bool) string {
	if !color || len(offsets) == 0 {
		return label
	}

	matched := make(map[int]bool, len(offsets))
	for _, idx := range offsets {
		matched[idx] = true
	}

	var result strings.Builder
	style := styles.MatchHighlightStyle()
	for i, r := range []rune(label) {
		if matched[i] {
			result.WriteString(style.Render(string(r)))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Row holds what the entry table needs from a result.
type Row struct {
	Result rank.Result
	// Home shortens paths below the user's home directory when set.
	Home string
}

// EntryTableRow renders one result. Favorites get a trailing "*" on the name.
func EntryTableRow(r Row, color bool) []string {
	e := r.Result.Entry

	name := Highlight(e.Name(), r.Result.Highlights, color)
	if e.IsFavorite() {
		star := "*"
		if color {
			star = styles.WarningStyle().Render(star)
		}
		name += star
	}

	branch := ""
	if e.HasBranch() {
		branch = e.GitBranch
	}

	path := format.ShortenPath(e.FullPath(), r.Home)
	if color {
		path = styles.MutedStyle().Render(path)
	}

	return []string{
		name,
		e.Kind().String(),
		branch,
		format.RelativeTime(e.LastAccessed()),
		path,
	}
}

// RenderEntries renders results as a table.
func RenderEntries(results []rank.Result, home string, color bool) string {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = EntryTableRow(Row{Result: r, Home: home}, color)
	}
	return RenderTable(EntryHeaders, rows)
}

// InstanceTableRow renders one installation. A trailing "*" marks the
// instance that opens items.
func InstanceTableRow(inst instance.Instance, isDefault bool) []string {
	id := inst.ID
	if isDefault {
		id += "*"
	}
	version := inst.DisplayVersion
	if version == "" {
		version = inst.Version
	}
	source := "locator"
	if inst.Static {
		source = "config"
	}
	return []string{id, inst.Name, version, source}
}

// RenderInstances renders installations as a table.
func RenderInstances(instances []instance.Instance, defaultID string) string {
	rows := make([][]string, len(instances))
	for i, inst := range instances {
		rows[i] = InstanceTableRow(inst, inst.ID == defaultID)
	}
	return RenderTable(InstanceHeaders, rows)
}
