package client

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-delta-sync/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (a *App) printPull(response models.PullResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}

	title := titleStyle.Render(fmt.Sprintf("pulled %d changes", response.Changes.Len()))
	footer := faintStyle.Render(fmt.Sprintf("next watermark: %d", response.Timestamp))

	_, err := fmt.Fprintln(a.out, lipgloss.JoinVertical(lipgloss.Left,
		title,
		boxStyle.Render(changesTable(response.Changes)),
		footer,
	))
	return err
}

func (a *App) printPush(changes models.Changes) error {
	title := okStyle.Render(fmt.Sprintf("pushed %d changes", changes.Len()))

	_, err := fmt.Fprintln(a.out, lipgloss.JoinVertical(lipgloss.Left,
		title,
		boxStyle.Render(changesTable(changes)),
	))
	return err
}

func (a *App) printHealthy() error {
	_, err := fmt.Fprintln(a.out, okStyle.Render("server is serving"))
	return err
}

func printVersion(out io.Writer, info models.AppBuildInfo) error {
	lines := []string{
		titleStyle.Render("syncctl"),
		fmt.Sprintf("%s %s", faintStyle.Render("version:"), orNA(info.BuildVersion())),
		fmt.Sprintf("%s %s", faintStyle.Render("date:   "), orNA(info.BuildDate())),
		fmt.Sprintf("%s %s", faintStyle.Render("commit: "), orNA(info.BuildCommit())),
	}
	_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}

// changesTable renders per-table bucket sizes, tables in name order.
func changesTable(changes models.Changes) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %8s %8s %8s", "TABLE", "CREATED", "UPDATED", "DELETED")

	for _, table := range slices.Sorted(maps.Keys(changes)) {
		c := changes[table]
		fmt.Fprintf(&b, "\n%-12s %8d %8d %8d", table, len(c.Created), len(c.Updated), len(c.Deleted))
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
