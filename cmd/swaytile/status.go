package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/swaytile/internal/layout"
	"github.com/1broseidon/swaytile/internal/manager"
)

var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	driftedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type statusReport struct {
	Outputs    []string                 `json:"outputs"`
	Workspaces []manager.WorkspaceState `json:"workspaces"`
}

func newStatusCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show every workspace with its live and canonical number",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withManager(cmd.Context(), func(_ context.Context, m *manager.Manager) error {
				report := statusReport{Outputs: []string{}, Workspaces: m.Layout()}
				for _, out := range layout.RankOutputs(m.Outputs()) {
					report.Outputs = append(report.Outputs, out.Name)
				}
				if asJSON {
					enc := json.NewEncoder(a.stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}
				printStatus(a.stdout, report, isTerminal(a.stdout))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printStatus(w io.Writer, report statusReport, styled bool) {
	render := func(style lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return style.Render(s)
	}

	tbl := table.New("GROUP", "OUTPUT", "WORKSPACE", "NUM", "CANONICAL", "")
	if styled {
		tbl.WithFirstColumnFormatter(func(format string, vals ...interface{}) string {
			return boldStyle.Render(fmt.Sprintf(format, vals...))
		})
	}
	tbl.WithPadding(2)
	tbl.WithWidthFunc(lipgloss.Width)
	tbl.WithWriter(w)

	drifted := 0
	for _, ws := range report.Workspaces {
		canonical := strconv.Itoa(ws.Canonical)
		if ws.Drifted() {
			drifted++
			canonical = render(driftedStyle, canonical+" *")
		}
		marker := ""
		if ws.Focused {
			marker = render(focusStyle, "focused")
		}
		num := "-"
		if ws.Num >= 0 {
			num = strconv.Itoa(ws.Num)
		}
		tbl.AddRow(ws.Group, ws.Output, ws.Name, num, canonical, marker)
	}
	tbl.Print()

	if drifted > 0 {
		fmt.Fprintf(w, "\n%d workspace(s) out of order; run `swaytile reorder`\n", drifted)
	}
}
