package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dayplanner/internal/ics"
	"dayplanner/internal/model"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as iCalendar (.ics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.loadSnapshot()

			var buf bytes.Buffer
			if err := ics.Export(&buf, snap.Events, app.Now()); err != nil {
				return writeErr(cmd, fmt.Errorf("export events: %w", err))
			}

			out = strings.TrimSpace(out)
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return writeErr(cmd, fmt.Errorf("write %s: %w", out, err))
			}
			return writeOut(cmd, app, envelope{
				Data: messageOut{Message: fmt.Sprintf("exported %d events to %s", len(snap.Events), out)},
				Meta: map[string]any{"events": len(snap.Events), "path": out},
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

type importOut struct {
	ics.Stats `yaml:",inline"`

	Path  string `json:"path" yaml:"path"`
	Added int    `json:"added" yaml:"added"`
}

func (o importOut) Text() string {
	s := fmt.Sprintf("imported %d events from %s", o.Added, o.Path)
	if o.Skipped > 0 {
		s += fmt.Sprintf(" (%d skipped)", o.Skipped)
	}
	if o.Recurring > 0 {
		s += fmt.Sprintf(" (%d recurring, first occurrence only)", o.Recurring)
	}
	return s
}

func newImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Import events from an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer f.Close()

			events, stats, err := ics.Import(f)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("import %s: %w", path, err))
			}

			out := importOut{Path: path, Stats: stats}
			if !dryRun {
				pl, release, err := app.openPlanner(app.today())
				if err != nil {
					return writeErr(cmd, err)
				}
				defer release()
				out.Added = pl.ImportEvents(events)
				if err := pl.Flush(); err != nil {
					return writeErr(cmd, fmt.Errorf("save imported events: %w", err))
				}
				if pl.IDsExhausted() && out.Added < len(events) {
					return writeErr(cmd, fmt.Errorf("imported %d of %d events: %w", out.Added, len(events), model.ErrIDsExhausted))
				}
			}
			return writeOut(cmd, app, envelope{
				Data: out,
				Meta: map[string]any{"dryRun": dryRun},
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and report without saving")
	return cmd
}
