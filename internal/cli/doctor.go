package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"dayplanner/internal/model"
	"dayplanner/internal/store"

	"github.com/spf13/cobra"
)

type doctorIssue struct {
	Level   string `json:"level" yaml:"level"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

type doctorReport struct {
	Dir       string            `json:"dir" yaml:"dir"`
	Backend   string            `json:"backend" yaml:"backend"`
	Path      string            `json:"path,omitempty" yaml:"path,omitempty"`
	Events    int               `json:"events" yaml:"events"`
	Tasks     int               `json:"tasks" yaml:"tasks"`
	NextID    uint32            `json:"nextId" yaml:"nextId"`
	MaxID     uint32            `json:"maxId" yaml:"maxId"`
	UpdatedAt map[string]string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Issues    []doctorIssue     `json:"issues" yaml:"issues"`
	Repaired  bool              `json:"repaired" yaml:"repaired"`
}

func (r doctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == "error" {
			return true
		}
	}
	return false
}

func (r doctorReport) has(code string) bool {
	for _, it := range r.Issues {
		if it.Code == code {
			return true
		}
	}
	return false
}

func (r doctorReport) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dir:     %s\n", r.Dir)
	fmt.Fprintf(&b, "backend: %s\n", r.Backend)
	if r.Path != "" {
		fmt.Fprintf(&b, "path:    %s\n", r.Path)
	}
	fmt.Fprintf(&b, "events:  %d\ntasks:   %d\nnext id: %d (max id %d)", r.Events, r.Tasks, r.NextID, r.MaxID)
	if len(r.Issues) == 0 {
		b.WriteString("\nok")
	}
	for _, it := range r.Issues {
		fmt.Fprintf(&b, "\n%s: %s (%s)", it.Level, it.Message, it.Code)
	}
	if r.Repaired {
		b.WriteString("\nrepaired: saved a consistent snapshot")
	}
	return b.String()
}

type updatedAtReader interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

func newDoctorCmd(app *App) *cobra.Command {
	var (
		fail   bool
		repair bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the planner store for inconsistencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := app.diagnose(bg())

			if repair && report.has("next_id_behind") {
				pl, release, err := app.openPlanner(app.today())
				if err != nil {
					return writeErr(cmd, err)
				}
				err = pl.Flush()
				release()
				if err != nil {
					return writeErr(cmd, fmt.Errorf("repair: %w", err))
				}
				report = app.diagnose(bg())
				report.Repaired = true
			}

			if err := writeOut(cmd, app, envelope{
				Data: report,
				Meta: map[string]any{
					"issues":    len(report.Issues),
					"hasErrors": report.HasErrors(),
				},
				Hints: []string{"dayplanner doctor --repair"},
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	cmd.Flags().BoolVar(&repair, "repair", false, "Rewrite the store with a repaired id counter")
	return cmd
}

func (app *App) diagnose(ctx context.Context) doctorReport {
	snap := store.Load(ctx, app.records)
	r := doctorReport{
		Dir:    app.Dir,
		Events: len(snap.Events),
		Tasks:  len(snap.Tasks),
		NextID: snap.NextID,
		MaxID:  model.MaxID(snap.Events, snap.Tasks),
		Issues: []doctorIssue{},
	}

	switch rec := app.records.(type) {
	case store.SQLiteRecords:
		r.Backend = "sqlite"
		r.Path = rec.Store.SQLitePath()
		if _, err := os.Stat(r.Path); os.IsNotExist(err) {
			r.Issues = append(r.Issues, doctorIssue{Level: "info", Code: "store_missing", Message: "no database yet; it is created on first save"})
		}
	default:
		r.Backend = "memory"
	}

	if ua, ok := app.records.(updatedAtReader); ok {
		r.UpdatedAt = map[string]string{}
		for _, key := range []string{store.KeyEvents, store.KeyTasks, store.KeyNextID} {
			ts, err := ua.UpdatedAt(ctx, key)
			if err != nil {
				r.Issues = append(r.Issues, doctorIssue{Level: "error", Code: "read_failed", Message: fmt.Sprintf("%s: %v", key, err)})
				continue
			}
			if !ts.IsZero() {
				r.UpdatedAt[key] = ts.Format(time.RFC3339)
			}
		}
	}

	if r.MaxID == math.MaxUint32 {
		r.Issues = append(r.Issues, doctorIssue{
			Level:   "error",
			Code:    "ids_exhausted",
			Message: fmt.Sprintf("id %d is in use; no more events or tasks can be created", r.MaxID),
		})
	} else if r.MaxID > 0 && r.NextID <= r.MaxID {
		r.Issues = append(r.Issues, doctorIssue{
			Level:   "error",
			Code:    "next_id_behind",
			Message: fmt.Sprintf("next_id %d is not above the largest id %d", r.NextID, r.MaxID),
		})
	}

	seen := map[uint32]string{}
	for _, e := range snap.Events {
		if prev, ok := seen[e.ID]; ok {
			r.Issues = append(r.Issues, doctorIssue{Level: "warn", Code: "duplicate_id", Message: fmt.Sprintf("event %d reuses an id already held by a %s", e.ID, prev)})
			continue
		}
		seen[e.ID] = "event"
	}
	for _, t := range snap.Tasks {
		if prev, ok := seen[t.ID]; ok {
			r.Issues = append(r.Issues, doctorIssue{Level: "warn", Code: "duplicate_id", Message: fmt.Sprintf("task %d reuses an id already held by a %s", t.ID, prev)})
			continue
		}
		seen[t.ID] = "task"
	}
	return r
}
