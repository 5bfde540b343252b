package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"
)

const maxDays = 366

type WriteOptions struct {
	IncludeDone  bool
	IncludeTasks bool
	Overwrite    bool
	// HTML also writes an .html page next to every .md page.
	HTML bool
}

type WriteResult struct {
	Written []string `json:"written" yaml:"written"`
}

// WriteRange publishes days consecutive agenda pages starting at from:
// <toDir>/index.md, <toDir>/days/<date>.md and optionally <toDir>/tasks.md.
func WriteRange(snap model.Snapshot, from calendar.Date, days int, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	if days < 1 || days > maxDays {
		return WriteResult{}, errors.New("--days must be between 1 and 366")
	}
	toDir = filepath.Clean(toDir)

	dates := make([]calendar.Date, 0, days)
	d := from
	for i := 0; i < days; i++ {
		dates = append(dates, d)
		d = calendar.NextDay(d)
	}

	daysDir := filepath.Join(toDir, "days")
	if err := os.MkdirAll(daysDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	var written []string
	page := func(base, title, md, htmlMD string) error {
		p := base + ".md"
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return err
		}
		written = append(written, p)
		if !opt.HTML {
			return nil
		}
		doc, err := RenderHTMLPage(title, htmlMD)
		if err != nil {
			return err
		}
		p = base + ".html"
		if err := writeFile(p, []byte(doc), opt.Overwrite); err != nil {
			return err
		}
		written = append(written, p)
		return nil
	}

	if err := page(filepath.Join(toDir, "index"), "Agenda",
		RenderIndexMarkdown(snap, dates, opt.IncludeTasks),
		renderIndex(snap, dates, opt.IncludeTasks, ".html")); err != nil {
		return WriteResult{}, err
	}

	ropt := RenderOptions{IncludeDone: opt.IncludeDone}
	for _, date := range dates {
		md := RenderDayMarkdown(snap, date)
		if err := page(filepath.Join(daysDir, date.String()), date.String(), md, md); err != nil {
			return WriteResult{}, err
		}
	}

	if opt.IncludeTasks {
		md := RenderTasksMarkdown(snap, ropt)
		if err := page(filepath.Join(toDir, "tasks"), "Tasks", md, md); err != nil {
			return WriteResult{}, err
		}
	}

	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
