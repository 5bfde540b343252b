package main

import (
	"os"
	"regexp"
	"strings"

	"dayplanner/internal/cli"
)

var (
	reDay   = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	reMonth = regexp.MustCompile(`^\d{4}-\d{1,2}$`)
)

// shortcutFor maps a bare date or month argument to the command that shows it.
func shortcutFor(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case reDay.MatchString(s):
		return "agenda"
	case reMonth.MatchString(s):
		return "month"
	default:
		return ""
	}
}

func rewriteDateShortcutArgs(argv []string) []string {
	// Convenience: `dayplanner 2026-01-05` works like `dayplanner agenda 2026-01-05`
	// and `dayplanner 2026-02` like `dayplanner month 2026-02`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
	// Persistent flags may come first (`dayplanner --dir ... 2026-01-05`), so look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":    true,
		"--config": true,
		"--format": true,
	}
	boolFlags := map[string]bool{
		"--pretty":    true,
		"--ephemeral": true,
	}

	insert := func(i int, sub string) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, sub)
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				if sub := shortcutFor(argv[i+1]); sub != "" {
					return insert(i+1, sub)
				}
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if sub := shortcutFor(a); sub != "" {
			return insert(i, sub)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDateShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
