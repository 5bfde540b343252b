package cli

import (
	"fmt"
	"os"
	"strings"

	"dayplanner/internal/docs"

	"github.com/spf13/cobra"
)

type docsOut struct {
	Topic    string `json:"topic" yaml:"topic"`
	Markdown string `json:"markdown" yaml:"markdown"`

	rendered string
}

func (d docsOut) Text() string { return d.rendered }

type topicsOut struct {
	Topics []string `json:"topics" yaml:"topics"`
}

func (t topicsOut) Text() string {
	return "Topics: " + strings.Join(t.Topics, ", ") + "\n\nRun `dayplanner docs <topic>`."
}

func newDocsCmd(app *App) *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, envelope{Data: topicsOut{Topics: docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("%w (run `dayplanner docs` to list topics)", errNotFound("docs topic", topic)))
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			return writeOut(cmd, app, envelope{Data: docsOut{
				Topic:    strings.ToLower(strings.TrimSpace(topic)),
				Markdown: body,
				rendered: docs.Render(body, width, app.docsStyle()),
			}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap rendered text at this width")
	return cmd
}

// docsStyle picks a glamour style; plain ascii when colors are off.
func (app *App) docsStyle() string {
	if app.cfg.UI.ASCII || os.Getenv("NO_COLOR") != "" {
		return "ascii"
	}
	if strings.EqualFold(os.Getenv("DAYPLANNER_TUI_THEME"), "light") {
		return "light"
	}
	return "dark"
}
