package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/critpath/pkg/pipeline"
)

// browseCommand creates the interactive schedule browser.
func (c *CLI) browseCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore the schedule of a task file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, path string, flags analysisFlags) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	opts := c.options(path, flags)

	tasks, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	res, _, err := runner.Analyze(ctx, tasks, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewScheduleModel(res), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
