package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	taskio "github.com/matzehuels/critpath/pkg/io"
	"github.com/matzehuels/critpath/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	analysisFlags
	json   bool   // print the result as JSON instead of a table
	output string // write the JSON result to this file
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Compute the schedule, critical path and crew demand of a task file",
		Long: `Compute the schedule of a task file.

The file may be JSON, YAML, TOML or HCL; the format follows the extension.
Every task gets its earliest and latest start and finish day and its slack,
and the report lists the critical path and the crew on site per day.`,
		Example: `  critpath analyze site.yaml
  critpath analyze site.yaml --window earliest
  critpath analyze site.json --json | jq .critical_path
  critpath analyze site.json -o schedule.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON result to a file")

	return cmd
}

// runAnalyze loads and analyzes the task file. Analysis is never cached,
// so no cache backend is opened.
func (c *CLI) runAnalyze(ctx context.Context, w io.Writer, path string, opts analyzeOpts) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	popts := c.options(path, opts.analysisFlags)

	tasks, err := runner.Load(ctx, popts)
	if err != nil {
		return err
	}
	res, _, err := runner.Analyze(ctx, tasks, popts)
	if err != nil {
		return err
	}

	switch {
	case opts.output != "":
		if err := taskio.ExportResult(res, opts.output); err != nil {
			return err
		}
		printSuccess("Schedule of %s written", plural(len(res.Tasks), "task"))
		printFile(opts.output)
		return nil
	case opts.json:
		return taskio.WriteResult(w, res)
	}

	printSchedule(w, res)
	printNewline()
	printNextStep("Draw the network diagram", fmt.Sprintf("%s render %s", appName, path))
	return nil
}
