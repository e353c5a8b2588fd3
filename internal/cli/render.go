package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/critpath/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	analysisFlags
	output      string // output file path (or base path for multiple formats)
	formats     string // comma-separated output formats
	detailed    bool   // show operation, crew and slack in node labels
	detailedSet bool   // whether --detailed was given, so it overrides the config file
	noCache     bool   // skip the artifact cache entirely
	refresh     bool   // re-render and overwrite cached artifacts
}

// renderCommand creates the render command for drawing network diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the network diagram of a task file",
		Long: `Draw the project network diagram: one node per task, an edge per
dependency, with the critical path highlighted.

Without -o, files are written next to the input with the format as extension.
PDF output requires rsvg-convert (librsvg).`,
		Example: `  critpath render site.yaml
  critpath render site.yaml -f svg,png -o out/site
  critpath render site.yaml -f dot --detailed -o - | dot -Tpdf > site.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.detailedSet = cmd.Flags().Changed("detailed")
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show operation, duration, crew and slack in nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the diagram cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if the diagram is cached")

	return cmd
}

// runRender runs the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, input string, opts renderOpts) error {
	popts := c.options(input, opts.analysisFlags)
	if formats := parseFormats(opts.formats); len(formats) > 0 {
		popts.Formats = formats
	}
	if len(popts.Formats) == 0 {
		popts.Formats = []string{pipeline.DefaultFormat}
	}
	if opts.detailedSet {
		popts.Detailed = opts.detailed
	}
	popts.Refresh = opts.refresh
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}
	if opts.output == "-" && len(popts.Formats) != 1 {
		return fmt.Errorf("-o - writes a single format, got %s", strings.Join(popts.Formats, ","))
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, "Rendering "+input)
	spin.Start()
	result, err := runner.Execute(ctx, popts)
	spin.Stop()
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	formats := slices.Sorted(maps.Keys(result.Artifacts))
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(opts.output, input, format, len(formats))
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, path)
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(len(paths), "file")))

	printSuccess("Rendered %s: %s, critical path %s", input,
		plural(result.Analysis.Duration, "day"), strings.Join(result.Analysis.CriticalPath, " "+iconArrow+" "))
	if n := len(result.Analysis.Dropped); n > 0 {
		printWarning("Ignored %d dependencies on unknown tasks", n)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// outputPath derives the file written for format. A single format with an
// explicit output uses it verbatim; otherwise the format is appended to the
// base path.
func outputPath(output, input, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
