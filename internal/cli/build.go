package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckbuild/pkg/pipeline"
)

// buildOptions holds the flags for the build command.
type buildOptions struct {
	output      string
	formats     string
	parallelism int
	creator     string
	noCache     bool
	refresh     bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build <script>",
		Short: "Assemble a script into a presentation deck",
		Long: `Assemble a construction script (TOML, YAML or JSON) into a deck and write it.

Pass "-" as the script to build the bundled sample deck.`,
		Example: `  deckbuild build talk.toml
  deckbuild build talk.yaml -o slides/talk.pptx
  deckbuild build talk.toml -f pptx,json --parallel 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base name")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: "+validOutputFormats()+" (default pptx)")
	cmd.Flags().IntVar(&opts.parallelism, "parallel", pipeline.DefaultParallelism, "slides built concurrently")
	cmd.Flags().StringVar(&opts.creator, "creator", "", "document creator property")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and re-render")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, path string, opts buildOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := loadScript(path)
	if err != nil {
		return err
	}
	if s.Len() == 0 {
		printWarning("Script has no entries; the deck will be empty")
	}

	popts := pipeline.Options{
		Formats:     parseFormats(opts.formats),
		Parallelism: opts.parallelism,
		Refresh:     opts.refresh,
		Creator:     opts.creator,
		Logger:      logger,
	}
	if err := popts.Validate(); err != nil {
		return err
	}

	paths, err := outputPaths(path, opts.output, popts.Formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Building deck...")
	spin.Start()
	result, err := runner.Execute(ctx, s, popts)
	if err != nil {
		spin.StopWithError("Build failed")
		return err
	}
	spin.Stop()
	prog.done("Deck built", "slides", result.Stats.Slides, "run", result.RunID[:8])

	formats := make([]string, 0, len(result.Artifacts))
	for f := range result.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	printSuccess("Deck built")
	printStats(result.Stats.Slides, result.Stats.SlidesByKind, cacheLabel(result.CacheInfo.RenderHit))
	printDeckHash(result.DeckHash)
	for _, f := range formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
		printArtifact(f, paths[f], len(result.Artifacts[f]))
	}
	logger.Debug("build finished", "run", result.RunID, "hash", result.DeckHash)
	return nil
}
