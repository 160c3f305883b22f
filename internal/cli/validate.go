package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Flowlens/internal/engine"
	"github.com/shaiso/Flowlens/internal/export"
)

// NewValidateCmd создаёт команду локальной проверки спецификации.
// Работает без сервера: parse → прогон → вывод графа и findings.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	var format string
	var outFile string
	var strict bool
	var firstMatch bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a pipeline spec locally and print its dataflow graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read spec file: %w", err)
			}

			spec, err := engine.Parse(data)
			if err != nil {
				return err
			}

			policy := engine.MatchAllProducers
			if firstMatch {
				policy = engine.MatchFirstProducer
			}

			result, err := engine.NewProcessor(engine.WithPolicy(policy)).Process(spec.Stages)
			if err != nil {
				return err
			}

			for _, f := range result.Findings {
				out.Error(fmt.Sprintf("stage %s: missing dependency %s", f.StageName, f.MissingKindName))
			}

			exporter, err := export.DefaultRegistry().Get(format)
			if err != nil {
				return err
			}

			rendered, err := exporter.Export(&result.Graph)
			if err != nil {
				return err
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, rendered, 0o644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				out.Success(fmt.Sprintf("Graph written to %s", outFile))
			} else {
				out.Raw(rendered)
			}

			if !result.IsConsistent() {
				out.Success(fmt.Sprintf("Pipeline is inconsistent: %d finding(s)", len(result.Findings)))
				if strict {
					return fmt.Errorf("pipeline has %d missing dependencies", len(result.Findings))
				}
			} else {
				out.Success("Pipeline is consistent")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, dot, mermaid)")
	cmd.Flags().StringVar(&outFile, "out", "", "Write graph to file instead of stdout")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with error if findings are present")
	cmd.Flags().BoolVar(&firstMatch, "first-match", false, "Match shared kinds against the earliest producer only")

	return cmd
}
