package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// NewValidationCmd создаёт группу команд для работы с проверками через API.
func NewValidationCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validation",
		Short: "Manage pipeline validations",
	}

	cmd.AddCommand(
		newValidationListCmd(clientFn, outputFn),
		newValidationSubmitCmd(clientFn, outputFn),
		newValidationShowCmd(clientFn, outputFn),
		newValidationFindingsCmd(clientFn, outputFn),
		newValidationGraphCmd(clientFn, outputFn),
		newValidationDeleteCmd(clientFn, outputFn),
		newValidationFormatsCmd(clientFn, outputFn),
	)

	return cmd
}

// validationRow формирует строку таблицы для одной проверки.
func validationRow(v ValidationResponse) []string {
	return []string{
		v.ID,
		v.PipelineName,
		v.Status,
		strconv.Itoa(v.StageCount),
		strconv.Itoa(v.FindingCount),
		v.SubmittedAt,
	}
}

var validationHeaders = []string{"ID", "PIPELINE", "STATUS", "STAGES", "FINDINGS", "SUBMITTED"}

func newValidationListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List validations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			validations, err := client.ListValidations(limit)
			if err != nil {
				return err
			}

			rows := make([][]string, len(validations))
			for i, v := range validations {
				rows[i] = validationRow(v)
			}

			out.Print(validationHeaders, rows, validations)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of validations to list")

	return cmd
}

func newValidationSubmitCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var specFile string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a pipeline spec for validation",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(specFile)
			if err != nil {
				return fmt.Errorf("failed to read spec file: %w", err)
			}

			// Валидируем что это валидный JSON
			if !json.Valid(data) {
				return fmt.Errorf("spec file is not valid JSON")
			}

			validation, err := client.CreateValidation(json.RawMessage(data))
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Validation submitted: %s (%s)", validation.ID, validation.Status))
			out.Print(validationHeaders, [][]string{validationRow(validation.ValidationResponse)}, validation)
			return nil
		},
	}

	cmd.Flags().StringVar(&specFile, "spec-file", "", "Path to spec JSON file (required)")
	cmd.MarkFlagRequired("spec-file")

	return cmd
}

func newValidationShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show validation details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			validation, err := client.GetValidation(args[0])
			if err != nil {
				return err
			}

			out.Print(validationHeaders, [][]string{validationRow(validation.ValidationResponse)}, validation)
			return nil
		},
	}
}

func newValidationFindingsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "findings ID",
		Short: "Show missing-dependency findings of a validation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			findings, err := client.GetFindings(args[0])
			if err != nil {
				return err
			}

			if findings.Consistent {
				out.Success("Pipeline is consistent")
			} else {
				out.Success(fmt.Sprintf("Pipeline is inconsistent: %d finding(s)", len(findings.Findings)))
			}

			rows := make([][]string, len(findings.Findings))
			for i, f := range findings.Findings {
				rows[i] = []string{f.StageName, f.MissingKindName}
			}

			out.Print([]string{"STAGE", "MISSING KIND"}, rows, findings)
			return nil
		},
	}
}

func newValidationGraphCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var format string
	var outFile string

	cmd := &cobra.Command{
		Use:   "graph ID",
		Short: "Export the dataflow graph of a validation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := client.GetGraph(args[0], format)
			if err != nil {
				return err
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, data, 0o644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				out.Success(fmt.Sprintf("Graph written to %s", outFile))
				return nil
			}

			out.Raw(data)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format (json, dot, mermaid)")
	cmd.Flags().StringVar(&outFile, "out", "", "Write graph to file instead of stdout")

	return cmd
}

func newValidationDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a validation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteValidation(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Validation deleted: %s", args[0]))
			return nil
		},
	}
}

func newValidationFormatsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List available graph export formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			formats, err := client.ListFormats()
			if err != nil {
				return err
			}

			rows := make([][]string, len(formats))
			for i, f := range formats {
				rows[i] = []string{f}
			}

			out.Print([]string{"FORMAT"}, rows, formats)
			return nil
		},
	}
}
