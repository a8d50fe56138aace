package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pmhscreen/internal/catalog"
	"pmhscreen/internal/model"
)

// NewQuestionsCommand creates the 'screenctl questions' command
func NewQuestionsCommand() *cobra.Command {
	var (
		path   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the questionnaire in display order",
		Long: `Load and validate a questionnaire document and print every question
grouped by section. Without --catalog the built-in questionnaire is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, c.ListQuestions())
			}
			printQuestions(out, c)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "catalog", "", "questionnaire document (.json, .yaml)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printQuestions(out io.Writer, c *catalog.Catalog) {
	cyan := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	fmt.Fprintf(out, "Questionnaire version %s\n", c.Version())
	section := ""
	for _, q := range c.ListQuestions() {
		if q.SectionName != section {
			section = q.SectionName
			fmt.Fprintln(out)
			cyan.Fprintln(out, section)
		}
		fmt.Fprintf(out, "  %-10s %s\n", q.ID, q.Text)
		if q.DisplayCondition != nil {
			dim.Fprintf(out, "             shown when %s = %s\n", q.DisplayCondition.DependsOn, q.DisplayCondition.ShowIfValue)
		}
		if len(q.Options) > 0 {
			dim.Fprintf(out, "             options: %s\n", optionSummary(q.Options))
		}
	}
}

func optionSummary(opts []model.ResponseOption) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = o.Value + "=" + o.Label
	}
	return strings.Join(parts, ", ")
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
