package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pmhscreen/internal/model"
	"pmhscreen/internal/scoring"
)

type classifyOutput struct {
	RiskResult model.RiskResult    `json:"risk_result"`
	Routing    model.RoutingResult `json:"routing"`
}

// NewClassifyCommand creates the 'screenctl classify' command
func NewClassifyCommand() *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an answer file without storing it",
		Long: `Read a JSON object of question id to answer (string, number or null)
and print the risk classification and care routing. Use --file - for stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readAnswers(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			responses, err := model.NormalizeResponses(raw)
			if err != nil {
				return err
			}

			result := classifyOutput{
				RiskResult: scoring.Classify(responses),
				Routing:    scoring.RouteResponses(responses),
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			printClassification(out, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "answers JSON file, - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.MarkFlagRequired("file")
	return cmd
}

func readAnswers(stdin io.Reader, file string) (map[string]*string, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	var values map[string]interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}

	return model.RawAnswers(values)
}

func printClassification(out io.Writer, r classifyOutput) {
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)

	if r.RiskResult.IsHighRisk() {
		red.Fprintf(out, "%s", r.RiskResult.Classification)
		fmt.Fprintf(out, " (%s)\n", r.RiskResult.RuleName())
	} else {
		green.Fprintf(out, "%s\n", r.RiskResult.Classification)
	}
	fmt.Fprintf(out, "Reason:          %s\n", r.RiskResult.Reason)
	fmt.Fprintf(out, "PHQ-2 total:     %d/%d\n", r.RiskResult.PHQ2Total, model.PHQ2TotalMax)
	fmt.Fprintf(out, "High-risk flags: %d\n", r.RiskResult.HighRiskFlags)
	fmt.Fprintf(out, "Lifestyle risks: %d\n", r.RiskResult.LifestyleRisk)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Care setting:    %s\n", r.Routing.SettingName)
	fmt.Fprintf(out, "Has provider:    %t\n", r.Routing.ExistingProvider)
	fmt.Fprintf(out, "Referral:        %s\n", r.Routing.ReferralText)
}

// NewRouteCommand creates the 'screenctl route' command
func NewRouteCommand() *cobra.Command {
	var talk string

	cmd := &cobra.Command{
		Use:   "route [care-setting-code]",
		Short: "Show the care routing table or route one code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, s := range scoring.CareSettings() {
					fmt.Fprintf(out, "%s  %s\n", s.Code, s.Name)
				}
				fmt.Fprintf(out, "*  %s\n", scoring.NoRegularProvider.Name)
				return nil
			}

			r := scoring.Route(talk, args[0])
			fmt.Fprintf(out, "Care setting:    %s\n", r.SettingName)
			fmt.Fprintf(out, "Has provider:    %t\n", r.ExistingProvider)
			fmt.Fprintf(out, "Referral:        %s\n", r.ReferralText)
			return nil
		},
	}

	cmd.Flags().StringVar(&talk, "talk", "", "answer to the provider-talk question (2 = yes)")
	return cmd
}
