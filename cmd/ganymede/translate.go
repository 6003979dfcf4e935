package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spend-hq/ganymede/pkg/policy/translate"
)

var translateFlags struct {
	format  string
	latency time.Duration
}

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate a rule description into a structured rule",
	Long: `Translate a free-form rule description into a structured rule
container, printing the extracted rule and the explanation of what was
understood.

Translation is total: any input produces a rule, falling back to defaults
for parts it cannot extract.

Examples:
  # Translate a rule description
  ganymede translate "require approval from any manager when a transaction is over $500"

  # Print the extracted container as JSON
  ganymede translate --format json "notify finance when marketing spends"`,
	Args: cobra.MinimumNArgs(1),
	RunE: translateText,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&translateFlags.format, "format", "text", "output format: text, json")
	translateCmd.Flags().DurationVar(&translateFlags.latency, "latency", 0, "simulated round-trip latency")
}

func translateText(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	client := translate.NewClient(translate.New(), translate.WithLatency(translateFlags.latency))
	resp, err := client.Generate(context.Background(), text)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	switch translateFlags.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "text":
		fmt.Println(resp.Explanation)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", translateFlags.format)
	}
}
