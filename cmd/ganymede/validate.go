package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spend-hq/ganymede/pkg/policy/parser"
)

var validateFlags struct {
	file   string
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a policy document file",
	Long: `Parse a policy document file and run the full constraint validation
the engine applies to every mutation: container kinds, condition subjects
and operators, selector consistency, amount normalization, action
cardinality, and approver uniqueness.

Exit status is non-zero when the document is invalid.

Examples:
  # Validate a document
  ganymede validate --file policy.yaml

  # Machine-readable output
  ganymede validate --file policy.yaml --format json`,
	RunE: validateDocument,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "policy document file (required)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
	_ = validateCmd.MarkFlagRequired("file")
}

type validateResult struct {
	File       string `json:"file"`
	Valid      bool   `json:"valid"`
	Containers int    `json:"containers,omitempty"`
	Conditions int    `json:"conditions,omitempty"`
	Error      string `json:"error,omitempty"`
}

func validateDocument(cmd *cobra.Command, args []string) error {
	result := validateResult{File: validateFlags.file, Valid: true}

	doc, err := parser.NewParser().Parse(validateFlags.file)
	if err != nil {
		result.Valid = false
		result.Error = err.Error()
	} else {
		result.Containers = doc.ContainerCount()
		for _, c := range doc.Containers {
			result.Conditions += len(c.Conditions)
		}
	}

	switch validateFlags.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	case "text":
		if result.Valid {
			fmt.Printf("✓ %s is valid (%d containers, %d conditions)\n",
				result.File, result.Containers, result.Conditions)
		} else {
			fmt.Printf("✗ %s is invalid:\n%s\n", result.File, result.Error)
		}
	default:
		return fmt.Errorf("unsupported format: %s", validateFlags.format)
	}

	if !result.Valid {
		return fmt.Errorf("document validation failed")
	}
	return nil
}
