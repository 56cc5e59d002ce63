// Command lumidoc compiles marker-annotated model output into a document
// tree and prints it as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PAIR-code/lumi/internal/markup"
	"github.com/PAIR-code/lumi/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lumidoc",
		Short: "Compile annotated model output into a document tree",
	}
	root.AddCommand(newCompileCmd())
	return root
}

func newCompileCmd() *cobra.Command {
	var fileID string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a marked-up text file to document JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if fileID == "" {
				fileID = pipeline.ContentHashHex(data)[:16]
			}

			result := markup.New().Compile(string(data), fileID)

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			out := map[string]any{
				"fileId":   fileID,
				"title":    result.Title,
				"authors":  result.Authors,
				"document": result.Document,
			}
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fileID, "file-id", "", "identifier used in image storage paths (default: content hash)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}
