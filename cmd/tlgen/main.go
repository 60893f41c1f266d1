package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tonfleet/liteclient/internal/tlschema"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "tlgen",
		Short:   "tlgen generates Go types from a TL schema file",
		Version: version,
	}

	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var schemaPath, outPath, pkg string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Parse a .tl schema file and emit the corresponding Go types",
		Long: `generate reads a TL schema file, derives each combinator's constructor
number (explicit #hex or the CRC-32 of its canonical form), and writes a
single Go source file with one struct and Encode method per combinator,
a Decode function per non-function combinator, and a sum type for each
result type that has more than one constructor.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("reading schema: %w", err)
			}

			schema, err := tlschema.Parse(string(src))
			if err != nil {
				return fmt.Errorf("parsing schema: %w", err)
			}

			out, err := Render(schemaPath, pkg, schema)
			if err != nil {
				return fmt.Errorf("rendering: %w", err)
			}

			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}

			fmt.Printf("wrote %s: %d types, %d functions\n", outPath, len(schema.Types), len(schema.Functions))
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to the .tl schema file (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the generated Go file (required)")
	cmd.Flags().StringVar(&pkg, "package", "lsapi", "package name for the generated file")
	cmd.MarkFlagRequired("schema")
	cmd.MarkFlagRequired("out")

	return cmd
}
