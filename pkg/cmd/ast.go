package cmd

import (
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/ruapotato/Pynux/internal/diag"
	"github.com/ruapotato/Pynux/pkg/session"
	"github.com/ruapotato/Pynux/pkg/source"
)

// astCmd implements `pynuxc ast`, dumping the checked, fully-bound
// declaration list (SPEC_FULL.md "CLI surface (expanded)").
var astCmd = &cobra.Command{
	Use:   "ast <input.py>",
	Short: "Dump the checked AST for a Pynux source file.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := source.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		cfg := sessionConfig(cmd, "")
		decls, err := session.ParseChecked(file, cfg.Logger(os.Stderr))

		if err != nil {
			diag.NewPrinter(os.Stderr).WithColor(!noColor(cmd)).Print(err)
			os.Exit(1)
		}

		if GetFlag(cmd, "json") {
			out, err := json.MarshalIndent(decls, "", "  ")
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}

			fmt.Println(string(out))

			return
		}

		for _, d := range decls {
			fmt.Printf("%T @ %s\n", d, file.SpanPos(d.Span()))
		}
	},
}

func init() {
	rootCmd.AddCommand(astCmd)

	astCmd.Flags().Bool("json", false, "dump as JSON instead of one-declaration-per-line text")
}
