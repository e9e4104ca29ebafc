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

// tokensCmd implements `pynuxc tokens`, dumping the lexer's token stream —
// the same kind of internal-state debugging aid go-corset's
// pkg/cmd/debug.go exposes as a subcommand rather than only a library call.
var tokensCmd = &cobra.Command{
	Use:   "tokens <input.py>",
	Short: "Dump the lexer's token stream for a Pynux source file.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := source.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		cfg := sessionConfig(cmd, "")
		toks, err := session.Tokenize(file, cfg.Logger(os.Stderr))

		if err != nil {
			diag.NewPrinter(os.Stderr).WithColor(!noColor(cmd)).Print(err)
			os.Exit(1)
		}

		if GetFlag(cmd, "json") {
			out, err := json.MarshalIndent(toks, "", "  ")
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}

			fmt.Println(string(out))

			return
		}

		for _, t := range toks {
			fmt.Printf("%s: %s\n", t.Pos, t.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().Bool("json", false, "dump as JSON instead of one-token-per-line text")
}
