package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruapotato/Pynux/internal/diag"
	"github.com/ruapotato/Pynux/pkg/session"
	"github.com/ruapotato/Pynux/pkg/source"
)

// compileCmd implements `pynuxc compile`, the one subcommand §6 requires:
// lex, parse, check and emit one source file to GAS-syntax assembly.
var compileCmd = &cobra.Command{
	Use:   "compile <input.py>",
	Short: "Compile a Pynux source file to ARM Thumb-2 assembly.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := sessionConfig(cmd, GetString(cmd, "target"))
		cfg.EmitDebugComments = GetFlag(cmd, "debug-comments")

		if !cfg.Target.Valid() {
			fmt.Printf("unknown target %q\n", cfg.Target)
			os.Exit(2)
		}

		file, err := source.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		log := cfg.Logger(os.Stderr)

		asm, err := session.Compile(file, cfg, log)
		if err != nil {
			diag.NewPrinter(os.Stderr).WithColor(!noColor(cmd)).Print(err)
			os.Exit(1)
		}

		out := GetString(cmd, "output")
		if out == "" {
			fmt.Print(asm)
			return
		}

		if err := os.WriteFile(out, []byte(asm), 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringP("output", "o", "", "write assembly to this file instead of stdout")
	compileCmd.Flags().String("target", string(session.CortexM3), "target core: cortex-m0plus, cortex-m3, or cortex-m4")
	compileCmd.Flags().Bool("debug-comments", false, "emit the generator's annotation comments in the assembly")
}
