// Package cmd implements the pynuxc command-line surface (SPEC_FULL.md "CLI
// surface (expanded)"): one cobra root command plus the compile/tokens/
// ast/targets subcommands, in the same shape as go-corset's pkg/cmd/root.go.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pynuxc",
	Short: "An ahead-of-time compiler for Pynux.",
	Long:  "An ahead-of-time compiler for Pynux, a statically-typed Python-syntax language targeting bare-metal ARM Cortex-M.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("pynuxc ")
			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}
			fmt.Println()

			return
		}

		fmt.Print(cmd.UsageString())
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() and only needs to happen
// once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase logging verbosity (-v, -vv)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI diagnostic coloring")
}
