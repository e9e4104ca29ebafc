package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ruapotato/Pynux/pkg/session"
)

// targetsCmd implements `pynuxc targets`, listing supported --target
// values (SPEC_FULL.md "CLI surface (expanded)").
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported --target values.",
	Run: func(cmd *cobra.Command, args []string) {
		names := lo.Map(session.Targets, func(t session.Target, _ int) string {
			return string(t)
		})

		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
