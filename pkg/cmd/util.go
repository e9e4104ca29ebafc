package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruapotato/Pynux/pkg/session"
)

// GetFlag gets an expected bool flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetCount gets an expected count flag (e.g. repeated -v), or exits if an
// error arises.
func GetCount(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetCount(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// sessionConfig builds a session.Config from the persistent flags common to
// every subcommand.
func sessionConfig(cmd *cobra.Command, target string) session.Config {
	cfg := session.New(session.Target(target))
	cfg.Verbosity = GetCount(cmd, "verbose")

	return cfg
}

// noColor reports whether --no-color was passed.
func noColor(cmd *cobra.Command) bool {
	return GetFlag(cmd, "no-color")
}
