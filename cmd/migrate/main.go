package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Schema migrations and demo data for the canvass store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	for _, command := range []string{"up", "down", "status"} {
		cmd.AddCommand(newGooseCmd(command))
	}
	cmd.AddCommand(newSeedCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
