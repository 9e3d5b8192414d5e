package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "iocx by Fyrsmith Labs\n")
			fmt.Fprintf(a.stdout, "Version:    %s\n", version)
			fmt.Fprintf(a.stdout, "Commit:     %s\n", gitCommit)
			fmt.Fprintf(a.stdout, "Build Date: %s\n", buildDate)
		},
	}
}
