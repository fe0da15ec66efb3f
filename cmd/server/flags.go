package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// changedFlags returns a set holding only the flags given on the command
// line, so flag defaults never mask environment or config file values.
func changedFlags(cmd *cobra.Command) *pflag.FlagSet {
	set := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		set.AddFlag(f)
	})
	return set
}
