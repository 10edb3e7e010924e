package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smooth",
		Short:         "Smooth and forecast time series with moving averages and exponential smoothing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newDescribeCmd())
	return root
}
