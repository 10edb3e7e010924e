package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gosmoothing/smoothing"
)

var optionalParameters = map[smoothing.Kind][]string{
	smoothing.KindExponentialSmoothing: {smoothing.ParamValuesToForecast},
	smoothing.KindHolt:                 {smoothing.ParamValuesToForecast},
	smoothing.KindHoltWinters:          {smoothing.ParamValuesToForecast, smoothing.ParamSeasonality},
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [method]",
		Short: "List methods and their parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := smoothing.Kinds()
			if len(args) == 1 {
				k, err := smoothing.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []smoothing.Kind{k}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tREQUIRED\tOPTIONAL")
			for _, k := range kinds {
				optional := strings.Join(optionalParameters[k], ", ")
				if optional == "" {
					optional = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", k, strings.Join(k.RequiredParameters(), ", "), optional)
			}
			return w.Flush()
		},
	}
}
