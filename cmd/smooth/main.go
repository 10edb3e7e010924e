// Command smooth applies a smoothing method to a CSV time series and writes
// the smoothed series and its forecast as CSV.
//
//	smooth run -m holt -p alpha=0.2,beta=0.3,valuesToForecast=5 -i sales.csv
//	smooth describe holtwinters
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
