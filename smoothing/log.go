package smoothing

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sartorproj/gosmoothing/timeseries"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for execution traces. A nil logger
// discards all output. Call it during setup, before any Execute.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		l = discard
	}
	logger = l
}

func traceExecute(method string, s *timeseries.Series, horizon int) {
	logger.WithFields(logrus.Fields{
		"method":   method,
		"series":   s.Name,
		"points":   s.Len(),
		"forecast": horizon,
	}).Debug("executing")
}
