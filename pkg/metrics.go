package pkg

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runDurationSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hge_run_duration_seconds",
		Help: "Wall time of the last run.",
	})

	filesListed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hge_files_listed",
		Help: "The number of files in the transform list of the last run.",
	})

	filesFailed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hge_files_failed",
		Help: "The number of listed files that could not be processed in the last run.",
	})
)

// writeMetrics dumps every registered metric to path in the text exposition format, for
// node_exporter's textfile collector
func writeMetrics(path string, start time.Time) error {
	if path == "" {
		return nil
	}

	runDurationSeconds.Set(time.Since(start).Seconds())
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return errors.Wrapf(err, "cannot write metrics to %s", path)
	}
	glog.V(1).Infoln("> metrics written to", path)
	return nil
}
