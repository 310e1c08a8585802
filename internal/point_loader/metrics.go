package point_loader

import (
	"errors"
	"io/fs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ecopia-map/hge_sampler/internal/ply"
)

const reasonLabel = "reason"

var (
	filesLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hge_files_loaded_total",
		Help: "The number of point cloud files loaded.",
	})

	pointsLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hge_points_loaded_total",
		Help: "The number of vertex records made available by loaded files.",
	})

	payloadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hge_payload_bytes_total",
		Help: "The number of binary body bytes read.",
	})

	loadFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hge_load_failures_total",
		Help: "The number of files that failed to load, by reason.",
	}, []string{reasonLabel})
)

func instrumentLoad(file *ply.File, stream *PointStream) {
	filesLoadedTotal.Inc()
	pointsLoadedTotal.Add(float64(stream.Size()))
	for _, e := range file.Elements() {
		payloadBytesTotal.Add(float64(len(e.Payload())))
	}
}

func instrumentLoadFailure(err error) {
	loadFailuresTotal.
		With(prometheus.Labels{reasonLabel: failureReason(err)}).
		Inc()
}

func failureReason(err error) string {
	var (
		headerErr    *ply.MalformedHeaderError
		typeErr      *ply.UnknownPropertyTypeError
		truncatedErr *ply.TruncatedPayloadError
		missingErr   *ply.MissingPropertyError
		mismatchErr  *ply.PropertyTypeMismatchError
		elementErr   *ply.UnknownElementError
	)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "not_found"
	case errors.As(err, &headerErr), errors.As(err, &typeErr):
		return "header"
	case errors.As(err, &truncatedErr):
		return "truncated"
	case errors.As(err, &missingErr), errors.As(err, &mismatchErr):
		return "schema"
	case errors.As(err, &elementErr):
		return "unknown_element"
	}
	return "io"
}
