package tools

import (
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ecopia-map/hge_sampler/internal/dataset"
	"github.com/ecopia-map/hge_sampler/internal/runner"
)

type FileFinder interface {
	GetFilesToProcess(opts *runner.Options) ([]dataset.Entry, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

// GetFilesToProcess reads the transform list and checks that every listed file exists.
// Missing files are an error unless KeepGoing is set, in which case they are only reported and
// left in the list to fail on load.
func (f *StandardFileFinder) GetFilesToProcess(opts *runner.Options) ([]dataset.Entry, error) {
	entries, err := dataset.ReadListFile(opts.List)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("transform list %s has no entries", opts.List)
	}

	var missing error
	for _, entry := range entries {
		info, err := os.Stat(entry.Filename)
		if err == nil && info.IsDir() {
			err = errors.Errorf("%s is a directory", entry.Filename)
		}
		if err != nil {
			missing = multierr.Append(missing, err)
		}
	}

	if missing != nil {
		if !opts.KeepGoing {
			return nil, errors.WithMessage(missing, "listed files are not readable")
		}
		for _, err := range multierr.Errors(missing) {
			glog.Warningln("will fail:", err)
		}
	}

	return entries, nil
}
