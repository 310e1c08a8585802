package pkg

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ecopia-map/hge_sampler/internal/dataset"
	"github.com/ecopia-map/hge_sampler/internal/io"
	"github.com/ecopia-map/hge_sampler/internal/runner"
	"github.com/ecopia-map/hge_sampler/internal/sampling"
	"github.com/ecopia-map/hge_sampler/pkg/algorithm_manager"
	"github.com/ecopia-map/hge_sampler/tools"
)

type Sampler struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewSampler(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) runner.IRunner {
	return &Sampler{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Run loads every listed file, feeds it to the sampler of the run mode and writes the output.
// Without KeepGoing the first failing file stops the run before any output is written. With it
// the output is written from the files that loaded and the failures are returned together.
func (s *Sampler) Run(ctx context.Context, opts *runner.Options) (err error) {
	start := time.Now()
	defer func() {
		err = multierr.Append(err, writeMetrics(opts.MetricsFile, start))
	}()

	glog.V(1).Infoln("Preparing list of files to process...")

	entries, err := s.fileFinder.GetFilesToProcess(opts)
	if err != nil {
		return err
	}
	filesListed.Set(float64(len(entries)))
	for i, entry := range entries {
		glog.V(1).Infof("point cloud %d %s [%s]", i+1, tools.GetFilenameWithoutExtension(entry.Filename), entry.Filename)
	}

	sampler, err := s.algorithmManager.GetSamplerAlgorithm()
	if err != nil {
		return err
	}

	if err := tools.CreateParentDirectory(opts.Output); err != nil {
		return errors.Wrap(err, "cannot create output directory")
	}

	failures := s.processFiles(ctx, entries, sampler, opts)
	failed := len(multierr.Errors(failures))
	filesFailed.Set(float64(failed))

	if failures != nil && !opts.KeepGoing {
		return failures
	}
	if err := ctx.Err(); err != nil {
		return multierr.Append(failures, err)
	}
	if failed == len(entries) {
		return errors.WithMessage(failures, "no file could be processed")
	}

	glog.V(1).Infoln("> writing output", opts.Output)
	if err := sampler.Finish(ctx); err != nil {
		return multierr.Append(failures, err)
	}

	if failures != nil {
		return errors.WithMessagef(failures, "%d of %d files failed", failed, len(entries))
	}
	return nil
}

// Runs a producer and opts.Workers consumers over the entries. Returns the failures of all
// files, combined.
func (s *Sampler) processFiles(ctx context.Context, entries []dataset.Entry, sampler sampling.Sampler, opts *runner.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	numConsumers := opts.Workers
	if numConsumers > len(entries) {
		numConsumers = len(entries)
	}

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, numConsumers*5)

	// every unit fails at most once, so consumers never block on errors
	errorChannel := make(chan error, len(entries))

	var failures error
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for err := range errorChannel {
			glog.Errorln(err)
			failures = multierr.Append(failures, err)
			if !opts.KeepGoing {
				cancel()
			}
		}
	}()

	var waitGroup sync.WaitGroup

	waitGroup.Add(1)
	producer := io.NewStandardProducer(entries, sampler.Fields())
	go producer.Produce(ctx, workChannel, &waitGroup)

	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		consumer := io.NewStandardConsumer(sampler)
		go consumer.Consume(ctx, workChannel, errorChannel, &waitGroup)
	}

	// wait for producers and consumers to finish
	waitGroup.Wait()

	close(errorChannel)
	<-collected

	return failures
}
