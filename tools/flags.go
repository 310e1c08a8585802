package tools

import (
	"flag"
	"runtime"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/hge_sampler/internal/density"
	"github.com/ecopia-map/hge_sampler/internal/export"
	"github.com/ecopia-map/hge_sampler/internal/runner"
)

const (
	CommandPoints    = "points"
	CommandDensity   = "density"
	CommandSubsample = "subsample"
)

const (
	DefaultListFile       = "point_clouds.txt"
	DefaultDensityOutput  = "hge_volume.db"
	DefaultSubsampleInput = "hge_sample_points_custom.txt"
	DefaultSubsampleOut   = "hge_sample_points.txt"
	DefaultKeepRatio      = 0.03
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

// Flags shared by every command
type CommonFlags struct {
	Output       *string `json:"output"`
	Config       *string `json:"config"`
	Silent       *bool   `json:"silent"`
	LogTimestamp *bool   `json:"timestamp"`
	Help         *bool   `json:"help"`
	Version      *bool   `json:"version"`
}

// Flags of the commands reading a transform list
type BatchFlags struct {
	CommonFlags
	List        *string `json:"list"`
	Workers     *int    `json:"workers"`
	KeepGoing   *bool   `json:"keep_going"`
	MetricsFile *string `json:"metrics_file"`
}

type FlagsForCommandPoints struct {
	BatchFlags
	Ratio  *int    `json:"ratio"`
	Format *string `json:"format"`
}

type FlagsForCommandDensity struct {
	BatchFlags
	VoxelsPerUnit *float64 `json:"voxels"`
	GridName      *string  `json:"grid_name"`
}

type FlagsForCommandSubsample struct {
	CommonFlags
	Input  *string  `json:"input"`
	Ratio  *float64 `json:"ratio"`
	Seed   *int64   `json:"seed"`
	Format *string  `json:"format"`
}

// a command flag set remembering which long name each shorthand stands for
type commandFlagSet struct {
	*flag.FlagSet
	shorthands map[string]string
}

func newCommandFlagSet(name string) *commandFlagSet {
	return &commandFlagSet{
		FlagSet:    flag.NewFlagSet(name, flag.ExitOnError),
		shorthands: make(map[string]string),
	}
}

// parse parses args then fills every flag not given on the command line from the config file
// named by the config flag, when there is one
func (f *commandFlagSet) parse(args []string, config *string) error {
	if err := f.Parse(args); err != nil {
		return err
	}
	if *config == "" {
		return nil
	}

	values, err := runner.LoadConfigFile(*config)
	if err != nil {
		return err
	}

	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) {
		set[fl.Name] = true
		if long, ok := f.shorthands[fl.Name]; ok {
			set[long] = true
		}
	})

	for _, name := range runner.SortedNames(values) {
		value := values[name]
		if long, ok := f.shorthands[name]; ok {
			name = long
		}
		if f.Lookup(name) == nil || name == "config" {
			return errors.Errorf("unknown option %q in config file %s", name, *config)
		}
		if set[name] {
			glog.V(2).Infof("option %s given on the command line, ignoring config value", name)
			continue
		}
		if err := f.Set(name, value); err != nil {
			return errors.Wrapf(err, "config option %s", name)
		}
	}
	return nil
}

func ParseFlagsGlobal() FlagsGlobal {
	// -v belongs to glog on the global flag set
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of hge_sampler.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func defineCommonFlags(flagCommand *commandFlagSet, defaultOutput string) CommonFlags {
	return CommonFlags{
		Output:       defineStringFlagCommand(flagCommand, "output", "o", defaultOutput, "Specifies the output file."),
		Config:       defineStringFlagCommand(flagCommand, "config", "c", "", "YAML file with default values for the options of this command."),
		Silent:       defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp: defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:         defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:      defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of hge_sampler."),
	}
}

func defineBatchFlags(flagCommand *commandFlagSet, defaultOutput string) BatchFlags {
	return BatchFlags{
		CommonFlags: defineCommonFlags(flagCommand, defaultOutput),
		List:        defineStringFlagCommand(flagCommand, "list", "l", DefaultListFile, "Transform list, one 'filename tx ty tz qw qx qy qz' record per line."),
		Workers:     defineIntFlagCommand(flagCommand, "workers", "w", runtime.NumCPU(), "Number of files loaded concurrently."),
		KeepGoing:   defineBoolFlagCommand(flagCommand, "keep-going", "k", false, "Keeps processing the remaining files when one fails and reports all failures at the end."),
		MetricsFile: defineStringFlagCommand(flagCommand, "metrics-file", "m", "", "Writes load counters to this file in prometheus text format."),
	}
}

func ParseFlagsForCommandPoints(args []string) (FlagsForCommandPoints, error) {
	glog.V(2).Infoln(FmtJSONString(args))

	flagCommand := newCommandFlagSet("command-" + CommandPoints)

	batch := defineBatchFlags(flagCommand, "")
	ratio := defineIntFlagCommand(flagCommand, "ratio", "r", 1, "Keeps every n-th point of each file.")
	format := defineStringFlagCommand(flagCommand, "format", "f", string(export.FormatText), "Output format, can be 'obj', 'text' or 'bytes'.")

	err := flagCommand.parse(args, batch.Config)

	return FlagsForCommandPoints{
		BatchFlags: batch,
		Ratio:      ratio,
		Format:     format,
	}, err
}

func ParseFlagsForCommandDensity(args []string) (FlagsForCommandDensity, error) {
	glog.V(2).Infoln(FmtJSONString(args))

	flagCommand := newCommandFlagSet("command-" + CommandDensity)

	batch := defineBatchFlags(flagCommand, DefaultDensityOutput)
	voxels := defineFloat64FlagCommand(flagCommand, "voxels", "x", 1, "Voxels per unit length of the density grid.")
	gridName := defineStringFlagCommand(flagCommand, "grid-name", "n", density.DefaultGridName, "Name the density grid is stored under.")

	err := flagCommand.parse(args, batch.Config)

	return FlagsForCommandDensity{
		BatchFlags:    batch,
		VoxelsPerUnit: voxels,
		GridName:      gridName,
	}, err
}

func ParseFlagsForCommandSubsample(args []string) (FlagsForCommandSubsample, error) {
	glog.V(2).Infoln(FmtJSONString(args))

	flagCommand := newCommandFlagSet("command-" + CommandSubsample)

	common := defineCommonFlags(flagCommand, DefaultSubsampleOut)
	input := defineStringFlagCommand(flagCommand, "input", "i", DefaultSubsampleInput, "Text sample file to subsample.")
	ratio := defineFloat64FlagCommand(flagCommand, "ratio", "r", DefaultKeepRatio, "Probability to keep each record.")
	seed := defineInt64FlagCommand(flagCommand, "seed", "", 0, "Seed of the random generator, 0 picks one.")
	format := defineStringFlagCommand(flagCommand, "format", "f", string(export.FormatText), "Output format, can be 'text' or 'bytes'.")

	err := flagCommand.parse(args, common.Config)

	return FlagsForCommandSubsample{
		CommonFlags: common,
		Input:       input,
		Ratio:       ratio,
		Seed:        seed,
		Format:      format,
	}, err
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *commandFlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		flagCommand.shorthands[shortHand] = name
	}

	return &output
}

func defineIntFlagCommand(flagCommand *commandFlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		flagCommand.shorthands[shortHand] = name
	}

	return &output
}

func defineInt64FlagCommand(flagCommand *commandFlagSet, name string, shortHand string, defaultValue int64, usage string) *int64 {
	var output int64
	flagCommand.Int64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Int64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		flagCommand.shorthands[shortHand] = name
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *commandFlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		flagCommand.shorthands[shortHand] = name
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *commandFlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		flagCommand.shorthands[shortHand] = name
	}
	return &output
}
