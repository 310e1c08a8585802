/*
 * This file is part of the Go Cesium Point Cloud Tiler distribution (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/golang/glog"

	"github.com/ecopia-map/hge_sampler/internal/export"
	"github.com/ecopia-map/hge_sampler/internal/runner"
	"github.com/ecopia-map/hge_sampler/pkg"
	"github.com/ecopia-map/hge_sampler/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/hge_sampler/tools"
)

const VERSION = "1.0.0"

const logo = `
  _                                       _
 | |__   __ _  ___   ___  __ _ _ __ ___  | |_ __   ___ _ __
 | '_ \\ / _' |/ _ \\ / __|/ _' | '_ ' _ \\ | | '_ \\ / _ \\ '__|
 | | | | (_| |  __/ \\__ \\ (_| | | | | | || | |_) |  __/ |
 |_| |_|\\__, |\\___| |___/\\__,_|_| |_| |_||_| .__/ \\___|_|
         |___/  point cloud sampler         |_|
 Copyright YYYY
`

func main() {
	tools.UseStderr()

	flagsGlobal := tools.ParseFlagsGlobal()
	defer glog.Flush()

	if *flagsGlobal.Help {
		showHelp()
		return
	}
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		glog.Fatal("Please specify a subcommand [points|density|subsample].")
	}
	cmd, args := args[0], args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch runner.ParseMode(cmd) {
	case runner.ModePoints:
		mainCommandPoints(ctx, args)
	case runner.ModeDensity:
		mainCommandDensity(ctx, args)
	case runner.ModeSubsample:
		mainCommandSubsample(ctx, args)
	default:
		glog.Fatalf("Unrecognized command [%q]. Command must be one of [points|density|subsample]", cmd)
	}
}

func mainCommandPoints(ctx context.Context, args []string) {
	// Retrieve command line args
	flags, err := tools.ParseFlagsForCommandPoints(args)
	if err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}
	if handleCommonFlags(flags.CommonFlags) {
		return
	}

	format, err := export.ParseFormat(*flags.Format)
	if err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}
	output := *flags.Output
	if output == "" {
		output = format.DefaultFilename()
	}

	// Put args inside an Options struct
	opts := batchOptions(runner.ModePoints, flags.BatchFlags, output)
	opts.PointsOptions = &runner.PointsOptions{
		Ratio:  *flags.Ratio,
		Format: format,
	}

	runBatch(ctx, &opts)
}

func mainCommandDensity(ctx context.Context, args []string) {
	flags, err := tools.ParseFlagsForCommandDensity(args)
	if err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}
	if handleCommonFlags(flags.CommonFlags) {
		return
	}

	opts := batchOptions(runner.ModeDensity, flags.BatchFlags, *flags.Output)
	opts.DensityOptions = &runner.DensityOptions{
		VoxelsPerUnit: float32(*flags.VoxelsPerUnit),
		GridName:      *flags.GridName,
	}

	runBatch(ctx, &opts)
}

func mainCommandSubsample(ctx context.Context, args []string) {
	flags, err := tools.ParseFlagsForCommandSubsample(args)
	if err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}
	if handleCommonFlags(flags.CommonFlags) {
		return
	}

	format, err := export.ParseFormat(*flags.Format)
	if err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}

	opts := runner.Options{
		Mode:   runner.ModeSubsample,
		Output: *flags.Output,
		SubsampleOptions: &runner.SubsampleOptions{
			Input:  *flags.Input,
			Ratio:  *flags.Ratio,
			Seed:   *flags.Seed,
			Format: format,
		},
	}

	if err := opts.Validate(); err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}

	defer timeTrack(time.Now(), "subsample")
	if err := pkg.NewSubsampler().Run(ctx, &opts); err != nil {
		glog.Fatal("Error while subsampling: ", err)
	}
	tools.LogOutput("Subsampling Completed")
}

// Applies the flags every command shares. Returns true when the command should not run.
func handleCommonFlags(flags tools.CommonFlags) bool {
	// Prints the command line flag description
	if *flags.Help {
		showHelp()
		return true
	}
	if *flags.Version {
		printVersion()
		return true
	}

	// set logging and timestamp logging
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		tools.EnableLogger()
		printLogo()
	}
	if *flags.LogTimestamp {
		tools.EnableLoggerTimestamp()
	} else {
		tools.DisableLoggerTimestamp()
	}
	return false
}

func batchOptions(mode runner.Mode, flags tools.BatchFlags, output string) runner.Options {
	return runner.Options{
		Mode:        mode,
		List:        *flags.List,
		Output:      output,
		Workers:     *flags.Workers,
		KeepGoing:   *flags.KeepGoing,
		MetricsFile: *flags.MetricsFile,
	}
}

func runBatch(ctx context.Context, opts *runner.Options) {
	// Validate Options
	if err := opts.Validate(); err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}
	glog.V(2).Infoln("options", tools.FmtJSONString(opts))

	defer timeTrack(time.Now(), strings.ToLower(string(opts.Mode)))
	err := pkg.NewSampler(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(ctx, opts)

	if err != nil {
		glog.Fatal("Error while sampling: ", err)
	} else {
		tools.LogOutput("Sampling Completed")
	}
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("hge_sampler loads binary PLY point clouds listed with their poses and samples them into point lists or a voxel density grid")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: hge_sampler [global flags] points|density|subsample [command flags]")
	fmt.Println("Run a command with -help to list its flags.")
	fmt.Println("")
	fmt.Println("Global flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
