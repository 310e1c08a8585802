package tools

import (
	"flag"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// Progress messages are logged at glog verbosity 1, details at 2 and above
const progressVerbosity = "1"

var isEnabled = true
var printTimestamp = true

// verbosity in effect before DisableLogger
var savedVerbosity string

// UseStderr sends glog output to stderr instead of log files and shows progress messages,
// unless the command line asks otherwise. Must be called before flag.Parse.
func UseStderr() {
	_ = flag.Set("logtostderr", "true")
	_ = flag.Set("v", progressVerbosity)
}

func EnableLogger() {
	if !isEnabled && savedVerbosity != "" {
		_ = flag.Set("v", savedVerbosity)
	}
	isEnabled = true
}

// DisableLogger suppresses progress messages; glog warnings and errors still reach stderr
func DisableLogger() {
	if isEnabled {
		if v := flag.Lookup("v"); v != nil {
			savedVerbosity = v.Value.String()
		}
	}
	isEnabled = false
	_ = flag.Set("v", "0")
}

func EnableLoggerTimestamp() {
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	printTimestamp = false
}

func LogOutput(val ...interface{}) {
	if isEnabled {
		if printTimestamp {
			glog.InfoDepth(1, "["+time.Now().Format("2006-01-02 15.04:05.000")+"] "+fmt.Sprint(val...))
			return
		}
		glog.InfoDepth(1, val...)
	}
}
