package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/v2rayA/beego/v2/logs"
)

var log *logs.BeeLogger

func init() {
	log = logs.NewLogger()
	_ = log.SetLogger(logs.AdapterConsole)
}

func ParseLevel(level string) int {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return logs.LevelDebug
	case "warn", "warning":
		return logs.LevelWarning
	case "error":
		return logs.LevelError
	default:
		return logs.LevelInformational
	}
}

// InitLog replaces the default console logger. logWay is either "console"
// or "file"; logFile and maxDays only apply to the file adapter.
func InitLog(logWay string, logFile string, logLevel string, maxDays int64, disableColor bool) {
	logger := logs.NewLogger()
	var err error
	if logWay == "file" {
		err = logger.SetLogger(logs.AdapterFile,
			fmt.Sprintf(`{"filename":%q,"daily":true,"maxdays":%d}`, logFile, maxDays))
	} else {
		err = logger.SetLogger(logs.AdapterConsole, fmt.Sprintf(`{"color":%v}`, !disableColor))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "InitLog: %v\n", err)
		os.Exit(1)
	}
	logger.SetLevel(ParseLevel(logLevel))
	log = logger
}

func Trace(format string, v ...interface{}) {
	log.Trace(format, v...)
}

func Debug(format string, v ...interface{}) {
	log.Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	log.Info(format, v...)
}

func Warn(format string, v ...interface{}) {
	log.Warn(format, v...)
}

func Error(format string, v ...interface{}) {
	log.Error(format, v...)
}

func Fatal(format string, v ...interface{}) {
	log.Critical(format, v...)
	os.Exit(1)
}
