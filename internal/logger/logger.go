package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultLogFile = "/var/log/zeau_landing/zeau_landing.log"

// NewLogger writes to the console when shouldOutputToConsole is set, otherwise
// it appends to logFile (DefaultLogFile when empty).
func NewLogger(shouldOutputToConsole bool, logFile string) zerolog.Logger {
	var output io.Writer

	if shouldOutputToConsole {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	} else { // its on server. so log to file
		if logFile == "" {
			logFile = DefaultLogFile
		}
		file, err := os.OpenFile(
			logFile,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0664,
		)
		if err != nil {
			os.Stderr.Write([]byte(fmt.Sprintf("Error opening the log file for write, Error: %v", err)))
			os.Exit(1)
		}
		output = file
	}

	return newLogger(output)
}

func newLogger(output io.Writer) zerolog.Logger {
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DefaultContextLogger = nil
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	log.Logger = zerolog.New(output).With().Caller().Timestamp().Logger()

	return log.Logger
}
