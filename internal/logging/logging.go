package logging

import (
	"io"
	"log"
	"os"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

var (
	Debug   *log.Logger
	Layout  *log.Logger
	Scanner *log.Logger
	Enabled bool
)

const defaultLogFile = "foldergrid-debug.log"

func init() {
	Setup(os.Getenv("FOLDERGRID_DEBUG") != "", os.Getenv("FOLDERGRID_LOG_FILE"))
}

// Setup (re)creates the package loggers. When disabled every logger discards
// its output. When enabled all loggers share one rotating file.
func Setup(enabled bool, file string) {
	if !enabled {
		Debug = log.New(io.Discard, "", 0)
		Layout = log.New(io.Discard, "", 0)
		Scanner = log.New(io.Discard, "", 0)
		Enabled = false
		return
	}

	Enabled = true

	if file == "" {
		file = defaultLogFile
	}

	// Open the file once up front; lumberjack only reports open errors on Write.
	fh, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		Debug = log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime)
		Layout = log.New(os.Stderr, "[LAYOUT] ", log.Ldate|log.Ltime)
		Scanner = log.New(os.Stderr, "[SCANNER] ", log.Ldate|log.Ltime)
		return
	}
	_ = fh.Close()

	w := &lj.Logger{Filename: file, MaxSize: 5, MaxBackups: 3, MaxAge: 14}

	Debug = log.New(w, "", log.Lmicroseconds)
	Layout = log.New(w, "[layout] ", log.Lmicroseconds)
	Scanner = log.New(w, "[scanner] ", log.Lmicroseconds)
}
