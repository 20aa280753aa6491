package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

const logFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile

var (
	InfoLogger  = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", logFlags)
	WarnLogger  = log.New(os.Stdout, "\033[33m[WARN]\033[0m ", logFlags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", logFlags)
	DebugLogger = log.New(io.Discard, "\033[36m[DEBUG]\033[0m ", logFlags)
)

// InitLogger inicializa os loggers. Debug output is discarded unless enabled.
func InitLogger(debug bool) {
	log.SetFlags(logFlags)

	InfoLogger = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", logFlags)
	WarnLogger = log.New(os.Stdout, "\033[33m[WARN]\033[0m ", logFlags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", logFlags)

	debugOut := io.Discard
	if debug {
		debugOut = os.Stdout
	}
	DebugLogger = log.New(debugOut, "\033[36m[DEBUG]\033[0m ", logFlags)
}

// LogRequest registra informações sobre a requisição HTTP
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Output(2, fmt.Sprintf("%s %s %s %d %v", method, path, remoteAddr, status, duration))
}

// LogError registra erros com o contexto da operação.
// Output depth 2 makes Lshortfile point at the caller, not this file.
func LogError(err error, context string) {
	ErrorLogger.Output(2, fmt.Sprintf("%s: %v", context, err))
}

func LogWarn(format string, v ...interface{}) {
	WarnLogger.Output(2, fmt.Sprintf(format, v...))
}

// LogDebug registra informações de debug
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Output(2, fmt.Sprintf(format, v...))
}

// LogInfo registra informações gerais
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Output(2, fmt.Sprintf(format, v...))
}
