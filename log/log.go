package log

import (
	"fmt"
	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"os"
	"path/filepath"
	"sync"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	_, _ = os.Stdout.Write(p)
	rotatorMu.Lock()
	r := logRotator
	rotatorMu.Unlock()
	if r != nil {
		_, _ = r.Write(p)
	}
	return len(p), nil
}

var (
	// backendLog is the logging backend used to create all subsystem loggers.
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator
	rotatorMu  sync.Mutex

	Srv  = backendLog.Logger("SRV")
	Chan = backendLog.Logger("CHAN")
	Sins = backendLog.Logger("SINS")
	Gorm = backendLog.Logger("GORM")
	Clnt = backendLog.Logger("CLNT")
	Wllt = backendLog.Logger("WLLT")
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"SRV":  Srv,
	"CHAN": Chan,
	"SINS": Sins,
	"GORM": Gorm,
	"CLNT": Clnt,
	"WLLT": Wllt,
}

// InitLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func InitLogRotator(logFile string) {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %v\n", err)
		os.Exit(1)
	}

	rotatorMu.Lock()
	logRotator = r
	rotatorMu.Unlock()
}

// CloseLogRotator flushes and closes the rotator if one was initialized.
func CloseLogRotator() {
	rotatorMu.Lock()
	defer rotatorMu.Unlock()
	if logRotator != nil {
		_ = logRotator.Close()
		logRotator = nil
	}
}

// SetLevel sets the logging level of every subsystem logger.
func SetLevel(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid log level %q", level)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(lvl)
	}
	return nil
}

// SetSubsystemLevel sets the level of a single subsystem logger.
func SetSubsystemLevel(subsystem, level string) error {
	logger, ok := subsystemLoggers[subsystem]
	if !ok {
		return fmt.Errorf("unknown subsystem %q", subsystem)
	}
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid log level %q", level)
	}
	logger.SetLevel(lvl)
	return nil
}
