package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/junopark00/tk-clarisse/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("tk-clarisse", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
tk-clarisse - Flow Production Tracking integration for Clarisse.

Usage:
  tk-clarisse [options] [SETTINGS_PATH]

Arguments:
  SETTINGS_PATH
    Path to the engine settings .hcl file.

Options:
`)
		flagSet.PrintDefaults()
	}

	settingsFlag := flagSet.String("settings", "", "Path to the engine settings file.")
	sFlag := flagSet.String("s", "", "Path to the engine settings file (shorthand).")
	bridgeFlag := flagSet.String("bridge-url", "http://127.0.0.1:18600/bridge", "URL of the in-host bridge endpoint.")
	namespaceFlag := flagSet.String("bridge-namespace", "", "Socket.io namespace the bridge serves.")
	logDirFlag := flagSet.String("log-dir", "", "Directory for engine log files.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *settingsFlag != "" {
		path = *settingsFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Settings path determined.", "path", path)

	if path == "" {
		slog.Debug("No settings path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SettingsPath:    path,
		BridgeURL:       *bridgeFlag,
		BridgeNamespace: *namespaceFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		LogDir:          *logDirFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
