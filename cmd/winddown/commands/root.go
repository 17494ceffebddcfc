package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/winddown/winddown/pkg/log"
)

// version is overridden at build time via -ldflags.
var version = "v0.0.0"

// NewRootCMD command entry
func NewRootCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "winddown",
		Short: "Close running applications, then sleep, restart, or shut down",
		Long: fmt.Sprintf(`
winddown closes running user applications before issuing a sleep, restart,
or shutdown command, and can wake a remote machine with a broadcast packet.
Repo: %s`,
			color.HiCyanString("https://github.com/winddown/winddown")),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
		},
	}

	cmd.AddCommand(
		SleepCommand(),
		RestartCommand(),
		ShutdownCommand(),
		WakeCommand(),
	)

	return cmd
}

// initLogging sets up the global logger with an append-only run log next to
// the configuration. Logging problems never abort the run.
func initLogging() {
	opts := log.NewOptions()
	if dir := winddownDir(); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			opts.EnableFileStorage = true
			opts.FileConfig = &log.FileOptions{
				Filename:   filepath.Join(dir, "winddown.log"),
				MaxSize:    10,
				MaxBackups: 3,
				MaxAge:     30,
				LocalTime:  true,
			}
		}
	}
	log.Init(opts)
}

// winddownDir returns the winddown home directory.
func winddownDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".winddown")
}
