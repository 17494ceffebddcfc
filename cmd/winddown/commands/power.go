package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/winddown/winddown/internal/closer"
	"github.com/winddown/winddown/internal/config"
	"github.com/winddown/winddown/internal/power"
	"github.com/winddown/winddown/internal/proc"
	"github.com/winddown/winddown/pkg/log"
)

type powerFlags struct {
	force      bool
	skipAction bool
	countdown  int
	configFile string
}

// SleepCommand closes applications and suspends the machine.
func SleepCommand() *cobra.Command {
	return newPowerCommand(power.Sleep, "sleep", "Close applications, then put the machine to sleep")
}

// RestartCommand closes applications and reboots the machine.
func RestartCommand() *cobra.Command {
	return newPowerCommand(power.Restart, "restart", "Close applications, then restart the machine")
}

// ShutdownCommand closes applications and powers the machine off.
func ShutdownCommand() *cobra.Command {
	return newPowerCommand(power.Shutdown, "shutdown", "Close applications, then shut the machine down")
}

func newPowerCommand(action power.Action, use, short string) *cobra.Command {
	flags := &powerFlags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPower(action, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Skip the countdown and graceful-close phase; proceed even if closures fail.")
	cmd.Flags().BoolVar(&flags.skipAction, "skip-action", false, "Run the closure pipeline only; do not issue the power transition.")
	cmd.Flags().IntVar(&flags.countdown, "countdown", 10, "Seconds to wait before closure starts; Ctrl+C cancels the whole run.")
	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "Path to the winddown configuration file.")

	return cmd
}

// runPower is one full invocation: countdown, scan, close, act. The deferred
// finalizer logs the outcome and duration on every exit path.
func runPower(action power.Action, flags *powerFlags) (err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		log.Infow("run complete", "action", action.String(), "outcome", outcome, "duration", time.Since(start).String())
		_ = log.Sync()
	}()

	cfg := config.Load(flags.configFile)
	force := flags.force || cfg.AlwaysForce
	palette := newPalette(cfg.Colors)

	sys := proc.System{}
	self := proc.Self()
	protected := proc.Protect(self, sys)
	log.Infow("protected set computed", "self", self, "size", len(protected))

	candidates, err := proc.Scan(sys, protected, cfg.Exclusions(), proc.CurrentSession())
	if err != nil {
		palette.failure.Println("process scan failed, aborting before touching anything")
		return err
	}
	log.Infow("scan complete", "candidates", len(candidates))

	// The countdown is the only point where cancellation is free: nothing has
	// been touched yet. Once closure begins there is no going back. With
	// nothing to close there is nothing to warn about either.
	if len(candidates) > 0 && !force && flags.countdown > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		cancelled := countdown(ctx, flags.countdown, action, palette)
		stop()
		if cancelled {
			palette.info.Println("cancelled, nothing was closed")
			log.Infow("run cancelled during countdown", "action", action.String())
			return nil
		}
	}

	cl := closer.New(closer.SystemDriver(), closer.Options{
		Timeout:    cfg.Timeout(),
		Force:      force,
		NoGraceful: cfg.NoGraceful,
	})
	res := cl.Close(candidates)
	report(res, palette)

	if !res.Succeeded() {
		if !force {
			return fmt.Errorf("failed to close: %s", strings.Join(res.FailedNames, ", "))
		}
		// Force overrides the abort decision but not the per-process report.
		log.Warnw("proceeding despite closure failures", "failed", res.FailedNames)
	}

	if flags.skipAction {
		palette.info.Println("skip-action set, not issuing power transition")
		return nil
	}

	return power.New(action, force).Run(context.Background())
}

// countdown ticks down once per second and reports whether the operator
// interrupted the run.
func countdown(ctx context.Context, seconds int, action power.Action, p *palette) bool {
	for i := seconds; i > 0; i-- {
		p.warning.Printf("%s in %d... (Ctrl+C to cancel)\n", action.String(), i)
		select {
		case <-ctx.Done():
			return true
		case <-time.After(time.Second):
		}
	}
	return false
}

func report(res closer.Result, p *palette) {
	for _, out := range res.Outcomes {
		line := fmt.Sprintf("%-30s %s", out.Name, out.State)
		if out.State == closer.Failed {
			p.failure.Println(line)
		} else {
			p.success.Println(line)
		}
	}
	if res.Succeeded() {
		p.success.Printf("closed %d application(s)\n", len(res.Outcomes))
	} else {
		p.failure.Printf("%d application(s) could not be closed: %s\n",
			len(res.FailedNames), strings.Join(res.FailedNames, ", "))
	}
}

// palette maps report elements to colors, overridable from the configuration
// colors map. Cosmetic only.
type palette struct {
	info    *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

var colorByName = map[string]*color.Color{
	"black":   color.New(color.FgBlack),
	"red":     color.New(color.FgRed),
	"green":   color.New(color.FgGreen),
	"yellow":  color.New(color.FgYellow),
	"blue":    color.New(color.FgBlue),
	"magenta": color.New(color.FgMagenta),
	"cyan":    color.New(color.FgCyan),
	"white":   color.New(color.FgWhite),
}

func newPalette(overrides map[string]string) *palette {
	p := &palette{
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	pick := func(key string, def *color.Color) *color.Color {
		if c, ok := colorByName[strings.ToLower(overrides[key])]; ok {
			return c
		}
		return def
	}
	p.info = pick("info", p.info)
	p.success = pick("success", p.success)
	p.warning = pick("warning", p.warning)
	p.failure = pick("failure", p.failure)
	return p
}
