// Command g935ctl controls a Logitech G935 headset: one-shot battery
// queries and a continuous mode that binds the G-keys, volume wheel and
// microphone arm to desktop media controls.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/seagrayinc/g935-hidpp/pkg/g935"
)

var (
	flagVerbose int
	flagSilent  bool
	flagProfile string
)

func main() {
	root := &cobra.Command{
		Use:          "g935ctl",
		Short:        "Control a Logitech G935 wireless headset",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}
	root.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (repeatable)")
	root.PersistentFlags().BoolVarP(&flagSilent, "silent", "s", false, "suppress all log output")

	battery := &cobra.Command{
		Use:   "battery",
		Short: "Print the battery charging status and charge level",
		RunE: func(cmd *cobra.Command, args []string) error {
			headset, err := g935.Open()
			if err != nil {
				return err
			}

			status, err := headset.GetBatteryStatus()
			if err != nil {
				return fmt.Errorf("could not read battery status: %w", err)
			}

			fmt.Printf("%s %.1f\n", status.Status, status.Charge)
			return nil
		},
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run in continuous mode, dispatching button events",
		RunE:  runContinuous,
	}
	run.Flags().StringVar(&flagProfile, "profile", "", "YAML lighting profile to apply on startup")

	root.AddCommand(battery, run)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	var out io.Writer = os.Stderr
	level := slog.LevelWarn

	switch {
	case flagSilent:
		out = io.Discard
	case flagVerbose == 1:
		level = slog.LevelInfo
	case flagVerbose >= 2:
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
}

func runContinuous(cmd *cobra.Command, args []string) error {
	headset, err := g935.Open()
	if err != nil {
		return err
	}

	cfg := g935.NewConfig()

	if flagProfile != "" {
		profile, err := loadProfile(flagProfile)
		if err != nil {
			return fmt.Errorf("load lighting profile: %w", err)
		}
		profile.apply(cfg)
	}

	// Shared between the button and periodic handlers: when set, the side
	// lights are showing the battery level and revert after one second.
	var batteryLightsStart time.Time
	var oldState g935.ButtonState

	cfg.SetButtonHandler(func(cfg *g935.Config, h *g935.Headset, state g935.ButtonState) {
		if state.MicFlippedUp(oldState) {
			runCommand("amixer", "set", "Capture", "nocap")
		}
		if state.MicFlippedDown(oldState) {
			runCommand("amixer", "set", "Capture", "cap")
		}

		if state.G1Pressed(oldState) {
			runCommand("playerctl", "play-pause")
		}
		if state.G2Pressed(oldState) {
			runCommand("playerctl", "next")
		}
		if state.G3Pressed(oldState) {
			runCommand("playerctl", "previous")
		}

		if state.ScrollUp() {
			runCommand("pactl", "set-sink-volume", "@DEFAULT_SINK@", "+2%")
		}
		if state.ScrollDown() {
			runCommand("pactl", "set-sink-volume", "@DEFAULT_SINK@", "-2%")
		}

		if state.MuteButtonPressed() {
			status, err := h.GetBatteryStatus()
			if err != nil {
				slog.Warn("failed to get battery status", slog.Any("error", err))
			} else {
				scaled := status.Charge * 2.55
				if scaled < 0 {
					scaled = 0
				}
				percent := uint8(scaled)

				batteryLightsStart = time.Now()
				cfg.SetSideLightEffect(g935.Static(255-percent, percent, 0))
			}
		}

		oldState = state
	})

	cfg.SetPeriodicHandler(func(cfg *g935.Config, h *g935.Headset) {
		if !batteryLightsStart.IsZero() && time.Since(batteryLightsStart) >= time.Second {
			batteryLightsStart = time.Time{}
			cfg.SetSideLightEffect(g935.Off())
		}
	})

	return headset.Run(cfg)
}

func runCommand(name string, args ...string) {
	if err := exec.Command(name, args...).Run(); err != nil {
		slog.Warn("command failed", slog.String("command", name), slog.Any("error", err))
	}
}
