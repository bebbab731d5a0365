// cmd/fsmctl/commands.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tamzrod/fsm-bridge/internal/control"
)

// parseSwitch accepts on/off in the forms the sysfs nodes accept.
func parseSwitch(s string) (bool, error) {
	switch s {
	case "on", "1", "true", "enable":
		return true, nil
	case "off", "0", "false", "disable":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

// newSwitchCmd builds the rx and tx commands: no argument reads, one argument writes.
func newSwitchCmd(opts *rootOptions, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [on|off]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cli := opts.client()

			get, set := cli.Rx, cli.SetRx
			if name == "tx" {
				get, set = cli.Tx, cli.SetTx
			}

			if len(args) == 1 {
				on, err := parseSwitch(args[0])
				if err != nil {
					return err
				}
				if err := set(ctx, on); err != nil {
					return err
				}
			}

			st, err := get(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, st, func() string {
				return name + ": " + onOff(st.Enabled)
			})
		},
	}
}

func newModuleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "module on|off",
		Short: "Protection module enable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			if err := opts.client().SetModule(cmd.Context(), on); err != nil {
				return err
			}
			st := control.SwitchState{Enabled: on}
			return render(cmd.OutOrStdout(), opts.output, st, func() string {
				return "module: " + onOff(on)
			})
		},
	}
}

func newRotationCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rotation [0|90]",
		Short: "Speaker channel rotation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cli := opts.client()

			var (
				st  control.RotationState
				err error
			)
			if len(args) == 1 {
				angle, perr := strconv.ParseInt(args[0], 10, 32)
				if perr != nil {
					return fmt.Errorf("invalid angle %q", args[0])
				}
				st, err = cli.SetRotation(ctx, int32(angle))
			} else {
				st, err = cli.Rotation(ctx)
			}
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, st, func() string {
				return fmt.Sprintf("rotation: %d", st.Angle)
			})
		},
	}
}

func newFadeCmd(opts *rootOptions) *cobra.Command {
	var req control.FadeRequest

	cmd := &cobra.Command{
		Use:   "fade",
		Short: "Run a volume fade on the speaker path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.client().Fade(cmd.Context(), req)
		},
	}

	cmd.Flags().Int32Var(&req.Type, "type", 1, "fade type: 0 mute, 1 in, 2 out")
	cmd.Flags().Int32Var(&req.TimeMs, "time-ms", 100, "fade duration in ms")
	cmd.Flags().Int32Var(&req.StartDB, "start-db", 0, "starting gain in dB")
	cmd.Flags().Int32Var(&req.Channel, "channel", 2, "channel: 0 left, 1 right, 2 mono")

	return cmd
}

func newMonitorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor [on|off]",
		Short: "Adaptive monitor switch and state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cli := opts.client()

			var (
				st  control.MonitorStatus
				err error
			)
			if len(args) == 1 {
				on, perr := parseSwitch(args[0])
				if perr != nil {
					return perr
				}
				st, err = cli.SetMonitor(ctx, on)
			} else {
				st, err = cli.Monitor(ctx)
			}
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, st, func() string {
				return monitorText(st)
			})
		},
	}
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bridge version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := opts.client().Version(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, v, func() string {
				return v.Version
			})
		},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func monitorText(st control.MonitorStatus) string {
	s := fmt.Sprintf("monitor: %s running=%t version=%s interval=%dms ticks=%d health=%s",
		onOff(st.Enabled), st.Running, st.Version, st.IntervalMs, st.Ticks, st.Health)
	if st.LastError != "" {
		s += " last_error=" + st.LastError
	}
	return s
}
