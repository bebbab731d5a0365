// cmd/fsmctl/root.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/fsm-bridge/internal/control"
)

type rootOptions struct {
	server  string
	output  string
	timeout time.Duration
}

func (o *rootOptions) client() *control.Client {
	return control.NewClient(o.server, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fsmctl",
		Short:         "Control the amplifier protection bridge",
		SilenceUsage:  true,
		Version:       control.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputText, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q", opts.output)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", "http://127.0.0.1:8095", "bridge control API base URL")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or yaml")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "request timeout")

	cmd.AddCommand(
		newSwitchCmd(opts, "rx", "Speaker RX path enable"),
		newSwitchCmd(opts, "tx", "Feedback TX path enable"),
		newModuleCmd(opts),
		newRotationCmd(opts),
		newFadeCmd(opts),
		newMonitorCmd(opts),
		newVersionCmd(opts),
	)

	return cmd
}
