package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"genseq/midi"
)

func (a *app) portsCmd() *cobra.Command {
	var (
		serialOnly bool
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List MIDI and serial outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			devices, err := midi.SerialPorts()
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "serial:")
			if len(devices) == 0 {
				fmt.Fprintln(w, "  (none)")
			}
			for _, d := range devices {
				fmt.Fprintf(w, "  %s\n", d)
			}
			if serialOnly {
				return nil
			}

			ports, err := midi.Scan(timeout)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "midi out:")
			for i, name := range ports.OutPortNames() {
				fmt.Fprintf(w, "  %d: %s\n", i, name)
			}
			fmt.Fprintln(w, "midi in:")
			for i, name := range ports.InPortNames() {
				fmt.Fprintf(w, "  %d: %s\n", i, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&serialOnly, "serial", false, "Only list serial devices")
	cmd.Flags().DurationVar(&timeout, "timeout", midi.DefaultScanTimeout, "Give up on the MIDI driver after this long")
	return cmd
}
