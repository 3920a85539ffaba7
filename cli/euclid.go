package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"genseq/sequencer"
)

func (a *app) euclidCmd() *cobra.Command {
	var (
		rotation uint8
		length   int
	)
	cmd := &cobra.Command{
		Use:   "euclid STEPS PULSES",
		Short: "Print a Euclidean gate",
		Long: `Print the gate the sequencer would play for the given parameters, one
character per tick. Without --length there is one tick per step.`,
		Example: "  genseq euclid 8 3\n  genseq euclid 12 2 --length 24",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseUint8("steps", args[0])
			if err != nil {
				return err
			}
			pulses, err := parseUint8("pulses", args[1])
			if err != nil {
				return err
			}
			n := length
			if n == 0 {
				n = int(steps)
			}
			gates, err := sequencer.Euclid(steps, pulses, rotation, n)
			if err != nil {
				return err
			}
			p := sequencer.EuclidParams{Steps: steps, Pulses: pulses, Rotation: rotation, Length: n}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			fmt.Fprintln(cmd.OutOrStdout(), sequencer.RenderGates(gates, 'x', '.'))
			return nil
		},
	}
	cmd.Flags().Uint8VarP(&rotation, "rotation", "r", 0, "Shift the rhythm right by this many steps")
	cmd.Flags().IntVarP(&length, "length", "l", 0, "Gate length in ticks (default: one tick per step)")
	return cmd
}

func parseUint8(name, s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%s %q: must be 0-255", name, s)
	}
	return uint8(v), nil
}
