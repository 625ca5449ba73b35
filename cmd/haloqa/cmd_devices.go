package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thesyncim/haloqa/pkg/harness/devices"
)

// devicesCmd lists the emulated device profiles
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List emulated device profiles",
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVIEWPORT\tSCALE\tMOBILE\tTOUCH")
	for _, p := range devices.All() {
		fmt.Fprintf(tw, "%s\t%dx%d\t%g\t%t\t%t\n",
			p.Name, p.Viewport.Width, p.Viewport.Height, p.DeviceScaleFactor, p.IsMobile, p.HasTouch)
	}
	return tw.Flush()
}
