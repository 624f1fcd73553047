package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"scancam/internal/v4l2dev"
)

func newDevicesCmd() *cobra.Command {
	var (
		dir    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List V4L2 capture device nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devs, err := v4l2dev.Discover(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(devs)
			}
			if len(devs) == 0 {
				fmt.Fprintf(out, "no video devices in %s\n", dir)
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPATH\tCHAR DEVICE")
			for _, d := range devs {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", d.ID, d.Path, d.CharDevice)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "/dev", "Directory to scan for video<N> nodes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
