package cmd

import (
	"github.com/sarchlab/snapsim/snap"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the byte layout of the double mult job descriptor.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		snap.DumpDescriptor(cmd.OutOrStdout(), snap.NewJobDescriptor(
			snap.Addr{
				Type:  snap.AddrTypeHostDRAM,
				Flags: snap.AddrFlagAddr | snap.AddrFlagSrc,
			},
			snap.Addr{
				Type:  snap.AddrTypeHostDRAM,
				Flags: snap.AddrFlagAddr | snap.AddrFlagDst | snap.AddrFlagEnd,
			},
		))
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}
