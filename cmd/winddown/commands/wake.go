package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/winddown/winddown/pkg/log"
	"github.com/winddown/winddown/pkg/wol"
)

// WakeCommand sends a Wake-on-LAN packet to a remote machine.
func WakeCommand() *cobra.Command {
	var (
		broadcast string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "wake <hardware-address>",
		Short: "Wake a remote machine with a broadcast packet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := wol.Normalize(args[0])
			if err != nil {
				return err
			}
			if err := wol.Send(addr, broadcast, port); err != nil {
				return err
			}
			log.Infow("wake packet sent", "address", addr, "broadcast", broadcast, "port", port)
			color.New(color.FgGreen).Printf("wake packet sent to %s\n", addr)
			return nil
		},
	}

	cmd.Flags().StringVar(&broadcast, "broadcast", "255.255.255.255", "Broadcast address to send the wake packet to.")
	cmd.Flags().IntVar(&port, "port", 9, "UDP port of the wake packet.")

	return cmd
}
