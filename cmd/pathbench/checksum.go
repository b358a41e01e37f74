package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/udisondev/pathgrid/internal/pathing"
	"github.com/udisondev/pathgrid/internal/terrain"
)

func newChecksumCmd() *cobra.Command {
	var mapPath string
	cmd := &cobra.Command{
		Use:   "checksum",
		Short: "Print the pathing data checksum of a map",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			g, err := terrain.LoadMap(mapPath)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer closeStore()

			m, err := pathing.NewManager(cmd.Context(), g, benchMoveDefs(), cfg, store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%08x\n", m.PathChecksum())
			return nil
		},
	}
	cmd.Flags().StringVar(&mapPath, "map", "map.pgm", "map file")
	return cmd
}
