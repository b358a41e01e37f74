package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"github.com/udisondev/pathgrid/internal/terrain"
)

// Terrain kinds written by genmap and understood by the bench move classes.
const (
	kindGrass uint8 = iota
	kindForest
	kindHills
	kindWater
)

func newGenmapCmd() *cobra.Command {
	var (
		size      int
		seed      uint64
		obstacles int
		out       string
	)
	cmd := &cobra.Command{
		Use:   "genmap",
		Short: "Write a random terrain map",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			if size <= 0 {
				return fmt.Errorf("invalid map size %d", size)
			}
			g := generateMap(size, seed, obstacles)
			if err := terrain.SaveMap(out, g); err != nil {
				return err
			}
			slog.Info("map written", "path", out, "size", size, "seed", seed, "obstacles", obstacles)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 256, "map edge length in cells")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&obstacles, "obstacles", 40, "number of blocked rectangles")
	cmd.Flags().StringVar(&out, "out", "map.pgm", "output file")
	return cmd
}

// generateMap scatters terrain patches, hills and blocked rectangles over a
// size×size grid. The same seed always yields the same map.
func generateMap(size int, seed uint64, obstacles int) *terrain.Grid {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g := terrain.NewGrid(size, size)

	patch := func(kind uint8, maxRadius int) {
		cx, cz := rng.IntN(size), rng.IntN(size)
		r := 1 + rng.IntN(maxRadius)
		for z := max(cz-r, 0); z <= min(cz+r, size-1); z++ {
			for x := max(cx-r, 0); x <= min(cx+r, size-1); x++ {
				if (x-cx)*(x-cx)+(z-cz)*(z-cz) <= r*r {
					g.SetKind(x, z, kind)
				}
			}
		}
	}
	for range size / 8 {
		patch(kindForest, max(size/16, 1))
	}
	for range size / 16 {
		patch(kindWater, max(size/24, 1))
	}

	for range size / 32 {
		cx, cz := rng.IntN(size), rng.IntN(size)
		r := 2 + rng.IntN(max(size/16, 1))
		peak := float32(8 + rng.IntN(40))
		for z := max(cz-r, 0); z <= min(cz+r, size-1); z++ {
			for x := max(cx-r, 0); x <= min(cx+r, size-1); x++ {
				d2 := (x-cx)*(x-cx) + (z-cz)*(z-cz)
				if d2 > r*r {
					continue
				}
				h := peak * (1 - float32(d2)/float32(r*r))
				if h > g.Height(x, z) {
					g.SetHeight(x, z, h)
					g.SetKind(x, z, kindHills)
				}
			}
		}
	}

	for range obstacles {
		x, z := rng.IntN(size), rng.IntN(size)
		w, d := 1+rng.IntN(max(size/12, 1)), 1+rng.IntN(max(size/12, 1))
		g.BlockRect(x, z, x+w-1, z+d-1, true)
	}
	return g
}

// benchMoveDefs are the movement classes used by run and checksum.
func benchMoveDefs() *terrain.MoveDefs {
	tank := terrain.NewMoveDef("tank")
	tank.MaxSlope = 6
	tank.KindCosts[kindForest] = 2
	tank.KindCosts[kindHills] = 1.5
	tank.KindCosts[kindWater] = 0

	hover := terrain.NewMoveDef("hover")
	hover.KindCosts[kindForest] = 1.5
	hover.KindCosts[kindWater] = 0.8
	hover.HeatMapping = false

	return terrain.NewMoveDefs(tank, hover)
}
