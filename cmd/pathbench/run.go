package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"github.com/udisondev/pathgrid/internal/pathing"
	"github.com/udisondev/pathgrid/internal/synccheck"
	"github.com/udisondev/pathgrid/internal/terrain"
)

type agent struct {
	body    *terrain.Solid
	md      *terrain.MoveDef
	handle  pathing.Handle
	result  pathing.SearchResult
	goal    terrain.Vec3
	done    bool
	reached bool
	steps   int
}

type runStats struct {
	requested, failed, reached, stuck int
	ticks                             int
	sync                              uint32
}

func newRunCmd() *cobra.Command {
	var (
		mapPath string
		agents  int
		ticks   int
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Plan random routes for a crowd of agents and follow them tick by tick",
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

			mds := benchMoveDefs()
			m, err := pathing.NewManager(cmd.Context(), g, mds, cfg, store)
			if err != nil {
				return err
			}

			started := time.Now()
			crowd := spawnAgents(m, mds.All(), agents, seed)
			stats, err := simulate(cmd, m, crowd, ticks)
			if err != nil {
				return err
			}
			slog.Info("run finished", "took", time.Since(started), "ticks", stats.ticks)
			printReport(cmd.OutOrStdout(), m, crowd, stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&mapPath, "map", "map.pgm", "map file")
	cmd.Flags().IntVar(&agents, "agents", 32, "number of agents")
	cmd.Flags().IntVar(&ticks, "ticks", 2000, "maximum simulation ticks")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for start and goal positions")
	return cmd
}

// randomPassable picks a cell md can stand on, falling back to any cell.
func randomPassable(rng *rand.Rand, g *terrain.Grid, md *terrain.MoveDef) terrain.Vec3 {
	var sq terrain.Square
	for range 64 {
		sq = terrain.Sq(rng.IntN(g.MapX()), rng.IntN(g.MapY()))
		if _, ok := md.SquareCost(g, sq.X, sq.Z); ok {
			break
		}
	}
	return g.SquarePos(sq)
}

func spawnAgents(m *pathing.Manager, mds []*terrain.MoveDef, n int, seed uint64) []*agent {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	g := m.Grid()

	crowd := make([]*agent, 0, n)
	for i := range n {
		md := mds[i%len(mds)]
		start := randomPassable(rng, g, md)
		a := &agent{
			body: terrain.NewSolid(i+1, g, start, 1),
			md:   md,
			goal: randomPassable(rng, g, md),
		}
		a.handle = m.RequestPath(md, start, a.goal, terrain.SquareSize, a.body, true)
		if a.handle == pathing.NoHandle {
			a.done = true
			a.result = pathing.Error
		} else {
			a.result, _ = m.PathResult(a.handle)
		}
		crowd = append(crowd, a)
	}
	return crowd
}

// simulate advances every agent one waypoint per tick until all are done,
// the tick limit is hit, or the context is cancelled.
func simulate(cmd *cobra.Command, m *pathing.Manager, crowd []*agent, ticks int) (runStats, error) {
	ctx := cmd.Context()
	checker := synccheck.New()
	var stats runStats

	for tick := range ticks {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("simulation interrupted at tick %d: %w", tick, err)
		}
		stats.ticks = tick + 1
		checker.NewFrame()

		active := 0
		for _, a := range crowd {
			if a.done {
				continue
			}
			active++
			pos := a.body.Pos()
			wp := m.NextWaypoint(a.handle, pos, 0, 0, a.body, true)
			if wp == pathing.NoPathPoint {
				a.done = true
				continue
			}
			sq := m.Grid().ClampSquare(wp.Square())
			wp.Y = m.Grid().Height(sq.X, sq.Z)
			a.body.MoveTo(wp)
			a.steps++
			m.UpdatePath(a.body, a.handle)

			if wp.Square() == a.goal.Square() {
				a.done, a.reached = true, true
				m.DeletePath(a.handle)
			}
			checker.Int(a.body.ID())
			checker.Float32(wp.X)
			checker.Float32(wp.Z)
		}
		m.Update()
		m.SyncChecksum(checker)
		stats.sync = checker.Sum()

		if active == 0 {
			break
		}
	}

	for _, a := range crowd {
		switch {
		case a.result == pathing.Error:
			stats.failed++
		case a.reached:
			stats.reached++
		default:
			stats.stuck++
		}
	}
	stats.requested = len(crowd)
	return stats, nil
}

func printReport(w io.Writer, m *pathing.Manager, crowd []*agent, stats runStats) {
	for i, a := range crowd {
		fmt.Fprintf(w, "agent %3d  %-6s handle %5d  %-18s steps %5d  reached %v\n",
			i+1, a.md.Name, a.handle, a.result, a.steps, a.reached)
	}
	fmt.Fprintf(w, "agents %d  reached %d  stuck %d  failed %d  ticks %d\n",
		stats.requested, stats.reached, stats.stuck, stats.failed, stats.ticks)
	fmt.Fprintf(w, "path checksum %08x\n", m.PathChecksum())
	fmt.Fprintf(w, "sync checksum %08x\n", stats.sync)
}
