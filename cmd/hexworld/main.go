// Command hexworld generates a hex map, records the run, and optionally
// serves it over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/talgya/hexworld/internal/api"
	"github.com/talgya/hexworld/internal/config"
	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/hexgrid"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	seedFlag := flag.Int64("seed", 0, "map seed (0 = config, then a fresh seed)")
	replay := flag.Bool("replay", false, "regenerate the last recorded map")
	fromFlag := flag.String("from", "", "path query start as x,y")
	toFlag := flag.String("to", "", "path query end as x,y")
	serve := flag.Bool("serve", false, "serve the HTTP API until interrupted")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755)
	db, err := persistence.Open(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Storage.Path)

	// ── Seed ──────────────────────────────────────────────────────────
	gen := cfg.GenConfig()
	switch {
	case *seedFlag != 0:
		gen.Seed = *seedFlag
	case *replay:
		last, err := db.LastSeed()
		if err != nil {
			slog.Error("failed to read last seed", "error", err)
			os.Exit(1)
		}
		if last == 0 {
			slog.Warn("no recorded run to replay, using a fresh seed")
		}
		gen.Seed = last
	}
	if gen.Seed == 0 {
		gen.Seed = entropy.SeedFromSource(entropy.NewClient(cfg.Entropy.RandomOrgKey))
	}

	// ── Map ───────────────────────────────────────────────────────────
	slog.Info("generating map...", "width", gen.Width, "height", gen.Height,
		"regions", gen.Regions, "seed", gen.Seed, "obstacles", gen.ObstacleSource)
	m := world.Generate(gen)
	api.ObserveGeneration(m.Stats)

	counts := world.TerrainCounts(m)
	for _, t := range world.Terrains {
		if c := counts[t]; c > 0 {
			slog.Info("terrain", "type", world.TerrainName(t), "count", c)
		}
	}
	slog.Info("map generated",
		"map", m.String(),
		"empty_regions", m.Stats.EmptyRegions,
		"obstacles", m.Stats.Obstacles(),
		"link_cleared", m.Stats.LinkCleared,
		"repair_cleared", m.Stats.RepairCleared,
		"walkable", m.Stats.Walkable,
		"walk_edges", m.WalkableGraph().Edges(),
		"elapsed", m.Stats.Elapsed,
	)

	id, err := db.SaveRun(persistence.NewRun(m.Stats, gen.ObstacleSource))
	if err != nil {
		slog.Error("failed to record run", "error", err)
	} else {
		slog.Info("run recorded", "id", id, "seed", m.Seed())
	}

	// ── Path query ────────────────────────────────────────────────────
	if *fromFlag != "" || *toFlag != "" {
		if err := printPath(m, *fromFlag, *toFlag); err != nil {
			slog.Error("path query failed", "error", err)
			os.Exit(1)
		}
	}

	if !*serve {
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Map:       m,
		DB:        db,
		Port:      cfg.Server.Port,
		PathLimit: cfg.Server.PathRateLimit,
	}
	apiServer.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Server.Port)

	// ── Run until signalled ───────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
}

// printPath answers one -from/-to query on stdout.
func printPath(m *world.Map, fromArg, toArg string) error {
	from, err := parseHex(fromArg)
	if err != nil {
		return fmt.Errorf("-from: %w", err)
	}
	to, err := parseHex(toArg)
	if err != nil {
		return fmt.Errorf("-to: %w", err)
	}
	if m.Grid().OffGrid(from) || m.Grid().OffGrid(to) {
		return fmt.Errorf("%s or %s is off %s", from, to, m.Grid())
	}

	path := m.FindHexPath(from, to)
	if len(path) == 0 {
		fmt.Printf("no path from %s to %s\n", from, to)
		return nil
	}
	chain := m.RegionPath(m.RegionAt(from), m.RegionAt(to))
	fmt.Printf("path %s -> %s: %d steps via regions %v\n", from, to, len(path)-1, chain)
	for _, p := range path {
		fmt.Printf("  %s %s region=%d\n", p, m.TerrainAt(p), m.RegionAt(p))
	}
	return nil
}

func parseHex(s string) (hexgrid.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return hexgrid.Invalid, fmt.Errorf("want x,y, got %q", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return hexgrid.Invalid, fmt.Errorf("want x,y, got %q", s)
	}
	return hexgrid.Point{X: x, Y: y}, nil
}
