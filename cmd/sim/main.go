package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"seacraft/internal/persistence/savedb"
	"seacraft/internal/persistence/snapshot"
	"seacraft/internal/protocol"
	"seacraft/internal/sim/catalogs"
	"seacraft/internal/sim/grid"
	"seacraft/internal/sim/mathx"
	"seacraft/internal/sim/ocean"
	"seacraft/internal/sim/raft"
	"seacraft/internal/sim/tuning"
)

func main() {
	var (
		seed       = flag.Int64("seed", 1337, "ocean seed (used only when starting fresh)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		ticks      = flag.Uint64("ticks", 3600, "number of ticks to run")
		storm      = flag.Float64("storm", 0, "storm intensity in [0,1]")
		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "resume from the latest indexed save (when -snapshot is empty)")
		disableDB  = flag.Bool("disable_db", false, "disable the save index db")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[sim] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tun, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	logger.Printf("catalog: %d items, digest %.12s", len(cats.Palette), cats.DefsDigest)

	var saves *savedb.DB
	if !*disableDB {
		saves, err = savedb.Open(filepath.Join(*dataDir, "saves.db"))
		if err != nil {
			logger.Fatalf("open save db: %v", err)
		}
		defer saves.Close()
		_ = saves.SetMeta("items_digest", cats.DefsDigest)
	}

	// Resolve a snapshot to resume from, if any.
	resume := strings.TrimSpace(*snapPath)
	if resume == "" && *loadLatest && saves != nil {
		if row, ok, err := saves.Latest(); err != nil {
			logger.Fatalf("query latest save: %v", err)
		} else if ok {
			resume = row.Path
		}
	}

	reg := raft.NewRegistry(cats, raft.Config{
		CellSize:        tun.CellSize,
		ThrustPerEngine: tun.ThrustPerEngine,
		FallbackItem:    tun.FallbackItem,
	})
	reg.SetSink(logSink{logger})

	oceanSeed := *seed
	stormIntensity := mathx.Clamp(*storm, 0, 1)
	var startTick uint64
	if resume != "" {
		snap, err := snapshot.Read(resume)
		if err != nil {
			logger.Fatalf("read snapshot %s: %v", resume, err)
		}
		reg.RestoreSnapshot(snap)
		oceanSeed = snap.Seed
		stormIntensity = snap.StormIntensity
		startTick = snap.Header.Tick
		logger.Printf("resumed %d tiles from %s (tick %d)", reg.Len(), resume, startTick)
	}

	sea := ocean.New(ocean.Config{
		WaveCount: tun.Ocean.WaveCount,
		Seed:      oceanSeed,
		Calm:      presetFrom(tun.Ocean.Calm),
		Storm:     presetFrom(tun.Ocean.Storm),
	})
	sea.SetStormIntensity(stormIntensity)

	if reg.Len() == 0 {
		if err := buildStarterRaft(reg, tun, logger); err != nil {
			logger.Fatalf("starter raft: %v", err)
		}
	}

	run(runCfg{
		logger:    logger,
		reg:       reg,
		sea:       sea,
		tun:       tun,
		saves:     saves,
		dataDir:   *dataDir,
		seed:      oceanSeed,
		startTick: startTick,
		ticks:     *ticks,
	})
}

func presetFrom(p tuning.OceanPreset) ocean.Preset {
	return ocean.Preset{
		WaveHeight:      p.WaveHeight,
		WaveSpeed:       p.WaveSpeed,
		CurrentStrength: p.CurrentStrength,
		CurrentDir:      p.CurrentDir,
	}
}

type runCfg struct {
	logger    *log.Logger
	reg       *raft.Registry
	sea       *ocean.Field
	tun       tuning.Tuning
	saves     *savedb.DB
	dataDir   string
	seed      int64
	startTick uint64
	ticks     uint64
}

// run is the fixed-tick loop: advance the ocean, drift the raft with the
// current plus its own thrust, snapshot on schedule. This is the motion
// integrator in its simplest form: it only reads registry aggregates and
// ocean samples.
func run(c runCfg) {
	dt := 1.0 / float64(c.tun.TickRateHz)
	agg := c.reg.Aggregate()
	pos := agg.CenterOfMass
	heading := mathx.Vec3{X: 1}

	logEvery := uint64(c.tun.TickRateHz * 10)
	for i := uint64(0); i < c.ticks; i++ {
		tick := c.startTick + i
		c.sea.Advance(dt)

		agg = c.reg.Aggregate()
		vel := c.sea.CurrentAt(pos.X, pos.Z)
		if agg.CanMove {
			vel = vel.Add(heading.Scale(agg.Thrust * 0.1))
		}
		pos = pos.Add(vel.Scale(dt))
		pos.Y = c.sea.HeightAt(pos.X, pos.Z)

		if logEvery > 0 && tick%logEvery == 0 {
			c.logger.Printf("tick=%d pos=(%.1f,%.1f,%.1f) health=%.0f%% thrust=%.1f steering=%.0f",
				tick, pos.X, pos.Y, pos.Z, agg.HealthPercent*100, agg.Thrust, agg.Steering)
		}
		if c.tun.SnapshotEveryTicks > 0 && tick > 0 && tick%uint64(c.tun.SnapshotEveryTicks) == 0 {
			writeSave(c, tick)
		}
	}
	writeSave(c, c.startTick+c.ticks)
	c.logger.Printf("done: %d tiles, center=(%.1f,%.1f)", c.reg.Len(),
		c.reg.Aggregate().CenterOfMass.X, c.reg.Aggregate().CenterOfMass.Z)
}

func writeSave(c runCfg, tick uint64) {
	snap := c.reg.ExportSnapshot(tick, c.seed, c.sea.StormIntensity())
	path := filepath.Join(c.dataDir, "snapshots", fmt.Sprintf("raft-%010d.zst", tick))
	if err := snapshot.Write(path, snap); err != nil {
		c.logger.Printf("write snapshot: %v", err)
		return
	}
	if c.saves != nil {
		if _, err := c.saves.RecordSave(path, snap, c.reg.Aggregate().HealthPercent); err != nil {
			c.logger.Printf("index snapshot: %v", err)
		}
	}
}

// buildStarterRaft drives the build session end to end on a fresh world:
// a foundation cross, one engine, one rudder.
func buildStarterRaft(reg *raft.Registry, tun tuning.Tuning, logger *log.Logger) error {
	ledger := mapLedger{"PLANK": 60, "PLASTIC": 40, "SCRAP": 20, "ROPE": 10}
	sess := raft.NewSession(reg, ledger, logSink{logger}, tun.BuildReach)

	plan := []struct {
		item string
		cell grid.Cell
	}{
		{"FOUNDATION", grid.Cell{X: 0, Z: 0}},
		{"FOUNDATION", grid.Cell{X: 1, Z: 0}},
		{"FOUNDATION", grid.Cell{X: -1, Z: 0}},
		{"FOUNDATION", grid.Cell{X: 0, Z: 1}},
		{"FOUNDATION", grid.Cell{X: 0, Z: -1}},
		{"ENGINE", grid.Cell{X: 1, Z: 1}},
		{"RUDDER", grid.Cell{X: -1, Z: 1}},
	}
	topo := reg.Topology()
	forward := mathx.Vec3{X: 1}
	for _, p := range plan {
		anchor := topo.GridToWorld(p.cell).Sub(forward.Scale(tun.BuildReach))
		if err := sess.Start(p.item, anchor, forward); err != nil {
			return err
		}
		sess.Tick(anchor, forward)
		if _, err := sess.Confirm(); err != nil {
			return fmt.Errorf("place %s at (%d,%d): %w", p.item, p.cell.X, p.cell.Z, err)
		}
	}
	if sess.State() == raft.SessionActive {
		_ = sess.Cancel()
	}
	return nil
}

// mapLedger is the in-process resource ledger for the headless runner.
type mapLedger map[string]int

func (m mapLedger) Query(res string) int { return m[res] }

func (m mapLedger) TryDeduct(res string, n int) bool {
	if m[res] < n {
		return false
	}
	m[res] -= n
	return true
}

// logSink prints presentation events; a real client would attach visuals.
type logSink struct{ l *log.Logger }

func (s logSink) TilePlaced(ev protocol.TilePlacedEvent) {
	s.l.Printf("placed %s (%s) at (%d,%d)", ev.TileID, ev.ItemID, ev.Cell[0], ev.Cell[1])
}
func (s logSink) TileRemoved(ev protocol.TileRemovedEvent) {
	s.l.Printf("removed tile at (%d,%d)", ev.Cell[0], ev.Cell[1])
}
func (s logSink) BuildModeStarted(ev protocol.BuildModeStartedEvent) {
	s.l.Printf("build mode: %s", ev.ItemID)
}
func (s logSink) BuildModeCancelled(protocol.BuildModeCancelledEvent) {}
func (s logSink) PlacementInvalid(ev protocol.PlacementInvalidEvent) {
	s.l.Printf("placement invalid: %s", ev.Reason)
}
