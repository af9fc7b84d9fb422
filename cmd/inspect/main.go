package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"seacraft/internal/persistence/snapshot"
)

func main() {
	headerOnly := flag.Bool("header", false, "print only the snapshot header")
	flag.Parse()

	logger := log.New(os.Stderr, "[inspect] ", 0)
	if flag.NArg() != 1 {
		logger.Fatalf("usage: inspect [-header] <snapshot.zst>")
	}
	path := flag.Arg(0)

	if *headerOnly {
		h, err := snapshot.ReadHeader(path)
		if err != nil {
			logger.Fatalf("read header: %v", err)
		}
		fmt.Printf("version=%d tick=%d\n", h.Version, h.Tick)
		return
	}

	snap, err := snapshot.Read(path)
	if err != nil {
		logger.Fatalf("read snapshot: %v", err)
	}

	fmt.Printf("version=%d tick=%d seed=%d cell_size=%g storm=%.2f\n",
		snap.Header.Version, snap.Header.Tick, snap.Seed, snap.CellSize, snap.StormIntensity)
	fmt.Printf("center=(%.2f, %.2f, %.2f) tiles=%d\n",
		snap.RaftCenter[0], snap.RaftCenter[1], snap.RaftCenter[2], len(snap.Tiles))

	byType := map[string]int{}
	for _, t := range snap.Tiles {
		byType[t.TileType]++
	}
	types := make([]string, 0, len(byType))
	for k := range byType {
		types = append(types, k)
	}
	sort.Strings(types)
	for _, k := range types {
		fmt.Printf("  %-16s %d\n", k, byType[k])
	}
}
