// Command shogi-usi runs the engine as a USI protocol server, readable from
// any USI-speaking GUI over stdin/stdout.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/fgantt/shogi-engine/internal/book"
	"github.com/fgantt/shogi-engine/internal/engine"
	"github.com/fgantt/shogi-engine/internal/storage"
	"github.com/fgantt/shogi-engine/internal/tablebase"
	"github.com/fgantt/shogi-engine/internal/usi"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	bookPath   = flag.String("book", "", "opening book database directory (empty disables the book)")
	tbURL      = flag.String("tablebase", "", "endgame tablebase service URL (empty disables probing)")
	tbPieces   = flag.Int("tablebase-pieces", 6, "maximum piece count worth a tablebase probe")
)

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	eng := engine.NewEngine(*hashMB)

	st, err := storage.NewStorage()
	if err != nil {
		log.Printf("storage unavailable, running without persisted config/stats: %v", err)
		st = nil
	} else {
		defer st.Close()
		if cfg, err := st.LoadEvalConfig(); err == nil {
			if err := eng.ApplyEvalConfig(cfg); err != nil {
				log.Printf("stored eval config rejected: %v", err)
			}
		}
	}

	var bk *book.Book
	if *bookPath != "" {
		bk, err = book.Open(*bookPath)
		if err != nil {
			log.Printf("opening book unavailable: %v", err)
			bk = nil
		} else {
			defer bk.Close()
		}
	}

	var tb tablebase.Prober
	if *tbURL != "" {
		remote := tablebase.NewRemoteProber(*tbURL, *tbPieces)
		if dir, err := storage.GetTablebaseDir(); err == nil {
			cached, err := tablebase.NewCachedProber(remote, dir)
			if err != nil {
				log.Printf("tablebase cache unavailable, probing uncached: %v", err)
				tb = remote
			} else {
				defer cached.Close()
				tb = cached
			}
		} else {
			tb = remote
		}
	}

	protocol := usi.New(eng, st, bk, tb)
	protocol.Run()
}
