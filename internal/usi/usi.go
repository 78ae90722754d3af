// Package usi implements the USI (Universal Shogi Interface) protocol, the
// Shogi analogue of UCI: a line-based stdin/stdout command loop that lets a
// GUI drive the engine.
package usi

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fgantt/shogi-engine/internal/book"
	"github.com/fgantt/shogi-engine/internal/engine"
	"github.com/fgantt/shogi-engine/internal/shogi"
	"github.com/fgantt/shogi-engine/internal/storage"
	"github.com/fgantt/shogi-engine/internal/tablebase"
)

// USI drives one engine instance through the USI command loop.
type USI struct {
	eng     *engine.Engine
	storage *storage.Storage
	book    *book.Book
	tb      tablebase.Prober
	pos     *shogi.Position

	out io.Writer

	searching  bool
	searchDone chan struct{}
	stopFlag   *atomic.Bool
}

// New creates a protocol handler around an already-configured engine.
// storage, book, and tablebase prober may all be nil; each is optional.
func New(eng *engine.Engine, st *storage.Storage, bk *book.Book, tb tablebase.Prober) *USI {
	return &USI{
		eng:     eng,
		storage: st,
		book:    bk,
		tb:      tb,
		pos:     shogi.NewPosition(),
		out:     os.Stdout,
	}
}

// Run reads commands from stdin until "quit" or EOF.
func (u *USI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "usi":
			u.handleUSI()
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "usinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "gameover":
			// No ranking/learning state to persist per result; acknowledged
			// silently, matching a GUI's expectation of no reply.
		case "setoption":
			u.handleSetOption(args)
		case "quit":
			u.handleStop()
			return
		case "d":
			fmt.Fprintln(u.out, u.pos.String())
		}
	}
}

func (u *USI) handleUSI() {
	fmt.Fprintln(u.out, "id name shogi-engine")
	fmt.Fprintln(u.out, "id author shogi-engine contributors")
	fmt.Fprintln(u.out, "option name USI_Hash type spin default 64 min 1 max 4096")
	fmt.Fprintln(u.out, "option name USI_Ponder type check default false")
	fmt.Fprintln(u.out, "option name EvalCorrection type check default false")
	fmt.Fprintln(u.out, "usiok")
}

func (u *USI) handleNewGame() {
	u.eng.NewGame()
	u.pos = shogi.NewPosition()
}

// handlePosition parses:
//
//	position startpos
//	position startpos moves 7g7f 3c3d
//	position sfen <sfen fields...> moves ...
func (u *USI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *shogi.Position
	var err error
	moveStart := len(args)

	if args[0] == "startpos" {
		pos = shogi.NewPosition()
		moveStart = 1
	} else if args[0] == "sfen" {
		end := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				end = i
				break
			}
		}
		pos, err = shogi.ParseSFEN(strings.Join(args[1:end], " "))
		if err != nil {
			fmt.Fprintf(u.out, "info string invalid sfen: %v\n", err)
			return
		}
		moveStart = end
	} else {
		return
	}

	for i, a := range args {
		if a == "moves" {
			moveStart = i + 1
			break
		}
	}

	history := u.eng.History()
	history.Reset()
	history.Push(pos.Hash)

	if moveStart < len(args) {
		for _, moveStr := range args[moveStart:] {
			move, ok := parseUSIMove(pos, moveStr)
			if !ok {
				fmt.Fprintf(u.out, "info string invalid move: %s\n", moveStr)
				return
			}
			pos.MakeMove(move)
			history.Push(pos.Hash)
		}
	}

	u.pos = pos
}

// parseUSIMove resolves a USI move token ("7g7f", "8h2b+", "P*5e") against
// pos's legal moves, including drops.
func parseUSIMove(pos *shogi.Position, s string) (shogi.Move, bool) {
	legal := shogi.GenerateLegalMoves(pos)

	if strings.Contains(s, "*") {
		parts := strings.SplitN(s, "*", 2)
		if len(parts) != 2 || len(parts[0]) != 1 {
			return shogi.NoMove, false
		}
		pt, ok := parsePieceLetter(parts[0][0])
		if !ok {
			return shogi.NoMove, false
		}
		to, err := shogi.ParseSquare(parts[1])
		if err != nil {
			return shogi.NoMove, false
		}
		for i := 0; i < legal.Len(); i++ {
			m := legal.Get(i)
			if m.IsDrop() && m.Piece == pt && m.To == to {
				return m, true
			}
		}
		return shogi.NoMove, false
	}

	if len(s) < 4 {
		return shogi.NoMove, false
	}
	from, err := shogi.ParseSquare(s[0:2])
	if err != nil {
		return shogi.NoMove, false
	}
	to, err := shogi.ParseSquare(s[2:4])
	if err != nil {
		return shogi.NoMove, false
	}
	promote := len(s) == 5 && s[4] == '+'

	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if !m.IsDrop() && m.From == from && m.To == to && m.Promote == promote {
			return m, true
		}
	}
	return shogi.NoMove, false
}

func parsePieceLetter(b byte) (shogi.PieceType, bool) {
	switch b {
	case 'P':
		return shogi.Pawn, true
	case 'L':
		return shogi.Lance, true
	case 'N':
		return shogi.Knight, true
	case 'S':
		return shogi.Silver, true
	case 'G':
		return shogi.Gold, true
	case 'B':
		return shogi.Bishop, true
	case 'R':
		return shogi.Rook, true
	default:
		return shogi.NoPieceType, false
	}
}

// GoOptions holds parsed "go" command arguments.
type GoOptions struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
	Infinite bool
	Time     [2]time.Duration
	Inc      [2]time.Duration
	Byoyomi  time.Duration
}

func (u *USI) handleGo(args []string) {
	opts := parseGoOptions(args)

	if bookMove, ok := u.book.Probe(u.pos.Hash); ok {
		fmt.Fprintf(u.out, "bestmove %s\n", bookMove.String())
		return
	}

	// With few enough pieces left, an exact tablebase verdict beats any
	// search; the root probe also names the move that holds it.
	if u.tb != nil && u.tb.Available() && tablebase.CountPieces(u.pos) <= u.tb.MaxPieces() {
		if tbResult := u.tb.ProbeRoot(u.pos); tbResult.Found {
			fmt.Fprintf(u.out, "info string tablebase wdl %d dtm %d\n", tbResult.WDL, tbResult.DTM)
			fmt.Fprintf(u.out, "bestmove %s\n", tbResult.Move.String())
			return
		}
	}

	u.stopFlag = &atomic.Bool{}

	searchOpts := engine.SearchOptions{
		MaxDepth: opts.Depth,
		MaxNodes: opts.Nodes,
		StopFlag: u.stopFlag,
		InfoFunc: func(info engine.InfoEvent) {
			u.sendInfo(info)
		},
	}

	if opts.MoveTime > 0 {
		searchOpts.TimeMS = int(opts.MoveTime.Milliseconds())
	} else if !opts.Infinite {
		tm := usiTimeManager{}
		searchOpts.TimeMS = tm.allocate(opts, u.pos.SideToMove, u.pos.Ply)
	}

	pos := u.pos.Copy()

	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)
		start := time.Now()
		result := u.eng.Search(pos, searchOpts)
		u.searching = false

		if u.storage != nil {
			_ = u.storage.RecordSearch(result.Nodes, time.Since(start))
		}

		best := result.BestMove
		if best == shogi.NoMove {
			legal := shogi.GenerateLegalMoves(pos)
			if legal.Len() > 0 {
				best = legal.Get(0)
			}
		}
		if best == shogi.NoMove {
			fmt.Fprintln(u.out, "bestmove resign")
			return
		}
		fmt.Fprintf(u.out, "bestmove %s\n", best.String())
	}()
}

func parseGoOptions(args []string) GoOptions {
	var opts GoOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.Time[shogi.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.Time[shogi.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.Inc[shogi.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.Inc[shogi.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "byoyomi":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.Byoyomi = time.Duration(ms) * time.Millisecond
				i++
			}
		}
	}
	return opts
}

// usiTimeManager converts "go" time-control fields into a single move-time
// budget, delegating to the engine's own TimeManager rather than
// duplicating its logic.
type usiTimeManager struct{}

func (usiTimeManager) allocate(opts GoOptions, us shogi.Color, ply int) int {
	tm := engine.NewTimeManager()
	limits := engine.USILimits{
		Time:    opts.Time,
		Inc:     opts.Inc,
		Byoyomi: opts.Byoyomi,
	}
	tm.Init(limits, us, ply)
	return int(tm.OptimumTime().Milliseconds())
}

func (u *USI) handleStop() {
	if u.searching && u.stopFlag != nil {
		u.stopFlag.Store(true)
		<-u.searchDone
	}
}

func (u *USI) sendInfo(info engine.InfoEvent) {
	var b strings.Builder
	fmt.Fprintf(&b, "info depth %d seldepth %d", info.Depth, info.SelDepth)
	if info.Mate != 0 {
		fmt.Fprintf(&b, " score mate %d", info.Mate)
	} else {
		fmt.Fprintf(&b, " score cp %d", info.Score)
	}
	fmt.Fprintf(&b, " nodes %d nps %d time %d hashfull %d", info.Nodes, info.NPS, info.TimeMS, info.HashFull)
	if len(info.PV) > 0 {
		fmt.Fprintf(&b, " pv %s", strings.Join(info.PV, " "))
	}
	fmt.Fprintln(u.out, b.String())
}

func (u *USI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false
	for _, a := range args {
		switch a {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += a
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += a
			}
		}
	}

	switch strings.ToLower(name) {
	case "usi_hash":
		if mb, err := strconv.Atoi(value); err == nil && mb > 0 {
			u.eng.SetTTSizeMB(mb)
		}
	case "evalcorrection":
		u.eng.EnableEvalCorrection(strings.EqualFold(value, "true"))
	}
}
