// Package shell implements the interactive solver front end: deal or
// load positions, inspect moves, and run the search with live progress.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cmocanu/klondike/config"
	"github.com/cmocanu/klondike/game"
	"github.com/cmocanu/klondike/move"
	"github.com/cmocanu/klondike/pos"
	"github.com/cmocanu/klondike/solver"
)

// ShellController drives the REPL. The solve command runs on its own
// goroutine; solveMu guards the fields it shares with the command loop.
type ShellController struct {
	l   *readline.Instance
	cfg *config.Config
	out io.Writer

	curState *game.State
	curMoves []move.Move

	solveMu      sync.Mutex
	solveWg      sync.WaitGroup
	solveCancel  context.CancelFunc
	solveRunning bool
	lastSolution *solver.Solution

	printer *message.Printer
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewShellController creates a controller writing to stdout.
func NewShellController(cfg *config.Config) *ShellController {
	return &ShellController{
		cfg:     cfg,
		out:     os.Stdout,
		printer: message.NewPrinter(language.English),
	}
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

// Loop runs the REPL until exit or EOF. The sig channel is notified
// when the user exits so the host process can shut down.
func (sc *ShellController) Loop(sig chan os.Signal) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mklondike>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	defer l.Close()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		sc.execLine(line)
	}
	sc.stopSolve()
	sc.waitSolve()
	log.Info().Msg("Exiting readline loop...")
	sig <- os.Interrupt
}

// Execute runs a single command line non-interactively. A solve started
// by the line runs to completion before Execute returns.
func (sc *ShellController) Execute(line string) {
	sc.execLine(strings.TrimSpace(line))
	sc.waitSolve()
}

func (sc *ShellController) execLine(line string) {
	fields, err := shellquote.Split(line)
	if err != nil {
		sc.showMessage("Error: " + err.Error())
		return
	}
	if len(fields) == 0 {
		return
	}
	cmd, args := fields[0], fields[1:]

	var cmdErr error
	switch cmd {
	case "new":
		cmdErr = sc.newGame(args)
	case "load":
		cmdErr = sc.load(args)
	case "export":
		cmdErr = sc.export(args)
	case "show":
		cmdErr = sc.show()
	case "moves":
		cmdErr = sc.moves()
	case "play":
		cmdErr = sc.play(args)
	case "solve":
		cmdErr = sc.solve(args)
	case "stop":
		sc.stopSolve()
	case "solution":
		cmdErr = sc.solution()
	case "set":
		cmdErr = sc.set(args)
	case "autosolve":
		cmdErr = sc.autosolve(args)
	case "help":
		usage(sc.out)
	default:
		sc.showMessage("Unknown command: " + cmd)
	}
	if cmdErr != nil {
		sc.showMessage("Error: " + cmdErr.Error())
	}
}

func (sc *ShellController) newGame(args []string) error {
	seed := uint64(0)
	if len(args) > 0 {
		s, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad seed %q", args[0])
		}
		seed = s
	}
	sc.curState = game.NewDeal(seed)
	sc.curMoves = nil
	sc.showMessage(fmt.Sprintf("Dealt game with seed %d.", seed))
	return sc.show()
}

func (sc *ShellController) load(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: load <path>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	s, err := pos.Parse(string(data))
	if err != nil {
		return err
	}
	sc.curState = s
	sc.curMoves = nil
	return sc.show()
}

func (sc *ShellController) export(args []string) error {
	if sc.curState == nil {
		return errNoGame
	}
	notation := pos.String(sc.curState)
	if len(args) == 0 {
		sc.showMessage(notation)
		return nil
	}
	return os.WriteFile(args[0], []byte(notation+"\n"), 0644)
}

func (sc *ShellController) show() error {
	if sc.curState == nil {
		return errNoGame
	}
	sc.showMessage(sc.curState.ToDisplayText())
	return nil
}

func (sc *ShellController) moves() error {
	if sc.curState == nil {
		return errNoGame
	}
	sc.curMoves = sc.curState.AvailableMoves()
	if len(sc.curMoves) == 0 {
		sc.showMessage("No legal moves.")
		return nil
	}
	for i, m := range sc.curMoves {
		sc.showMessage(fmt.Sprintf("%2d: %s", i+1, m.ShortDescription()))
	}
	return nil
}

func (sc *ShellController) play(args []string) error {
	if sc.curState == nil {
		return errNoGame
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: play <move number from 'moves'>")
	}
	if sc.curMoves == nil {
		sc.curMoves = sc.curState.AvailableMoves()
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(sc.curMoves) {
		return fmt.Errorf("move number must be between 1 and %d", len(sc.curMoves))
	}
	m := sc.curMoves[n-1]
	sc.curState = sc.curState.ApplyMove(m)
	sc.curMoves = nil
	sc.showMessage(m.ShortDescription())
	return sc.show()
}

func (sc *ShellController) set(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set <iterations|weight> <value>")
	}
	switch args[0] {
	case "iterations":
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("iterations must be a positive integer")
		}
		sc.cfg.MaxIterations = n
	case "weight":
		w, err := strconv.ParseFloat(args[1], 64)
		if err != nil || w < 0 {
			return fmt.Errorf("weight must be a non-negative number")
		}
		sc.cfg.HeuristicWeight = w
	default:
		return fmt.Errorf("unknown option %q", args[0])
	}
	sc.showMessage(fmt.Sprintf("%s set to %s", args[0], args[1]))
	return nil
}

func (sc *ShellController) solution() error {
	sc.solveMu.Lock()
	sol := sc.lastSolution
	sc.solveMu.Unlock()
	if sol == nil {
		return fmt.Errorf("no solution yet; run solve first")
	}
	sc.printSolution(sol)
	return nil
}

func (sc *ShellController) printSolution(sol *solver.Solution) {
	if sol.Won() {
		sc.showMessage(fmt.Sprintf("Winning solution, %d moves:", len(sol.Moves)))
	} else {
		sc.showMessage(fmt.Sprintf(
			"Partial solution, %d/52 cards on foundations, %d moves:",
			sol.FoundationCount, len(sol.Moves)))
	}
	for i, m := range sol.Moves {
		sc.showMessage(fmt.Sprintf("%3d. %s", i+1, m.ShortDescription()))
	}
}
