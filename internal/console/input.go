package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DoyleJ11/wordgame-client/internal/engine"
)

var ErrQuit = errors.New("quit")
var ErrUnknownCommand = errors.New("unknown command")

/*
	guess N       -> ActGuess{Index: N}
	pass          -> ActPass
	clue WORD N   -> ActClue{Clue: WORD, NumGuesses: N}
	new           -> ActStartNew
	quit | exit   -> ErrQuit
*/

// Parse turns one input line into an action.
func Parse(line string) (engine.Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return engine.Action{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	switch strings.ToLower(fields[0]) {
	case "guess", "g":
		if len(fields) != 2 {
			return engine.Action{}, fmt.Errorf("%w: usage: guess N", ErrUnknownCommand)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return engine.Action{}, fmt.Errorf("%w: cell %q is not a number", ErrUnknownCommand, fields[1])
		}
		return engine.Action{Type: engine.ActGuess, Index: n}, nil

	case "pass", "p":
		return engine.Action{Type: engine.ActPass}, nil

	case "clue", "c":
		if len(fields) != 3 {
			return engine.Action{}, fmt.Errorf("%w: usage: clue WORD N", ErrUnknownCommand)
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return engine.Action{}, fmt.Errorf("%w: count %q is not a number", ErrUnknownCommand, fields[2])
		}
		return engine.Action{Type: engine.ActClue, Clue: fields[1], NumGuesses: n}, nil

	case "new":
		return engine.Action{Type: engine.ActStartNew}, nil

	case "quit", "exit", "q":
		return engine.Action{}, ErrQuit

	default:
		return engine.Action{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
}

// ReadActions parses lines from r and sends them on out until r is
// exhausted, the user quits, or ctx is done. out is closed on return.
// Unparseable lines are reported to errOut and skipped.
func ReadActions(ctx context.Context, r io.Reader, errOut io.Writer, out chan<- engine.Action) error {
	defer close(out)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		a, err := Parse(sc.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		select {
		case out <- a:
		case <-ctx.Done():
			return nil
		}
	}
	return sc.Err()
}
