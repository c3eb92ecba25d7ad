package terminal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

type CommandKind int

const (
	CommandSelect CommandKind = iota
	CommandRestart
	CommandResults
	CommandQuit
)

// Command is one line of learner input. Option is only set for CommandSelect.
type Command struct {
	Kind   CommandKind
	Option int
}

// ParseCommand reads a line typed during a quiz. Options are chosen by letter
// (a, B) or by 1-based number; r restarts, s shows results and q quits.
func ParseCommand(line string, options int) (Command, error) {
	input := strings.ToLower(strings.TrimSpace(line))
	switch input {
	case "":
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	case "q", "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	case "r", "restart":
		return Command{Kind: CommandRestart}, nil
	case "s", "results":
		return Command{Kind: CommandResults}, nil
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > options {
			return Command{}, fmt.Errorf("%w: option %d out of range", ErrUnknownCommand, n)
		}
		return Command{Kind: CommandSelect, Option: n - 1}, nil
	}
	if len(input) == 1 && input[0] >= 'a' && input[0] <= 'z' {
		idx := int(input[0] - 'a')
		if idx >= options {
			return Command{}, fmt.Errorf("%w: option %s out of range", ErrUnknownCommand, strings.ToUpper(input))
		}
		return Command{Kind: CommandSelect, Option: idx}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}
