package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/b1ack-panther/jikan-journeys/internal/filter"
)

// commandHelp is shown under the prompt.
const commandHelp = `genre <id|name>... · rating <g|pg|pg13|r17|r+|any> · score <min-max|any> · clear · page <n>`

// promptAction is the result of a prompt line: either a new filter set or a page.
type promptAction struct {
	filters *filter.Set
	page    int
}

var errEmptyCommand = errors.New("empty command")

// parseCommand interprets one prompt line against the current filters.
func parseCommand(line string, current filter.Set) (promptAction, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return promptAction{}, fmt.Errorf("parse command: %w", err)
	}
	if len(args) == 0 {
		return promptAction{}, errEmptyCommand
	}

	verb, args := strings.ToLower(args[0]), args[1:]
	switch verb {
	case "genre", "genres", "g":
		if len(args) == 0 {
			return promptAction{}, errors.New("genre: expected at least one id or name")
		}
		next := current
		for _, a := range args {
			id, err := filter.ParseGenre(a)
			if err != nil {
				return promptAction{}, err
			}
			next = filter.ToggleGenre(next, id)
		}
		return promptAction{filters: &next}, nil

	case "rating", "r":
		if len(args) != 1 {
			return promptAction{}, errors.New("rating: expected one value")
		}
		rating, err := filter.ParseRating(args[0])
		if err != nil {
			return promptAction{}, err
		}
		next := filter.SetRating(current, rating)
		return promptAction{filters: &next}, nil

	case "score", "s":
		if len(args) != 1 {
			return promptAction{}, errors.New("score: expected min-max or any")
		}
		var next filter.Set
		if isAny(args[0]) {
			next = filter.SetScoreRange(current, nil)
		} else {
			r, err := filter.ParseScoreRange(args[0])
			if err != nil {
				return promptAction{}, err
			}
			next = filter.SetScoreRange(current, &r)
		}
		return promptAction{filters: &next}, nil

	case "clear", "reset":
		next := filter.Clear()
		return promptAction{filters: &next}, nil

	case "page", "p":
		if len(args) != 1 {
			return promptAction{}, errors.New("page: expected a number")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return promptAction{}, fmt.Errorf("page: %w", err)
		}
		return promptAction{page: n}, nil
	}
	return promptAction{}, fmt.Errorf("unknown command %q", verb)
}

func isAny(s string) bool {
	switch strings.ToLower(s) {
	case "any", "all", "none", "":
		return true
	}
	return false
}
