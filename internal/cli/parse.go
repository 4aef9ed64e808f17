package cli

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/avolkov/tgexport/internal/extract"
)

// parseSelection parses a comma-separated multi-select like "1,3,4".
// Every entry must be within [1, max]. Duplicates collapse, first
// occurrence wins the order.
func parseSelection(input string, max int) ([]int, error) {
	parts := strings.Split(input, ",")
	choices := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, oops.With("entry", part).Errorf("not a number")
		}
		if n < 1 || n > max {
			return nil, oops.With("entry", n).Errorf("out of range 1..%d", max)
		}
		choices = append(choices, n)
	}
	if len(choices) == 0 {
		return nil, oops.Errorf("empty selection")
	}

	return lo.Uniq(choices), nil
}

// parseChatTypeSelection maps the chat-type menu (1 Personal, 2 Groups,
// 3 Channels, 4 Bots, 5 All) to a type filter. Choosing 5 selects every
// type.
func parseChatTypeSelection(input string) ([]extract.ChatType, error) {
	choices, err := parseSelection(input, 5)
	if err != nil {
		return nil, err
	}
	if lo.Contains(choices, 5) {
		return append([]extract.ChatType(nil), extract.AllChatTypes...), nil
	}

	return lo.Map(choices, func(c int, _ int) extract.ChatType {
		return extract.AllChatTypes[c-1]
	}), nil
}

// parseFolderSelection maps the folder menu to a set of list indices
// (0-based). Entry count+1 means every folder.
func parseFolderSelection(input string, count int) (all bool, indices []int, err error) {
	choices, err := parseSelection(input, count+1)
	if err != nil {
		return false, nil, err
	}
	if lo.Contains(choices, count+1) {
		return true, nil, nil
	}

	return false, lo.Map(choices, func(c int, _ int) int { return c - 1 }), nil
}
