package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ItemLine is one parsed "<name> - <quantity><unit>" entry.
type ItemLine struct {
	Name     string
	Quantity int
	Unit     string
}

// String renders the line back in its input form.
func (l ItemLine) String() string {
	return fmt.Sprintf("%s - %d%s", l.Name, l.Quantity, l.Unit)
}

// ParseItemLine parses entries such as "rice - 10kg" or "bolts - 200". The
// name is everything before the last " - "; the quantity is the leading run
// of digits after it and must be positive; whatever follows is the unit,
// which must be empty or start with a letter.
func ParseItemLine(s string) (ItemLine, error) {
	i := strings.LastIndex(s, " - ")
	if i < 0 {
		return ItemLine{}, fmt.Errorf("item %q: missing \" - \" separator", s)
	}

	name := strings.TrimSpace(s[:i])
	if name == "" {
		return ItemLine{}, fmt.Errorf("item %q: empty name", s)
	}

	rest := strings.TrimSpace(s[i+3:])
	end := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(rest)
	}
	if end == 0 {
		return ItemLine{}, fmt.Errorf("item %q: quantity must start with a number", s)
	}

	qty, err := strconv.Atoi(rest[:end])
	if err != nil {
		return ItemLine{}, fmt.Errorf("item %q: %w", s, err)
	}
	if qty <= 0 {
		return ItemLine{}, fmt.Errorf("item %q: quantity must be positive", s)
	}

	unit := strings.TrimSpace(rest[end:])
	if unit != "" && !unicode.IsLetter([]rune(unit)[0]) {
		return ItemLine{}, fmt.Errorf("item %q: quantity must be a whole number followed by a unit", s)
	}

	return ItemLine{
		Name:     name,
		Quantity: qty,
		Unit:     unit,
	}, nil
}
