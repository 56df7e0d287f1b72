package graph

import (
	"fmt"
	"strings"
)

// Which relationships of a node to follow.
type Direction uint8

const (
	OUTGOING Direction = iota // Edges where the node is the source.
	INCOMING                  // Edges where the node is the destination.
	BOTH                      // Union of the two.
)

// The direction messages travel back along. BOTH is its own reverse.
func (d Direction) Reverse() Direction {
	switch d {
	case OUTGOING:
		return INCOMING
	case INCOMING:
		return OUTGOING
	default:
		return BOTH
	}
}

func (d Direction) String() string {
	switch d {
	case OUTGOING:
		return "outgoing"
	case INCOMING:
		return "incoming"
	case BOTH:
		return "both"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "out", "outgoing", "natural":
		return OUTGOING, nil
	case "in", "incoming", "reverse":
		return INCOMING, nil
	case "both", "undirected":
		return BOTH, nil
	}
	return OUTGOING, fmt.Errorf("unknown direction %q", s)
}

// Allows directions to be given by name in config files.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
