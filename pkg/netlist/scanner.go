package netlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type CardKind int

const (
	KindComment CardKind = iota
	KindVintage
	KindSection
	KindSource
	KindCoupled
	KindTransformer
	KindBergeron
	KindLumped
	KindBranch
	KindSwitch
	KindInclude
	KindContinuation
)

var kindNames = map[CardKind]string{
	KindComment:      "comment",
	KindVintage:      "vintage",
	KindSection:      "section",
	KindSource:       "source",
	KindCoupled:      "coupled",
	KindTransformer:  "transformer",
	KindBergeron:     "bergeron",
	KindLumped:       "lumped",
	KindBranch:       "branch",
	KindSwitch:       "switch",
	KindInclude:      "include",
	KindContinuation: "continuation",
}

func (k CardKind) String() string {
	return kindNames[k]
}

// Card is one classified line of a netlist.
type Card struct {
	Line    int
	Kind    CardKind
	Section string // /SOURCE, /BRANCH or /SWITCH in force
	Include string // PCH file of an $INCLUDE
	Text    string
}

// IsMachine reports a synchronous machine card.
func (c Card) IsMachine() bool {
	return c.Kind == KindInclude && c.Include == SyncMachPCH
}

// IsNetwork reports a line, transformer or switch card.
func (c Card) IsNetwork() bool {
	switch c.Kind {
	case KindTransformer, KindBergeron, KindLumped, KindSwitch:
		return true
	}
	return false
}

// Scan classifies every card of a netlist by its leading tokens and the
// section in force.
func Scan(r io.Reader) ([]Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []Card
	section := Branch
	inTransformer := false

	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		card := Card{Line: n, Text: line, Section: section}

		switch {
		case line == "" || line == "C" || strings.HasPrefix(line, "C "):
			card.Kind = KindComment
			if strings.HasPrefix(line, "C ====") {
				inTransformer = false
			}
		case strings.HasPrefix(line, "$VINTAGE"):
			card.Kind = KindVintage
			inTransformer = false
		case strings.HasPrefix(line, "/"):
			card.Kind = KindSection
			section = strings.TrimSpace(line)
			card.Section = section
			inTransformer = false
		case strings.HasPrefix(line, "$INCLUDE"):
			card.Kind = KindInclude
			parts := strings.Split(line, ",")
			if len(parts) < 2 {
				return nil, fmt.Errorf("line %d: include without file", n)
			}
			card.Include = strings.TrimSpace(parts[1])
			inTransformer = false
		case strings.HasPrefix(line, "  ,"):
			card.Kind = KindContinuation
		case strings.HasPrefix(line, "14"):
			card.Kind = KindSource
		case strings.HasPrefix(line, "51"), strings.HasPrefix(line, "52"), strings.HasPrefix(line, "53"):
			card.Kind = KindCoupled
		case strings.HasPrefix(line, "  TRANSFORMER"):
			card.Kind = KindTransformer
			inTransformer = true
		case inTransformer:
			card.Kind = KindTransformer
		case strings.HasPrefix(line, "-1"), strings.HasPrefix(line, "-2"), strings.HasPrefix(line, "-3"):
			card.Kind = KindBergeron
		case strings.HasPrefix(line, "1 "), strings.HasPrefix(line, "2 "), strings.HasPrefix(line, "3 "):
			card.Kind = KindLumped
		case len(line) > 26 && strings.TrimSpace(line[:26]) == "":
			// lower triangle continuation of a lumped line
			card.Kind = KindLumped
		case strings.HasPrefix(line, "  ") && section == Switch:
			card.Kind = KindSwitch
		case strings.HasPrefix(line, "  "):
			card.Kind = KindBranch
		default:
			return nil, fmt.Errorf("line %d: unrecognized card %q", n, line)
		}
		cards = append(cards, card)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

var ErrMachineOrder = errors.New("machine card before network card")

// CheckMachinesLast verifies that no machine card precedes the last line,
// transformer or switch card.
func CheckMachinesLast(cards []Card) error {
	lastNetwork := 0
	for _, c := range cards {
		if c.IsNetwork() {
			lastNetwork = c.Line
		}
	}
	for _, c := range cards {
		if c.IsMachine() && c.Line < lastNetwork {
			return fmt.Errorf("machine at line %d, network card at line %d: %w", c.Line, lastNetwork, ErrMachineOrder)
		}
	}
	return nil
}
