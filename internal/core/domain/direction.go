package domain

import (
	"fmt"
	"strings"
)

// Direction is the ordered (source, target) language pair of a translation.
type Direction string

const (
	DirectionEnFr Direction = "en-fr"
	DirectionFrEn Direction = "fr-en"
)

// ModeAuto asks the pipeline to guess the direction from the document text.
const ModeAuto = "auto"

// Mode is either a concrete Direction or ModeAuto.
type Mode string

func (d Direction) Valid() bool {
	switch d {
	case DirectionEnFr, DirectionFrEn:
		return true
	default:
		return false
	}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == DirectionFrEn {
		return DirectionEnFr
	}
	return DirectionFrEn
}

func (d Direction) String() string { return string(d) }

// ParseDirection accepts "en-fr"/"fr-en" in any case and with surrounding blanks.
func ParseDirection(raw string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", WrapError(ErrInvalidInput, "parse direction", fmt.Errorf("unknown direction %q", raw))
	}
	return d, nil
}

// ParseMode accepts a direction or "auto". An empty value means auto.
func ParseMode(raw string) (Mode, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == ModeAuto {
		return Mode(ModeAuto), nil
	}
	d, err := ParseDirection(value)
	if err != nil {
		return "", WrapError(ErrInvalidInput, "parse mode", fmt.Errorf("unknown mode %q", raw))
	}
	return Mode(d), nil
}

func (m Mode) IsAuto() bool { return m == ModeAuto }

// Direction returns the concrete direction of a non-auto mode.
func (m Mode) Direction() (Direction, bool) {
	d := Direction(m)
	return d, d.Valid()
}
