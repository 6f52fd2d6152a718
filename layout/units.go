package layout

import (
	"fmt"

	"github.com/ByLCY/labelgrid/dsl"
)

// This file defines unit-safe types and helpers for lengths.

// Unit represents the original unit of a length value as written in config.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

func unitFromString(s string) Unit {
	switch s {
	case "mm":
		return UnitMM
	case "cm":
		return UnitCM
	case "in":
		return UnitIN
	case "pt":
		return UnitPT
	default:
		return UnitNone
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) String() string { return fmt.Sprintf("%g%s", l.Value, UnitToString(l.Unit)) }

// To converts this length to target unit. Supported targets: UnitMM, UnitPT.
func (l Length) To(target Unit) float64 {
	var mm float64
	switch l.Unit {
	case UnitMM:
		mm = l.Value
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * 25.4
	case UnitPT:
		if target == UnitPT {
			return l.Value
		}
		mm = l.Value * PtToMm
	default:
		return l.Value
	}
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseLength parses a config length such as "10.6cm". Numbers without a
// suffix get fallback as their unit.
func ParseLength(value string, fallback Unit) (Length, error) {
	raw, err := dsl.ParseLength(value)
	if err != nil {
		return Length{}, err
	}
	return fromRaw(*raw, fallback), nil
}

// ParseSize parses a page size such as "10.6cm x 2.1cm".
func ParseSize(value string, fallback Unit) (Length, Length, error) {
	raw, err := dsl.ParseSize(value)
	if err != nil {
		return Length{}, Length{}, err
	}
	return fromRaw(raw.Width, fallback), fromRaw(raw.Height, fallback), nil
}

func fromRaw(raw dsl.Length, fallback Unit) Length {
	unit := unitFromString(raw.Unit)
	if unit == UnitNone {
		unit = fallback
	}
	return Length{Value: raw.Value, Unit: unit}
}
