package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidValue is returned when a string does not name a known enum value.
var ErrInvalidValue = errors.New("invalid value")

type BowlerType string

const (
	BowlerFast    BowlerType = "Fast Bowler"
	BowlerMedium  BowlerType = "Medium Pacer"
	BowlerOffSpin BowlerType = "Off Spinner"
	BowlerLegSpin BowlerType = "Leg Spinner"
)

type Line string

const (
	LineWideOutsideOff Line = "Wide Outside Off"
	LineOutsideOff     Line = "Outside Off"
	LineStumpToStump   Line = "Stump to Stump"
	LineLegSide        Line = "Leg Side / Down Leg"
)

type Length string

const (
	LengthYorker Length = "Yorker"
	LengthFull   Length = "Full"
	LengthGood   Length = "Good Length"
	LengthShort  Length = "Short / Bouncer"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

var (
	bowlerSlugs = map[string]BowlerType{
		"fast":     BowlerFast,
		"medium":   BowlerMedium,
		"off-spin": BowlerOffSpin,
		"leg-spin": BowlerLegSpin,
	}
	lineSlugs = map[string]Line{
		"wide-outside-off": LineWideOutsideOff,
		"outside-off":      LineOutsideOff,
		"stump-to-stump":   LineStumpToStump,
		"leg-side":         LineLegSide,
	}
	lengthSlugs = map[string]Length{
		"yorker": LengthYorker,
		"full":   LengthFull,
		"good":   LengthGood,
		"short":  LengthShort,
	}
)

// AllBowlerTypes returns the bowler types in display order.
func AllBowlerTypes() []BowlerType {
	return []BowlerType{BowlerFast, BowlerMedium, BowlerOffSpin, BowlerLegSpin}
}

// AllLines returns the delivery lines in display order.
func AllLines() []Line {
	return []Line{LineWideOutsideOff, LineOutsideOff, LineStumpToStump, LineLegSide}
}

// AllLengths returns the delivery lengths in display order.
func AllLengths() []Length {
	return []Length{LengthYorker, LengthFull, LengthGood, LengthShort}
}

// AllRiskLevels returns the risk levels from lowest to highest.
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh}
}

func (b BowlerType) Valid() bool { return contains(AllBowlerTypes(), b) }
func (l Line) Valid() bool       { return contains(AllLines(), l) }
func (l Length) Valid() bool     { return contains(AllLengths(), l) }
func (r RiskLevel) Valid() bool  { return contains(AllRiskLevels(), r) }

// ParseBowlerType accepts a display value ("Off Spinner") or a slug ("off-spin").
func ParseBowlerType(s string) (BowlerType, error) {
	return parseEnum(s, "bowler type", AllBowlerTypes(), bowlerSlugs)
}

// ParseLine accepts a display value ("Outside Off") or a slug ("outside-off").
func ParseLine(s string) (Line, error) {
	return parseEnum(s, "line", AllLines(), lineSlugs)
}

// ParseLength accepts a display value ("Good Length") or a slug ("good").
func ParseLength(s string) (Length, error) {
	return parseEnum(s, "length", AllLengths(), lengthSlugs)
}

// ParseRiskLevel accepts "Low", "Medium" or "High" in any case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	return parseEnum(s, "risk level", AllRiskLevels(), nil)
}

func parseEnum[T ~string](s, kind string, values []T, slugs map[string]T) (T, error) {
	key := strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(key, string(v)) {
			return v, nil
		}
	}
	if v, ok := slugs[strings.ToLower(key)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: unknown %s %q", ErrInvalidValue, kind, s)
}

// Slug returns the short command-line name of the value.
func (b BowlerType) Slug() string { return slugOf(bowlerSlugs, b) }
func (l Line) Slug() string       { return slugOf(lineSlugs, l) }
func (l Length) Slug() string     { return slugOf(lengthSlugs, l) }

func slugOf[T comparable](slugs map[string]T, v T) string {
	for slug, candidate := range slugs {
		if candidate == v {
			return slug
		}
	}
	return ""
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Selection is the delivery the batter is facing.
type Selection struct {
	Bowler BowlerType `json:"bowler" yaml:"bowler"`
	Line   Line       `json:"line" yaml:"line"`
	Length Length     `json:"length" yaml:"length"`
}

// DefaultSelection is the selection a new session starts with.
func DefaultSelection() Selection {
	return Selection{
		Bowler: BowlerFast,
		Line:   LineOutsideOff,
		Length: LengthGood,
	}
}

// Validate reports the first field that is not a known value.
func (s Selection) Validate() error {
	switch {
	case !s.Bowler.Valid():
		return fmt.Errorf("%w: unknown bowler type %q", ErrInvalidValue, s.Bowler)
	case !s.Line.Valid():
		return fmt.Errorf("%w: unknown line %q", ErrInvalidValue, s.Line)
	case !s.Length.Valid():
		return fmt.Errorf("%w: unknown length %q", ErrInvalidValue, s.Length)
	}
	return nil
}

// ShotAdvice is a suggested shot. A value is only ever constructed complete;
// callers treat a nil *ShotAdvice as "no advice".
type ShotAdvice struct {
	ShotName       string    `json:"shotName" yaml:"shotName"`
	Description    string    `json:"description" yaml:"description"`
	ExecutionTips  []string  `json:"executionTips" yaml:"executionTips"`
	RiskLevel      RiskLevel `json:"riskLevel" yaml:"riskLevel"`
	PlacementAngle float64   `json:"placementAngle" yaml:"placementAngle"`
	FieldingRegion string    `json:"fieldingRegion" yaml:"fieldingRegion"`
}

// Clone returns a deep copy so the tips slice is never shared.
func (a *ShotAdvice) Clone() *ShotAdvice {
	if a == nil {
		return nil
	}
	c := *a
	c.ExecutionTips = append([]string(nil), a.ExecutionTips...)
	return &c
}
