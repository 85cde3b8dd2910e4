package models

import (
	"fmt"
	"strings"
)

// PitchType identifies a pitch by its Statcast code
type PitchType string

const (
	FourSeam      PitchType = "FF"
	Sinker        PitchType = "SI"
	Cutter        PitchType = "FC"
	Slider        PitchType = "SL"
	Curveball     PitchType = "CU"
	KnuckleCurve  PitchType = "KC"
	Changeup      PitchType = "CH"
	Splitter      PitchType = "FS"
	Knuckleball   PitchType = "KN"
	Eephus        PitchType = "EP"
	Screwball     PitchType = "SC"
	Sweeper       PitchType = "SV"
	SweepingCurve PitchType = "ST"
)

// pitchTypeNames maps Statcast codes to human-readable names
var pitchTypeNames = map[PitchType]string{
	FourSeam:      "4-Seam Fastball",
	Sinker:        "Sinker",
	Cutter:        "Cutter",
	Slider:        "Slider",
	Curveball:     "Curveball",
	KnuckleCurve:  "Knuckle Curve",
	Changeup:      "Changeup",
	Splitter:      "Splitter",
	Knuckleball:   "Knuckleball",
	Eephus:        "Eephus",
	Screwball:     "Screwball",
	Sweeper:       "Sweeper",
	SweepingCurve: "Sweeping Curve",
}

// ParsePitchType converts an external pitch-type string into the closed
// enum. Unknown codes are rejected so a bad record fails at ingestion
// instead of flowing into the scoring engine.
func ParsePitchType(code string) (PitchType, error) {
	pt := PitchType(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := pitchTypeNames[pt]; !ok {
		return "", fmt.Errorf("unknown pitch type %q", code)
	}
	return pt, nil
}

// IsValid reports whether the pitch type is in the closed set
func (pt PitchType) IsValid() bool {
	_, ok := pitchTypeNames[pt]
	return ok
}

// Name returns the human-readable pitch name, or the raw code if unknown
func (pt PitchType) Name() string {
	if name, ok := pitchTypeNames[pt]; ok {
		return name
	}
	return string(pt)
}

// BattingSide is the side of the plate a batter hits from
type BattingSide string

const (
	BatsLeft   BattingSide = "L"
	BatsRight  BattingSide = "R"
	BatsSwitch BattingSide = "S"
)

// ParseBattingSide converts an external bat-side code, defaulting to
// right-handed for unknown input the way the stat feeds do.
func ParseBattingSide(code string) BattingSide {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "L":
		return BatsLeft
	case "S":
		return BatsSwitch
	default:
		return BatsRight
	}
}
