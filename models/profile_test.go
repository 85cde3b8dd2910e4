package models

import (
	"testing"
)

// TestSnapshotPitcherPitches tests per-pitcher filtering
func TestSnapshotPitcherPitches(t *testing.T) {
	snap := Snapshot{
		Pitches: []PitchProfile{
			{PitcherID: 1, PitchType: FourSeam},
			{PitcherID: 2, PitchType: Slider},
			{PitcherID: 1, PitchType: Changeup},
		},
	}

	mix := snap.PitcherPitches(1)
	if len(mix) != 2 {
		t.Fatalf("pitch count = %d, want 2", len(mix))
	}
	if mix[0].PitchType != FourSeam || mix[1].PitchType != Changeup {
		t.Error("pitches should keep dataset order")
	}

	if got := snap.PitcherPitches(99); len(got) != 0 {
		t.Errorf("unknown pitcher returned %d pitches", len(got))
	}
}

// TestSnapshotBatterVsPitch tests the (batter, pitch type) lookup
func TestSnapshotBatterVsPitch(t *testing.T) {
	snap := Snapshot{
		Batters: []BatterVsPitchProfile{
			{BatterID: 10, PitchType: Slider, SampleSize: 40},
			{BatterID: 10, PitchType: FourSeam, SampleSize: 90},
			{BatterID: 11, PitchType: Slider, SampleSize: 25},
		},
	}

	b, ok := snap.BatterVsPitch(10, FourSeam)
	if !ok {
		t.Fatal("expected a profile")
	}
	if b.SampleSize != 90 {
		t.Errorf("SampleSize = %d, want 90", b.SampleSize)
	}

	if _, ok := snap.BatterVsPitch(10, Curveball); ok {
		t.Error("expected no profile for a pitch type the batter has not faced")
	}
	if _, ok := snap.BatterVsPitch(99, Slider); ok {
		t.Error("expected no profile for an unknown batter")
	}
}

// TestDefaultScoringConfig tests the shipped defaults
func TestDefaultScoringConfig(t *testing.T) {
	cfg := DefaultScoringConfig()

	if !cfg.UseHRFactors {
		t.Error("HR factors should default on")
	}
	if cfg.MinSampleSize != 20 {
		t.Errorf("MinSampleSize = %d, want 20", cfg.MinSampleSize)
	}
	if cfg.ScoreScale != 1.0 || cfg.ProbScale != 1.0 {
		t.Errorf("scales = %f / %f, want 1.0 / 1.0", cfg.ScoreScale, cfg.ProbScale)
	}
}
