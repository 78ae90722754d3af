package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseEvalConfigRoundTrip(t *testing.T) {
	cfg := DefaultEvalConfig()
	cfg.Weights.KingSafety = 1.5
	cfg.Interp.Method = "sigmoid"
	cfg.Interp.SigmoidSteepness = 12

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	parsed, err := ParseEvalConfig(data)
	if err != nil {
		t.Fatalf("ParseEvalConfig: %v", err)
	}
	if parsed != cfg {
		t.Errorf("round trip: got %+v, want %+v", parsed, cfg)
	}
}

func TestParseEvalConfigRejectsUnknownFields(t *testing.T) {
	data, err := json.Marshal(DefaultEvalConfig())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	blob := strings.Replace(string(data), `{"enabled"`, `{"surprise":1,"enabled"`, 1)

	if _, err := ParseEvalConfig([]byte(blob)); err == nil {
		t.Error("expected unknown JSON fields to be rejected")
	}
}

func TestParseEvalConfigRejectsOutOfRangeWeight(t *testing.T) {
	cfg := DefaultEvalConfig()
	cfg.Weights.PawnStructure = 11
	data, _ := json.Marshal(cfg)
	if _, err := ParseEvalConfig(data); err == nil {
		t.Error("expected a weight above 10 to be rejected")
	}
}

func TestParseEvalConfigRejectsBadSteepness(t *testing.T) {
	cfg := DefaultEvalConfig()
	cfg.Interp.SigmoidSteepness = 99
	data, _ := json.Marshal(cfg)
	if _, err := ParseEvalConfig(data); err == nil {
		t.Error("expected sigmoid steepness outside [1, 20] to be rejected")
	}
}

func TestParseEvalConfigRejectsUnknownMethod(t *testing.T) {
	cfg := DefaultEvalConfig()
	cfg.Interp.Method = "quartic"
	data, _ := json.Marshal(cfg)
	if _, err := ParseEvalConfig(data); err == nil {
		t.Error("expected an unknown interpolation method to be rejected")
	}
}

func TestParseEvalConfigRejectsZeroTTSize(t *testing.T) {
	cfg := DefaultEvalConfig()
	cfg.TTSizeMB = 0
	data, _ := json.Marshal(cfg)
	if _, err := ParseEvalConfig(data); err == nil {
		t.Error("expected tt_size_mb of zero to be rejected")
	}
}

func TestEvalConfigComponentAndWeightMapping(t *testing.T) {
	cfg := DefaultEvalConfig()
	cfg.Components.Endgame = false
	cfg.Weights.Mobility = 3

	flags := cfg.ToComponentFlags()
	if flags.EndgamePatterns {
		t.Error("disabled endgame component should map through to the flags")
	}
	if !flags.Material || !flags.PST || !flags.Features || !flags.OpeningPrinciples {
		t.Errorf("remaining components should stay enabled, got %+v", flags)
	}

	weights := cfg.ToWeights()
	if weights.Mobility != 3 {
		t.Errorf("mobility weight = %v, want 3", weights.Mobility)
	}
	if err := weights.Validate(); err != nil {
		t.Errorf("mapped default weights should validate, got %v", err)
	}
}
