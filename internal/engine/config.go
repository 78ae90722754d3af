package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EvaluationComponent flags enable/disable whole components of the
// evaluator. Configuration-owned, read-only during a search.
type EvaluationComponent struct {
	Material          bool
	PST               bool
	Features          bool
	OpeningPrinciples bool
	EndgamePatterns   bool
}

func DefaultEvaluationComponent() EvaluationComponent {
	return EvaluationComponent{true, true, true, true, true}
}

// EvaluationWeights are seven positive real scalars clamped to [0, 10],
// applied as multiplicative post-scaling before summation.
type EvaluationWeights struct {
	Material      float64
	Positional    float64
	KingSafety    float64
	PawnStructure float64
	Mobility      float64
	Center        float64
	Development   float64
}

func DefaultEvaluationWeights() EvaluationWeights {
	return EvaluationWeights{
		Material: 1, Positional: 1, KingSafety: 1,
		PawnStructure: 1, Mobility: 1, Center: 1, Development: 1,
	}
}

// Validate checks that each weight lies in [0, 10] and returns an error
// naming an out-of-range field; it does not clamp. A configuration error is
// rejected with a descriptive reason, and the prior configuration remains in
// effect.
func (w EvaluationWeights) Validate() error {
	fields := map[string]float64{
		"material": w.Material, "positional": w.Positional, "king_safety": w.KingSafety,
		"pawn_structure": w.PawnStructure, "mobility": w.Mobility,
		"center": w.Center, "development": w.Development,
	}
	for name, v := range fields {
		if v < 0 || v > 10 {
			return fmt.Errorf("engine: weight %q = %v out of range [0, 10]", name, v)
		}
	}
	return nil
}

// EvalConfig is the JSON-serializable configuration surface for persisting
// and restoring evaluator settings.
type EvalConfig struct {
	Enabled    bool              `json:"enabled"`
	Components ComponentsJSON    `json:"components"`
	Weights    WeightsJSON       `json:"weights"`
	Interp     InterpolationJSON `json:"interpolation"`
	TTSizeMB   uint32            `json:"tt_size_mb"`
}

type ComponentsJSON struct {
	Material bool `json:"material"`
	PST      bool `json:"pst"`
	Features bool `json:"features"`
	Opening  bool `json:"opening"`
	Endgame  bool `json:"endgame"`
}

type WeightsJSON struct {
	Material      float64 `json:"material"`
	Position      float64 `json:"position"`
	KingSafety    float64 `json:"king_safety"`
	PawnStructure float64 `json:"pawn_structure"`
	Mobility      float64 `json:"mobility"`
	Center        float64 `json:"center"`
	Development   float64 `json:"development"`
}

type InterpolationJSON struct {
	Method           string  `json:"method"`
	SigmoidSteepness float64 `json:"sigmoid_steepness"`
}

// DefaultEvalConfig returns the default configuration matching
// DefaultEvaluationComponent/DefaultEvaluationWeights/Linear interpolation.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		Enabled: true,
		Components: ComponentsJSON{
			Material: true, PST: true, Features: true, Opening: true, Endgame: true,
		},
		Weights: WeightsJSON{
			Material: 1, Position: 1, KingSafety: 1,
			PawnStructure: 1, Mobility: 1, Center: 1, Development: 1,
		},
		Interp:   InterpolationJSON{Method: "linear", SigmoidSteepness: 8},
		TTSizeMB: 64,
	}
}

// ParseEvalConfig unmarshals and validates a JSON config blob, rejecting
// unknown fields and out-of-range values.
func ParseEvalConfig(data []byte) (EvalConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var cfg EvalConfig
	if err := dec.Decode(&cfg); err != nil {
		return EvalConfig{}, fmt.Errorf("engine: invalid eval config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return EvalConfig{}, err
	}
	return cfg, nil
}

func (cfg EvalConfig) Validate() error {
	w := EvaluationWeights{
		Material: cfg.Weights.Material, Positional: cfg.Weights.Position,
		KingSafety: cfg.Weights.KingSafety, PawnStructure: cfg.Weights.PawnStructure,
		Mobility: cfg.Weights.Mobility, Center: cfg.Weights.Center,
		Development: cfg.Weights.Development,
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if cfg.Interp.SigmoidSteepness != 0 && (cfg.Interp.SigmoidSteepness < 1 || cfg.Interp.SigmoidSteepness > 20) {
		return fmt.Errorf("engine: sigmoid_steepness %v out of range [1, 20]", cfg.Interp.SigmoidSteepness)
	}
	if _, ok := ParseInterpolationMethod(cfg.Interp.Method); !ok && cfg.Interp.Method != "" {
		return fmt.Errorf("engine: unknown interpolation method %q", cfg.Interp.Method)
	}
	if cfg.TTSizeMB == 0 {
		return fmt.Errorf("engine: tt_size_mb must be non-zero")
	}
	return nil
}

func (cfg EvalConfig) ToComponentFlags() EvaluationComponent {
	return EvaluationComponent{
		Material: cfg.Components.Material, PST: cfg.Components.PST,
		Features: cfg.Components.Features, OpeningPrinciples: cfg.Components.Opening,
		EndgamePatterns: cfg.Components.Endgame,
	}
}

func (cfg EvalConfig) ToWeights() EvaluationWeights {
	return EvaluationWeights{
		Material: cfg.Weights.Material, Positional: cfg.Weights.Position,
		KingSafety: cfg.Weights.KingSafety, PawnStructure: cfg.Weights.PawnStructure,
		Mobility: cfg.Weights.Mobility, Center: cfg.Weights.Center,
		Development: cfg.Weights.Development,
	}
}
