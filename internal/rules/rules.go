// Package rules 保存规范化过程中使用的数值规则（默认筹码、覆盖阈值、盲注大小）。
package rules

// Rules holds every tunable constant of the normalization pipeline.
type Rules struct {
	DefaultStack        float64   `json:"default_stack"`
	PlaceholderStacks   []float64 `json:"placeholder_stacks"`
	OverrideMinDeclared float64   `json:"override_min_declared"`
	OverrideMaxSpent    float64   `json:"override_max_spent"`
	SmallBlind          float64   `json:"small_blind"`
	BigBlind            float64   `json:"big_blind"`
	Epsilon             float64   `json:"epsilon"`
}

const (
	DefaultStack        = 100.0
	OverrideMinDeclared = 35.0
	OverrideMaxSpent    = 30.0
	SmallBlind          = 0.5
	BigBlind            = 1.0
	Epsilon             = 1e-6
)

// Default returns the built-in rule set.
func Default() Rules {
	return Rules{
		DefaultStack:        DefaultStack,
		PlaceholderStacks:   []float64{0, DefaultStack},
		OverrideMinDeclared: OverrideMinDeclared,
		OverrideMaxSpent:    OverrideMaxSpent,
		SmallBlind:          SmallBlind,
		BigBlind:            BigBlind,
		Epsilon:             Epsilon,
	}
}

// IsPlaceholder reports whether stack is one of the "never really declared" values.
func (r Rules) IsPlaceholder(stack float64) bool {
	for _, v := range r.PlaceholderStacks {
		if stack == v {
			return true
		}
	}
	return false
}

// Sanitize 把非正数字段替换为默认值。
func (r Rules) Sanitize() Rules {
	def := Default()
	if r.DefaultStack <= 0 {
		r.DefaultStack = def.DefaultStack
	}
	if r.PlaceholderStacks == nil {
		r.PlaceholderStacks = def.PlaceholderStacks
	}
	if r.OverrideMinDeclared <= 0 {
		r.OverrideMinDeclared = def.OverrideMinDeclared
	}
	if r.OverrideMaxSpent <= 0 {
		r.OverrideMaxSpent = def.OverrideMaxSpent
	}
	if r.SmallBlind <= 0 {
		r.SmallBlind = def.SmallBlind
	}
	if r.BigBlind <= 0 {
		r.BigBlind = def.BigBlind
	}
	if r.Epsilon <= 0 {
		r.Epsilon = def.Epsilon
	}
	return r
}

func (r Rules) clone() Rules {
	r.PlaceholderStacks = append([]float64(nil), r.PlaceholderStacks...)
	return r
}

// Source supplies the current rules; the registry swaps them on reload.
type Source interface {
	Rules() Rules
}

// Static is a fixed rule set.
type Static Rules

func (s Static) Rules() Rules { return Rules(s).clone() }
