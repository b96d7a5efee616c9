package engine

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// ScalingRegime describes how an expense's floor grows with household size
type ScalingRegime string

const (
	// RegimeLinear scales per-person costs one-to-one (food, shopping, transport)
	RegimeLinear ScalingRegime = "linear"
	// RegimeSqrt scales shared utilities by the square root of household size
	RegimeSqrt ScalingRegime = "sqrt"
	// RegimeDefault adds 20% per extra household member
	RegimeDefault ScalingRegime = "default"
)

// ScalingRule maps a set of name keywords to a scaling regime
type ScalingRule struct {
	Regime   ScalingRegime `toml:"regime"`
	Keywords []string      `toml:"keywords"`
}

// Classifier assigns expenses to a scaling regime by case-insensitive
// substring match on the expense name. Rules are checked in order.
type Classifier struct {
	rules []ScalingRule
}

var defaultRules = []ScalingRule{
	{
		Regime: RegimeLinear,
		Keywords: []string{
			"food", "grocer", "dining", "meal", "restaurant", "snack",
			"shopping", "clothing", "transport", "commute", "fuel", "taxi", "bus",
			"餐", "食", "購物", "交通",
		},
	},
	{
		Regime: RegimeSqrt,
		Keywords: []string{
			"electric", "water", "internet", "utilit", "broadband",
			"電費", "水費", "網路",
		},
	},
}

// DefaultClassifier returns the built-in keyword sets
func DefaultClassifier() *Classifier {
	return NewClassifier(defaultRules...)
}

// NewClassifier builds a classifier from rules. Keywords are lower-cased and
// blank keywords are dropped.
func NewClassifier(rules ...ScalingRule) *Classifier {
	c := &Classifier{rules: make([]ScalingRule, 0, len(rules))}
	for _, r := range rules {
		kw := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				kw = append(kw, k)
			}
		}
		c.rules = append(c.rules, ScalingRule{Regime: r.Regime, Keywords: kw})
	}
	return c
}

type classifierFile struct {
	Rules []ScalingRule `toml:"rule"`
}

// LoadClassifier reads keyword rules from a TOML file of [[rule]] tables
func LoadClassifier(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading classifier file: %w", err)
	}

	var f classifierFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing classifier file: %w", err)
	}

	for i, r := range f.Rules {
		switch r.Regime {
		case RegimeLinear, RegimeSqrt, RegimeDefault:
		default:
			return nil, fmt.Errorf("rule %d: unknown regime %q", i, r.Regime)
		}
	}

	return NewClassifier(f.Rules...), nil
}

// Rules returns a copy of the classifier's rules
func (c *Classifier) Rules() []ScalingRule {
	out := make([]ScalingRule, len(c.rules))
	for i, r := range c.rules {
		out[i] = ScalingRule{Regime: r.Regime, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Regime returns the scaling regime for an expense name
func (c *Classifier) Regime(name string) ScalingRegime {
	lower := strings.ToLower(name)
	for _, r := range c.rules {
		for _, k := range r.Keywords {
			if strings.Contains(lower, k) {
				return r.Regime
			}
		}
	}
	return RegimeDefault
}

// Scale returns the household multiplier applied to a per-person floor
func (c *Classifier) Scale(name string, householdSize int) decimal.Decimal {
	if householdSize < 1 {
		householdSize = 1
	}
	n := decimal.NewFromInt(int64(householdSize))

	switch c.Regime(name) {
	case RegimeLinear:
		return n
	case RegimeSqrt:
		return decimal.NewFromFloat(math.Sqrt(float64(householdSize)))
	default:
		return decimal.NewFromInt(1).Add(n.Sub(decimal.NewFromInt(1)).Mul(defaultMemberShare))
	}
}
