package domain

import "github.com/shopspring/decimal"

// CureCheck is one item of the seven cures progress checklist
type CureCheck struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Done   bool   `json:"done"`
	Detail string `json:"detail"`
}

// Advice is the human-readable guidance derived from a plan
type Advice struct {
	EmergencyTarget     decimal.Decimal   `json:"emergencyTarget"`
	RecommendedStrategy string            `json:"recommendedStrategy"`
	Messages            []string          `json:"messages"`
	Checklist           []CureCheck       `json:"checklist"`
	BestOption          *InvestmentOption `json:"bestOption,omitempty"`
}

// CompletedCures counts checklist items that are done
func (a *Advice) CompletedCures() int {
	n := 0
	for _, c := range a.Checklist {
		if c.Done {
			n++
		}
	}
	return n
}
