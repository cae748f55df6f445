package model

// Rule represents an automated transaction-monitoring control. Rules are
// owned by the rule store and are read-only to the analysis engine.
type Rule struct {
	ID              string      `json:"id" yaml:"id" validate:"required"`
	Name            string      `json:"name" yaml:"name" validate:"required"`
	Category        string      `json:"category,omitempty" yaml:"category,omitempty"`
	Description     string      `json:"description" yaml:"description" validate:"required"`
	RegulatoryBasis string      `json:"regulatory_basis,omitempty" yaml:"regulatory_basis,omitempty"`
	Implements      []string    `json:"implements,omitempty" yaml:"implements,omitempty"` // free-text requirement descriptors
	Metrics         RuleMetrics `json:"metrics" yaml:"metrics"`
	Metadata        Metadata    `json:"metadata" yaml:"metadata"`
	Requirements    []string    `json:"requirements,omitempty" yaml:"requirements,omitempty"` // linked requirement IDs
}

// RuleMetrics holds operational performance figures for a monitoring rule
type RuleMetrics struct {
	AlertsPerMonth     int     `json:"alerts_per_month" yaml:"alerts_per_month" validate:"min=0"`
	TruePositiveRate   float64 `json:"true_positive_rate" yaml:"true_positive_rate" validate:"min=0,max=1"`
	AlertsInvestigated int     `json:"alerts_investigated" yaml:"alerts_investigated" validate:"min=0"`
	BacktestScore      float64 `json:"backtest_score" yaml:"backtest_score" validate:"min=0,max=1"`
}
