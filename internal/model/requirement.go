package model

// Requirement represents a single regulatory provision (clause) with its
// text, applicability metadata, and linked evidence. Requirements are owned
// by the document store and are read-only to the analysis engine.
type Requirement struct {
	ID        string   `json:"id" yaml:"id" validate:"required"`
	Title     string   `json:"title" yaml:"title" validate:"required"`
	Reference string   `json:"reference,omitempty" yaml:"reference,omitempty"` // e.g. "31 CFR 1020.320(a)(2)"
	Text      string   `json:"text" yaml:"text" validate:"required"`
	Metadata  Metadata `json:"metadata" yaml:"metadata"`
	Evidence  []string `json:"evidence,omitempty" yaml:"evidence,omitempty"` // evidence record IDs
}

// Metadata describes the applicability scope shared by requirements and rules
type Metadata struct {
	Jurisdictions []string  `json:"jurisdictions,omitempty" yaml:"jurisdictions,omitempty"`
	ProductTypes  []string  `json:"product_types,omitempty" yaml:"product_types,omitempty"`
	CustomerTypes []string  `json:"customer_types,omitempty" yaml:"customer_types,omitempty"`
	RiskLevel     RiskLevel `json:"risk_level,omitempty" yaml:"risk_level,omitempty" validate:"omitempty,oneof=low medium high critical"`
	LastReviewed  string    `json:"last_reviewed,omitempty" yaml:"last_reviewed,omitempty"` // ISO date
}

// Evidence represents a compliance evidence record (policy document, audit
// report, model validation memo) referenced by requirements.
type Evidence struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	Title    string `json:"title" yaml:"title" validate:"required"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"` // e.g. "policy", "audit", "validation"
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
}

// RiskLevel is the ordinal exposure rating used for requirements, rules,
// and overall coverage analysis results.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)
