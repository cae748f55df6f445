package model

// Obligation is one discrete duty extracted from a requirement's text.
// Obligations are derived and ephemeral: created fresh on every analysis
// call, identified only within that call, never persisted.
type Obligation struct {
	ID       string             `json:"id"`                 // "obligation-1", "obligation-2", ...
	Type     ObligationType     `json:"type"`               //
	Text     string             `json:"text"`               // extracted fragment
	Source   string             `json:"source,omitempty"`   // literal marker, e.g. "(3)"
	Triggers []string           `json:"triggers,omitempty"` // indicator keywords found in the text
	Priority ObligationPriority `json:"priority"`
}

// ObligationType identifies which extraction strategy produced an obligation
type ObligationType string

const (
	ObligationNumbered   ObligationType = "numbered"    // "(1) ..." list item
	ObligationMustClause ObligationType = "must_clause" // "must <verb> ..." sentence
	ObligationThreshold  ObligationType = "threshold"   // sentence with a dollar amount
	ObligationGeneral    ObligationType = "general"     // catch-all for long unstructured text
)

// ObligationPriority ranks how urgently an obligation needs dedicated coverage
type ObligationPriority string

const (
	PriorityHigh   ObligationPriority = "high"
	PriorityMedium ObligationPriority = "medium"
)
