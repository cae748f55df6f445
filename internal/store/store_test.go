package store

import (
	"strings"
	"testing"
)

const validDataset = `
evidence:
  - id: ev-001
    title: BSA/AML Policy v4
    kind: policy
requirements:
  - id: req-001
    title: Currency Transaction Reporting
    reference: 31 CFR 1010.311
    text: "Systems must: (1) Monitor cash deposits above $10,000, (2) Aggregate same-day currency transactions."
    metadata:
      jurisdictions: [US]
      risk_level: high
    evidence: [ev-001]
  - id: req-002
    title: Suspicious Activity Reporting
    reference: 31 CFR 1020.320
    text: A bank must report suspicious transactions conducted or attempted through the bank.
rules:
  - id: rule-001
    name: Cash Deposit Monitoring
    category: cash
    description: Detects structured cash deposit activity across customer accounts
    metrics:
      alerts_per_month: 120
      true_positive_rate: 0.14
      alerts_investigated: 118
      backtest_score: 0.82
    requirements: [req-001]
  - id: rule-002
    name: Unusual Pattern Detection
    category: behavioral
    description: Flags velocity and pattern anomalies in account activity
    requirements: [req-001, req-002]
`

func TestParse_ValidDataset(t *testing.T) {
	s, err := Parse([]byte(validDataset))
	if err != nil {
		t.Fatalf("Expected valid dataset to load, got %v", err)
	}

	requirements := s.Requirements()
	if len(requirements) != 2 {
		t.Fatalf("Expected 2 requirements, got %d", len(requirements))
	}
	if requirements[0].ID != "req-001" || requirements[1].ID != "req-002" {
		t.Errorf("Requirements should keep dataset order: %v", requirements)
	}

	rules := s.RulesForRequirement("req-001")
	if len(rules) != 2 {
		t.Fatalf("Expected 2 rules linked to req-001, got %d", len(rules))
	}
	if rules[0].ID != "rule-001" || rules[1].ID != "rule-002" {
		t.Errorf("Linked rules should keep dataset order: %v", rules)
	}

	if rules := s.RulesForRequirement("req-002"); len(rules) != 1 || rules[0].ID != "rule-002" {
		t.Errorf("Expected rule-002 for req-002, got %v", rules)
	}
	if rules := s.RulesForRequirement("req-unknown"); len(rules) != 0 {
		t.Errorf("Unknown requirement should have no rules, got %v", rules)
	}

	if ev, ok := s.EvidenceByID("ev-001"); !ok || ev.Title != "BSA/AML Policy v4" {
		t.Errorf("Evidence lookup failed: %+v ok=%v", ev, ok)
	}
	if rule, ok := s.Rule("rule-001"); !ok || rule.Metrics.AlertsPerMonth != 120 {
		t.Errorf("Rule metrics not loaded: %+v", rule)
	}
}

func TestParse_MissingRequiredFieldRejectsDataset(t *testing.T) {
	// rule-002 has no description: the whole dataset must be rejected.
	broken := strings.Replace(validDataset,
		"    description: Flags velocity and pattern anomalies in account activity\n", "", 1)

	if _, err := Parse([]byte(broken)); err == nil {
		t.Fatal("Expected validation error for missing rule description")
	}
}

func TestParse_BrokenLinkRejectsDataset(t *testing.T) {
	broken := strings.Replace(validDataset, "requirements: [req-001, req-002]", "requirements: [req-001, req-999]", 1)

	_, err := Parse([]byte(broken))
	if err == nil {
		t.Fatal("Expected error for unknown requirement link")
	}
	if !strings.Contains(err.Error(), "req-999") {
		t.Errorf("Error should name the broken link, got %v", err)
	}
}

func TestParse_UnknownEvidenceRejectsDataset(t *testing.T) {
	broken := strings.Replace(validDataset, "evidence: [ev-001]", "evidence: [ev-404]", 1)

	if _, err := Parse([]byte(broken)); err == nil {
		t.Fatal("Expected error for unknown evidence reference")
	}
}

func TestParse_DuplicateIDRejectsDataset(t *testing.T) {
	duplicated := validDataset + `
  - id: rule-001
    name: Duplicate
    description: duplicate id
`
	_, err := Parse([]byte(duplicated))
	if err == nil {
		t.Fatal("Expected error for duplicate rule id")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("Error should mention the duplicate, got %v", err)
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("requirements: [unclosed")); err == nil {
		t.Fatal("Expected parse error")
	}
}
