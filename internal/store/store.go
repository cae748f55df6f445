package store

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// Dataset is the on-disk shape of the compliance dataset
type Dataset struct {
	Requirements []model.Requirement `yaml:"requirements"`
	Rules        []model.Rule        `yaml:"rules"`
	Evidence     []model.Evidence    `yaml:"evidence"`
}

// Store holds the loaded dataset and answers the read-only queries the
// analysis engine consumes. Validation happens here, eagerly, at load time:
// one malformed record rejects the entire dataset, so the analysis core can
// assume validated input and stay total.
type Store struct {
	requirements     map[string]model.Requirement
	requirementOrder []string
	rules            map[string]model.Rule
	ruleOrder        []string
	byRequirement    map[string][]string
	evidence         map[string]model.Evidence
}

// Load reads and validates a dataset file
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return store, nil
}

// Parse validates and indexes dataset YAML
func Parse(data []byte) (*Store, error) {
	var dataset Dataset
	if err := yaml.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	validate := validator.New()

	s := &Store{
		requirements:  make(map[string]model.Requirement),
		rules:         make(map[string]model.Rule),
		byRequirement: make(map[string][]string),
		evidence:      make(map[string]model.Evidence),
	}

	for i, ev := range dataset.Evidence {
		if err := validate.Struct(ev); err != nil {
			return nil, fmt.Errorf("evidence[%d]: %w", i, err)
		}
		if _, dup := s.evidence[ev.ID]; dup {
			return nil, fmt.Errorf("evidence[%d]: duplicate id %q", i, ev.ID)
		}
		s.evidence[ev.ID] = ev
	}

	for i, req := range dataset.Requirements {
		if err := validate.Struct(req); err != nil {
			return nil, fmt.Errorf("requirement[%d]: %w", i, err)
		}
		if _, dup := s.requirements[req.ID]; dup {
			return nil, fmt.Errorf("requirement[%d]: duplicate id %q", i, req.ID)
		}
		for _, evidenceID := range req.Evidence {
			if _, ok := s.evidence[evidenceID]; !ok {
				return nil, fmt.Errorf("requirement %q: unknown evidence id %q", req.ID, evidenceID)
			}
		}
		s.requirements[req.ID] = req
		s.requirementOrder = append(s.requirementOrder, req.ID)
	}

	for i, rule := range dataset.Rules {
		if err := validate.Struct(rule); err != nil {
			return nil, fmt.Errorf("rule[%d]: %w", i, err)
		}
		if _, dup := s.rules[rule.ID]; dup {
			return nil, fmt.Errorf("rule[%d]: duplicate id %q", i, rule.ID)
		}
		for _, reqID := range rule.Requirements {
			if _, ok := s.requirements[reqID]; !ok {
				return nil, fmt.Errorf("rule %q: unknown requirement id %q", rule.ID, reqID)
			}
			s.byRequirement[reqID] = append(s.byRequirement[reqID], rule.ID)
		}
		s.rules[rule.ID] = rule
		s.ruleOrder = append(s.ruleOrder, rule.ID)
	}

	return s, nil
}

// Requirement returns one requirement by id
func (s *Store) Requirement(id string) (model.Requirement, bool) {
	req, ok := s.requirements[id]
	return req, ok
}

// Requirements returns all requirements in dataset order
func (s *Store) Requirements() []model.Requirement {
	out := make([]model.Requirement, 0, len(s.requirementOrder))
	for _, id := range s.requirementOrder {
		out = append(out, s.requirements[id])
	}
	return out
}

// Rule returns one rule by id
func (s *Store) Rule(id string) (model.Rule, bool) {
	rule, ok := s.rules[id]
	return rule, ok
}

// Rules returns all rules in dataset order
func (s *Store) Rules() []model.Rule {
	out := make([]model.Rule, 0, len(s.ruleOrder))
	for _, id := range s.ruleOrder {
		out = append(out, s.rules[id])
	}
	return out
}

// RulesForRequirement returns the rules currently linked to a requirement,
// in dataset order. The analysis engine never resolves this linkage itself.
func (s *Store) RulesForRequirement(requirementID string) []model.Rule {
	ids := s.byRequirement[requirementID]
	out := make([]model.Rule, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rules[id])
	}
	return out
}

// EvidenceByID returns one evidence record
func (s *Store) EvidenceByID(id string) (model.Evidence, bool) {
	ev, ok := s.evidence[id]
	return ev, ok
}
