package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// Cache is the storage interface behind analysis memoization
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// AnalysisKey derives a deterministic key from every input that can
// influence an analysis result: the requirement's identity and text plus
// the linked rule set. Because the key covers all inputs, a cached entry
// can never serve a stale result.
func AnalysisKey(req model.Requirement, rules []model.Rule) string {
	h := sha256.New()
	h.Write([]byte(req.ID))
	h.Write([]byte{0})
	h.Write([]byte(req.Text))

	// Rule order must not change the key.
	sorted := make([]model.Rule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, rule := range sorted {
		for _, field := range []string{rule.ID, rule.Name, rule.Description, rule.Category} {
			h.Write([]byte{0})
			h.Write([]byte(field))
		}
	}

	return "compliance-hub:v1:" + hex.EncodeToString(h.Sum(nil))
}
