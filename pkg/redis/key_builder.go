package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeySummary is the cached nested summary for one viewer
func (kb *KeyBuilder) KeySummary(viewerID string) string {
	return kb.BuildKey(fmt.Sprintf(KeySummary, viewerID))
}

// KeySummaryPattern matches every cached summary
func (kb *KeyBuilder) KeySummaryPattern() string {
	return kb.BuildKey(KeySummaryAll)
}

// KeyStatusCounts is the cached status tally for a scope fingerprint
func (kb *KeyBuilder) KeyStatusCounts(scopeKey string) string {
	return kb.BuildKey(fmt.Sprintf(KeyStatusCounts, scopeKey))
}

// KeyStatusCountsPattern matches every cached status tally
func (kb *KeyBuilder) KeyStatusCountsPattern() string {
	return kb.BuildKey(KeyCountsAll)
}

// KeyCustom builds a key from a format pattern
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
