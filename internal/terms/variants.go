package terms

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// VariantMap holds canonical terms and their alternate spellings. Key order
// follows the source file so that expansion output is stable across runs.
type VariantMap struct {
	keys     []string
	variants map[string][]string
}

// NewVariantMap returns an empty map.
func NewVariantMap() *VariantMap {
	return &VariantMap{variants: make(map[string][]string)}
}

// Add registers variants for a key, appending to any existing entry.
func (m *VariantMap) Add(key string, variants []string) {
	if _, ok := m.variants[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.variants[key] = append(m.variants[key], variants...)
}

// Keys returns canonical terms in insertion order.
func (m *VariantMap) Keys() []string {
	return m.keys
}

// Variants returns the registered spellings for a key, in file order.
func (m *VariantMap) Variants(key string) []string {
	return m.variants[key]
}

// Len reports the number of canonical terms.
func (m *VariantMap) Len() int {
	return len(m.keys)
}

// ParseVariants decodes a JSON object of term -> [variant, ...] while
// preserving the order keys appear in the document. encoding/json maps lose
// that order, so this walks the token stream instead.
func ParseVariants(r io.Reader) (*VariantMap, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading variants: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("variants must be a JSON object, got %v", tok)
	}

	m := NewVariantMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading variants key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("variants key is not a string: %v", keyTok)
		}

		var values []string
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("reading variants for %q: %w", key, err)
		}
		m.Add(key, values)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading variants: %w", err)
	}
	return m, nil
}

// LoadVariants reads a variants file. A missing or malformed file is not
// fatal: it logs a warning and returns an empty map so the run can continue
// with the configured search terms alone.
func LoadVariants(path string, log *zap.Logger) *VariantMap {
	if path == "" {
		return NewVariantMap()
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("variants file not readable, continuing without it",
			zap.String("path", path), zap.Error(err))
		return NewVariantMap()
	}
	defer f.Close()

	m, err := ParseVariants(f)
	if err != nil {
		log.Warn("variants file malformed, continuing without it",
			zap.String("path", path), zap.Error(err))
		return NewVariantMap()
	}

	log.Info("loaded term variants",
		zap.String("path", path), zap.Strings("keys", m.Keys()))
	return m
}

// MergeEnv folds variant definitions from the environment into the map.
// TERM_VARIANTS holds a JSON object in the same shape as the variants file;
// PRIMARY_TERM plus PRIMARY_TERM_VARIANTS registers a comma-separated list
// for a single term. Malformed values are skipped with a warning.
func (m *VariantMap) MergeEnv(termVariantsJSON, primaryTerm, primaryVariants string, log *zap.Logger) {
	if s := strings.TrimSpace(termVariantsJSON); s != "" {
		env, err := ParseVariants(strings.NewReader(s))
		if err != nil {
			log.Warn("TERM_VARIANTS is not valid JSON, skipping", zap.Error(err))
		} else {
			for _, key := range env.Keys() {
				m.Add(key, env.Variants(key))
			}
		}
	}

	if primaryTerm != "" && primaryVariants != "" {
		var values []string
		for _, v := range strings.Split(primaryVariants, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			m.Add(primaryTerm, values)
			log.Info("loaded primary term variants from environment",
				zap.String("term", primaryTerm), zap.Int("count", len(values)))
		}
	}
}
