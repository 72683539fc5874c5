package template

import (
	"sort"
	"strings"
)

// Config holds the placeholder substitutions applied to a template before it
// is parsed. A Config is a value: Insert returns an updated copy and never
// changes the receiver, so a base Config can be shared between runs.
//
//	cfg := NewConfig().Insert("<foo>", "hello, world!")
//	cfg.Apply("Message: <foo>") // "Message: hello, world!"
type Config struct {
	values map[string]string
}

// NewConfig creates an empty substitution table
func NewConfig() Config {
	return Config{}
}

// Insert returns a copy of the config with key mapped to value.
// An existing mapping for the same key is overwritten.
func (c Config) Insert(key, value string) Config {
	values := make(map[string]string, len(c.values)+1)
	for k, v := range c.values {
		values[k] = v
	}
	values[key] = value

	return Config{values: values}
}

// Len returns the number of keys held by the config
func (c Config) Len() int {
	return len(c.values)
}

// Keys returns the configured keys in lexical order
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Apply replaces every literal occurrence of each key in content with its value.
//
// All keys are replaced in a single left-to-right pass, so a substituted value
// is never scanned again: a value that happens to contain another key's token
// is written out verbatim. Where two keys match at the same position the longer
// key wins. The result does not depend on the order keys were inserted.
func (c Config) Apply(content string) string {
	if len(c.values) == 0 {
		return content
	}

	replacer := c.replacer()
	if replacer == nil {
		return content
	}
	return replacer.Replace(content)
}

// replacer builds a strings.Replacer whose argument order encodes the match
// priority: longest key first, ties broken lexically. Empty keys are skipped.
func (c Config) replacer() *strings.Replacer {
	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, key, c.values[key])
	}
	return strings.NewReplacer(pairs...)
}
