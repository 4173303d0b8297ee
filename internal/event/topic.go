package event

import "strings"

// Topic is a hierarchical event type using dot notation, such as
// "document.committed".
type Topic string

// Wildcards usable in subscription patterns.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"
	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	separator = "."
)

// Topics published by the document engine and its collaborators.
const (
	TopicLoaded    Topic = "document.loaded"
	TopicCommitted Topic = "document.committed"
	TopicSaved     Topic = "document.saved"
	TopicReloaded  Topic = "document.reloaded"
	TopicWarning   Topic = "document.warning"
)

func (t Topic) segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), separator)
}

// IsValid reports whether t is non-empty and has no empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches reports whether t matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.segments(), pattern.segments())
}

func matchSegments(topic, pattern []string) bool {
	ti := 0
	for pi := 0; pi < len(pattern); pi++ {
		switch pattern[pi] {
		case WildcardMulti:
			for k := ti; k <= len(topic); k++ {
				if matchSegments(topic[k:], pattern[pi+1:]) {
					return true
				}
			}
			return false
		case WildcardSingle:
			if ti >= len(topic) {
				return false
			}
		default:
			if ti >= len(topic) || pattern[pi] != topic[ti] {
				return false
			}
		}
		ti++
	}
	return ti == len(topic)
}
