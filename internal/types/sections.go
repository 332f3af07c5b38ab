package types

import (
	"encoding/json"
	"fmt"
)

// SectionKind identifies which variant a SectionContent holds.
type SectionKind string

const (
	SectionText   SectionKind = "text"
	SectionList   SectionKind = "list"
	SectionRecord SectionKind = "record"
)

// SectionContent is a tagged variant for free-form resume sections.
// Exactly one of Text, List, or Record is populated, selected by Kind.
// Unknown JSON shapes are rejected when decoding.
type SectionContent struct {
	Kind   SectionKind
	Text   string
	List   []string
	Record map[string]string
}

// TextSection builds a text-valued section.
func TextSection(s string) SectionContent {
	return SectionContent{Kind: SectionText, Text: s}
}

// ListSection builds a list-valued section.
func ListSection(items []string) SectionContent {
	return SectionContent{Kind: SectionList, List: items}
}

// RecordSection builds a record-valued section.
func RecordSection(fields map[string]string) SectionContent {
	return SectionContent{Kind: SectionRecord, Record: fields}
}

// MarshalJSON encodes the active variant directly, without a wrapper object.
func (s SectionContent) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SectionText:
		return json.Marshal(s.Text)
	case SectionList:
		return json.Marshal(s.List)
	case SectionRecord:
		return json.Marshal(s.Record)
	default:
		return nil, fmt.Errorf("unknown section kind %q", s.Kind)
	}
}

// UnmarshalJSON accepts a string, a string array, or a flat string map.
// Anything else fails, so malformed sections are caught at the boundary
// instead of propagating untyped values through the pipeline.
func (s *SectionContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = TextSection(text)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = ListSection(list)
		return nil
	}

	var record map[string]string
	if err := json.Unmarshal(data, &record); err == nil {
		*s = RecordSection(record)
		return nil
	}

	return fmt.Errorf("section content must be a string, a string list, or a flat string map")
}

// Strings flattens the section into displayable lines regardless of variant.
func (s SectionContent) Strings() []string {
	switch s.Kind {
	case SectionText:
		return []string{s.Text}
	case SectionList:
		return s.List
	case SectionRecord:
		out := make([]string, 0, len(s.Record))
		for k, v := range s.Record {
			out = append(out, k+": "+v)
		}
		return out
	}
	return nil
}
