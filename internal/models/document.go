package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Caps applied to every DocumentAnalysis, whichever path produced it.
const (
	MaxKeyIdeas      = 12
	MaxKeyFigures    = 15
	MaxTimeline      = 10
	MaxChartEntries  = 8
	MaxSummaryLength = 400
)

// DefaultIcon is the glyph of an idea no keyword category matched.
const DefaultIcon = "💡"

// ExtractedContent is the plain-text-plus-sections view of a source document.
type ExtractedContent struct {
	RawText  string    `json:"raw_text"`
	Title    string    `json:"title,omitempty"`
	Sections []Section `json:"sections"`
}

// Section is one titled block of a document. Order is significant: the first
// section is the most prominent one.
type Section struct {
	Title   string         `json:"title"`
	Content SectionContent `json:"content"`
}

// SectionContent is either a single text block or an ordered list of lines.
type SectionContent struct {
	text  string
	lines []string
	multi bool
}

// TextContent wraps a single block of text.
func TextContent(s string) SectionContent {
	return SectionContent{text: s}
}

// LinesContent wraps an ordered sequence of lines.
func LinesContent(lines ...string) SectionContent {
	return SectionContent{lines: lines, multi: true}
}

// IsLines reports whether the content holds a sequence of lines.
func (c SectionContent) IsLines() bool { return c.multi }

// Lines returns the lines of a LinesContent, or the text as a single line.
func (c SectionContent) Lines() []string {
	if c.multi {
		return c.lines
	}
	if c.text == "" {
		return nil
	}
	return []string{c.text}
}

// String is the canonical single-string form: lines joined by one space.
func (c SectionContent) String() string {
	if c.multi {
		return strings.Join(c.lines, " ")
	}
	return c.text
}

// IsEmpty reports whether the content carries no text at all.
func (c SectionContent) IsEmpty() bool {
	return strings.TrimSpace(c.String()) == ""
}

func (c SectionContent) MarshalJSON() ([]byte, error) {
	if c.multi {
		lines := c.lines
		if lines == nil {
			lines = []string{}
		}
		return json.Marshal(lines)
	}
	return json.Marshal(c.text)
}

func (c *SectionContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = SectionContent{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextContent(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		lines := make([]string, 0, len(raw))
		for _, r := range raw {
			lines = append(lines, RawString(r))
		}
		*c = LinesContent(lines...)
	default:
		*c = TextContent(RawString(data))
	}
	return nil
}

// Importance ranks a key idea.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// ParseImportance maps free text onto an Importance, defaulting to medium.
func ParseImportance(s string) Importance {
	switch Importance(strings.ToLower(strings.TrimSpace(s))) {
	case ImportanceLow:
		return ImportanceLow
	case ImportanceHigh:
		return ImportanceHigh
	default:
		return ImportanceMedium
	}
}

type KeyIdea struct {
	Text       string     `json:"text"`
	Importance Importance `json:"importance"`
	Icon       string     `json:"icon"`
}

type KeyFigure struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Unit    string `json:"unit,omitempty"`
	Context string `json:"context,omitempty"`
}

type TimelineItem struct {
	DateOrStep  string `json:"date_or_step"`
	Description string `json:"description"`
	Detail      string `json:"detail,omitempty"`
}

// DocumentAnalysis is the structured record handed to rendering.
type DocumentAnalysis struct {
	Title              string         `json:"title,omitempty"`
	Summary            string         `json:"summary,omitempty"`
	KeyIdeas           []KeyIdea      `json:"key_ideas"`
	KeyFigures         []KeyFigure    `json:"key_figures"`
	Timeline           []TimelineItem `json:"timeline"`
	Structure          []string       `json:"structure"`
	CategoriesForChart *ChartData     `json:"categories_for_chart"`
	RawText            string         `json:"raw_text"`
}

// ChartData is an ordered label to value mapping with unique labels.
// A nil *ChartData means "no chart".
type ChartData struct {
	keys   []string
	values map[string]string
}

// NewChartData returns an empty mapping.
func NewChartData() *ChartData {
	return &ChartData{values: make(map[string]string)}
}

// Set stores value under label. An existing label keeps its position.
func (c *ChartData) Set(label, value string) {
	if c.values == nil {
		c.values = make(map[string]string)
	}
	if _, ok := c.values[label]; !ok {
		c.keys = append(c.keys, label)
	}
	c.values[label] = value
}

// Get returns the value stored under label.
func (c *ChartData) Get(label string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.values[label]
	return v, ok
}

// Labels returns the labels in insertion order.
func (c *ChartData) Labels() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Len returns the number of entries; zero for a nil mapping.
func (c *ChartData) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

func (c *ChartData) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(c.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order. Non-string values
// are kept in their literal JSON form.
func (c *ChartData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("chart data: expected object, got %v", tok)
	}
	out := NewChartData()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out.Set(key, RawString(raw))
	}
	*c = *out
	return nil
}

// RawString renders a raw JSON value as plain text: strings are unquoted,
// null becomes empty, anything else keeps its literal JSON form.
func RawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
