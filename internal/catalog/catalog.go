// Package catalog loads the screening questionnaire definition.
//
// The document lists sections in display order, each with its questions in display order.
// It is read once at startup; a missing or malformed document is fatal to the caller.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pmhscreen/internal/model"
)

//go:embed questions_config.json
var defaultDocument []byte

var (
	ErrEmptyCatalog     = errors.New("catalog has no questions")
	ErrDuplicateID      = errors.New("duplicate question id")
	ErrMissingID        = errors.New("question without id")
	ErrUnknownFormat    = errors.New("unknown catalog format")
	ErrUnknownDependsOn = errors.New("display condition references unknown question")
)

// Format is the encoding of a catalog document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type document struct {
	Version         string                 `json:"version" yaml:"version"`
	Sections        []sectionDoc           `json:"sections" yaml:"sections"`
	CrisisResources crisisResources        `json:"crisis_resources" yaml:"crisis_resources"`
}

type sectionDoc struct {
	Name      string        `json:"section_name" yaml:"section_name"`
	Questions []questionDoc `json:"questions" yaml:"questions"`
}

type questionDoc struct {
	ID               string                  `json:"question_id" yaml:"question_id"`
	Text             string                  `json:"question_text" yaml:"question_text"`
	Type             model.QuestionType      `json:"question_type" yaml:"question_type"`
	Options          []optionDoc             `json:"response_options" yaml:"response_options"`
	Conditional      bool                    `json:"conditional" yaml:"conditional"`
	DisplayCondition *model.DisplayCondition `json:"display_condition" yaml:"display_condition"`
}

type optionDoc struct {
	Value optionCode `json:"value" yaml:"value"`
	Label string     `json:"label" yaml:"label"`
}

// optionCode accepts string, number or null option values
type optionCode string

func (c *optionCode) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*c = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = optionCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("option value %s: %w", raw, err)
	}
	*c = optionCode(n.String())
	return nil
}

// crisisResources accepts either a list of resources or a mapping keyed by resource name.
// Mapping values are a contact string or a resource object; document order is kept.
type crisisResources []model.CrisisResource

type crisisEntry struct {
	Name        string `json:"name" yaml:"name"`
	Contact     string `json:"contact" yaml:"contact"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
}

func (e crisisEntry) resource(name string) model.CrisisResource {
	if e.Name == "" {
		e.Name = name
	}
	return model.CrisisResource{Name: e.Name, Contact: e.Contact, Description: e.Description, URL: e.URL}
}

func (r *crisisResources) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*r = nil
		return nil
	case strings.HasPrefix(raw, "["):
		var entries []crisisEntry
		if err := json.Unmarshal(b, &entries); err != nil {
			return fmt.Errorf("crisis_resources: %w", err)
		}
		out := make(crisisResources, len(entries))
		for i, e := range entries {
			out[i] = e.resource("")
		}
		*r = out
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return fmt.Errorf("crisis_resources: expected list or object")
	}
	var out crisisResources
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("crisis_resources: %w", err)
		}
		name, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("crisis_resources %s: %w", name, err)
		}
		var entry crisisEntry
		if strings.HasPrefix(strings.TrimSpace(string(value)), "{") {
			if err := json.Unmarshal(value, &entry); err != nil {
				return fmt.Errorf("crisis_resources %s: %w", name, err)
			}
		} else if err := json.Unmarshal(value, &entry.Contact); err != nil {
			return fmt.Errorf("crisis_resources %s: %w", name, err)
		}
		out = append(out, entry.resource(name))
	}
	*r = out
	return nil
}

func (r *crisisResources) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var entries []crisisEntry
		if err := node.Decode(&entries); err != nil {
			return fmt.Errorf("crisis_resources: %w", err)
		}
		out := make(crisisResources, len(entries))
		for i, e := range entries {
			out[i] = e.resource("")
		}
		*r = out
		return nil
	case yaml.MappingNode:
		var out crisisResources
		for i := 0; i+1 < len(node.Content); i += 2 {
			name, value := node.Content[i].Value, node.Content[i+1]
			var entry crisisEntry
			var err error
			if value.Kind == yaml.MappingNode {
				err = value.Decode(&entry)
			} else {
				err = value.Decode(&entry.Contact)
			}
			if err != nil {
				return fmt.Errorf("crisis_resources %s: %w", name, err)
			}
			out = append(out, entry.resource(name))
		}
		*r = out
		return nil
	default:
		if node.Tag == "!!null" {
			*r = nil
			return nil
		}
		return fmt.Errorf("crisis_resources: expected list or mapping")
	}
}

// Catalog is the immutable, flattened questionnaire
type Catalog struct {
	version   string
	questions []model.Question
	index     map[string]int
	crisis    []model.CrisisResource
}

// Default parses the questionnaire embedded in the binary
func Default() (*Catalog, error) {
	return Parse(defaultDocument, FormatJSON)
}

// Load reads a catalog file; the format follows the file extension.
// An empty path loads the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document
func Parse(data []byte, format Format) (*Catalog, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return build(doc)
}

func build(doc document) (*Catalog, error) {
	c := &Catalog{
		version: doc.Version,
		index:   make(map[string]int),
		crisis:  doc.CrisisResources,
	}

	for _, section := range doc.Sections {
		for _, q := range section.Questions {
			id := strings.TrimSpace(q.ID)
			if id == "" {
				return nil, fmt.Errorf("%w in section %q", ErrMissingID, section.Name)
			}
			if _, dup := c.index[id]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
			}

			question := model.Question{
				ID:          id,
				Text:        q.Text,
				Type:        q.Type,
				SectionName: section.Name,
				Conditional: q.Conditional,
				Options:     make([]model.ResponseOption, 0, len(q.Options)),
			}
			if question.Type == "" {
				question.Type = model.QuestionTypeSingleChoice
			}
			if q.DisplayCondition != nil {
				cond := *q.DisplayCondition
				question.DisplayCondition = &cond
			}
			for _, opt := range q.Options {
				code := string(opt.Value)
				if code == "" {
					code = model.NotAnswered
				}
				question.Options = append(question.Options, model.ResponseOption{Value: code, Label: opt.Label})
			}

			c.index[id] = len(c.questions)
			c.questions = append(c.questions, question)
		}
	}

	if len(c.questions) == 0 {
		return nil, ErrEmptyCatalog
	}

	for _, q := range c.questions {
		if q.DisplayCondition == nil {
			continue
		}
		if _, ok := c.index[q.DisplayCondition.DependsOn]; !ok {
			return nil, fmt.Errorf("%w: %s depends on %q", ErrUnknownDependsOn, q.ID, q.DisplayCondition.DependsOn)
		}
	}

	return c, nil
}

// Version returns the document version string
func (c *Catalog) Version() string {
	return c.version
}

// ListQuestions returns every question in section order, preserving order within sections
func (c *Catalog) ListQuestions() []model.Question {
	out := make([]model.Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

// Question looks up a question by id
func (c *Catalog) Question(id string) (model.Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Question{}, false
	}
	return cloneQuestion(c.questions[i]), true
}

// Sections returns section names in configured order
func (c *Catalog) Sections() []string {
	var names []string
	seen := make(map[string]bool)
	for _, q := range c.questions {
		if !seen[q.SectionName] {
			seen[q.SectionName] = true
			names = append(names, q.SectionName)
		}
	}
	return names
}

// CrisisResources returns the support contacts listed in the document
func (c *Catalog) CrisisResources() []model.CrisisResource {
	out := make([]model.CrisisResource, len(c.crisis))
	copy(out, c.crisis)
	return out
}

func cloneQuestion(q model.Question) model.Question {
	q.Options = append([]model.ResponseOption(nil), q.Options...)
	if q.DisplayCondition != nil {
		cond := *q.DisplayCondition
		q.DisplayCondition = &cond
	}
	return q
}
