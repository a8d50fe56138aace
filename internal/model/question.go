package model

// QuestionType defines how a question is answered
type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single_choice" // One code from the option list
	QuestionTypeScale        QuestionType = "scale"         // Ordered numeric codes (PHQ-2 items)
	QuestionTypeFreeText     QuestionType = "free_text"     // No option list
)

// ResponseOption is one selectable answer code
type ResponseOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DisplayCondition hides a question unless another answer has a given value
type DisplayCondition struct {
	DependsOn   string `json:"depends_on"`
	ShowIfValue string `json:"show_if_value"`
}

// Question is a catalog entry annotated with its section
type Question struct {
	ID               string            `json:"question_id"`
	Text             string            `json:"question_text"`
	Type             QuestionType      `json:"question_type"`
	Options          []ResponseOption  `json:"response_options"`
	SectionName      string            `json:"section_name"`
	Conditional      bool              `json:"conditional,omitempty"`
	DisplayCondition *DisplayCondition `json:"display_condition,omitempty"`
}

// OptionCodes returns the allowed answer codes in configured order
func (q Question) OptionCodes() []string {
	codes := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		codes = append(codes, opt.Value)
	}
	return codes
}

// CrisisResource is an always-available support contact shown alongside results
type CrisisResource struct {
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}
