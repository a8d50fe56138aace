package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NotAnswered is the sentinel code clients send for "prefer not to answer"
const NotAnswered = "NA"

// ErrInvalidAnswer is returned when a numeric item carries a value that is not a valid score
var ErrInvalidAnswer = errors.New("invalid answer")

// numericItems are validated at the boundary so scoring never sees malformed scores
var numericItems = map[string][2]int{
	ItemPHQ2Interest:  {PHQ2ItemMin, PHQ2ItemMax},
	ItemPHQ2Depressed: {PHQ2ItemMin, PHQ2ItemMax},
}

// ResponseSet maps question id to an answered code.
// Only answered items are present: absent, empty and "NA" values are dropped on construction.
type ResponseSet map[string]string

// NewResponseSet builds a ResponseSet from stored or trusted values, dropping unanswered items.
// It performs no validation.
func NewResponseSet(values map[string]string) ResponseSet {
	rs := make(ResponseSet, len(values))
	for id, v := range values {
		if v, ok := answered(v); ok {
			rs[id] = v
		}
	}
	return rs
}

// RawAnswers converts decoded JSON answers into raw submission values.
// Strings and numbers become codes, null means not answered; any other type is ErrInvalidAnswer.
func RawAnswers(values map[string]interface{}) (map[string]*string, error) {
	raw := make(map[string]*string, len(values))
	for id, v := range values {
		switch t := v.(type) {
		case nil:
			raw[id] = nil
		case string:
			s := t
			raw[id] = &s
		case float64:
			s := strconv.FormatFloat(t, 'f', -1, 64)
			raw[id] = &s
		default:
			return nil, fmt.Errorf("%w: %s must be a string, number or null", ErrInvalidAnswer, id)
		}
	}
	return raw, nil
}

// NormalizeResponses converts a raw submission (nil meaning not answered) into a ResponseSet.
// Numeric items must parse as integers within their range or ErrInvalidAnswer is returned.
// Two keys naming the same question after trimming are ErrInvalidAnswer.
func NormalizeResponses(raw map[string]*string) (ResponseSet, error) {
	rs := make(ResponseSet, len(raw))
	seen := make(map[string]bool, len(raw))
	for key, ptr := range raw {
		id := strings.TrimSpace(key)
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s submitted more than once", ErrInvalidAnswer, id)
		}
		seen[id] = true
		if ptr == nil {
			continue
		}
		v, ok := answered(*ptr)
		if !ok {
			continue
		}
		if bounds, numeric := numericItems[id]; numeric {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidAnswer, id, v)
			}
			if n < bounds[0] || n > bounds[1] {
				return nil, fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidAnswer, id, bounds[0], bounds[1], n)
			}
		}
		rs[id] = v
	}
	return rs, nil
}

// Value returns the answered code for id, or "" when unanswered
func (rs ResponseSet) Value(id string) string {
	return rs[id]
}

func answered(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, NotAnswered) {
		return "", false
	}
	return v, true
}
