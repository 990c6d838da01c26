package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// AnswerKind tags the shape an answer value takes. The persisted JSON keeps
// the original wire shapes (null, string, string array, boolean) so stored
// sessions stay readable by older tooling.
type AnswerKind string

const (
	AnswerNone    AnswerKind = "none"
	AnswerText    AnswerKind = "text"
	AnswerChoices AnswerKind = "choices"
	AnswerBool    AnswerKind = "bool"
)

// AnswerValue is a tagged union over the answer shapes a question can carry:
// a scalar text answer (single choice label, essay text, "true"/"false"),
// a set of option labels, a plain boolean, or no answer at all.
type AnswerValue struct {
	Kind    AnswerKind
	Text    string
	Choices []string
	Flag    bool
}

func NoAnswer() AnswerValue {
	return AnswerValue{Kind: AnswerNone}
}

func TextAnswer(s string) AnswerValue {
	return AnswerValue{Kind: AnswerText, Text: s}
}

func ChoicesAnswer(labels ...string) AnswerValue {
	return AnswerValue{Kind: AnswerChoices, Choices: labels}
}

func BoolAnswer(b bool) AnswerValue {
	return AnswerValue{Kind: AnswerBool, Flag: b}
}

func (a AnswerValue) IsNone() bool {
	return a.Kind == AnswerNone || a.Kind == ""
}

// Truth normalizes the value for judgment questions: the literal boolean true
// and the string "true" both count as true, everything else as false.
func (a AnswerValue) Truth() bool {
	switch a.Kind {
	case AnswerBool:
		return a.Flag
	case AnswerText:
		return a.Text == "true"
	default:
		return false
	}
}

// SortedChoices coerces the value into a lexically sorted label slice,
// wrapping scalars into a one-element slice.
func (a AnswerValue) SortedChoices() []string {
	var out []string
	switch a.Kind {
	case AnswerChoices:
		out = append(out, a.Choices...)
	case AnswerText:
		out = []string{a.Text}
	case AnswerBool:
		out = []string{strconv.FormatBool(a.Flag)}
	default:
		return nil
	}
	sort.Strings(out)
	return out
}

// Equal reports exact value equality: same kind, same payload. Choice slices
// compare element-wise in order.
func (a AnswerValue) Equal(b AnswerValue) bool {
	if a.IsNone() || b.IsNone() {
		return a.IsNone() && b.IsNone()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case AnswerText:
		return a.Text == b.Text
	case AnswerBool:
		return a.Flag == b.Flag
	case AnswerChoices:
		if len(a.Choices) != len(b.Choices) {
			return false
		}
		for i := range a.Choices {
			if a.Choices[i] != b.Choices[i] {
				return false
			}
		}
		return true
	}
	return false
}

func (a AnswerValue) String() string {
	switch a.Kind {
	case AnswerText:
		return a.Text
	case AnswerBool:
		return strconv.FormatBool(a.Flag)
	case AnswerChoices:
		return fmt.Sprintf("%v", a.Choices)
	default:
		return ""
	}
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerChoices:
		if a.Choices == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(a.Choices)
	case AnswerBool:
		return json.Marshal(a.Flag)
	default:
		return []byte("null"), nil
	}
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = NoAnswer()
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
	case '[':
		var labels []string
		if err := json.Unmarshal(trimmed, &labels); err != nil {
			return err
		}
		*a = AnswerValue{Kind: AnswerChoices, Choices: labels}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*a = BoolAnswer(b)
	default:
		return fmt.Errorf("answer value: unsupported JSON shape %q", string(trimmed))
	}
	return nil
}

// UserAnswer is one answering record, keyed by question id in the session's
// answer map. Re-answering overwrites the record and its timestamp.
type UserAnswer struct {
	QuestionID string      `json:"questionId"`
	Answer     AnswerValue `json:"answer"`
	IsCorrect  bool        `json:"isCorrect"`
	IsPartial  bool        `json:"isPartial"`
	AnsweredAt int64       `json:"answeredAt"` // unix milliseconds
}
