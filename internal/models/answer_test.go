package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValue_WireShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want AnswerValue
	}{
		{"null", `null`, NoAnswer()},
		{"scalar", `"A"`, TextAnswer("A")},
		{"labels", `["A","C"]`, ChoicesAnswer("A", "C")},
		{"boolean", `true`, BoolAnswer(true)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got AnswerValue
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.True(t, got.Equal(tc.want) || (got.IsNone() && tc.want.IsNone()))

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tc.raw, string(out), "round trip keeps the original wire shape")
		})
	}
}

func TestAnswerValue_RejectsUnsupportedShape(t *testing.T) {
	var got AnswerValue
	assert.Error(t, json.Unmarshal([]byte(`{"nested":1}`), &got))
}

func TestAnswerValue_Truth(t *testing.T) {
	assert.True(t, BoolAnswer(true).Truth())
	assert.True(t, TextAnswer("true").Truth())
	assert.False(t, TextAnswer("false").Truth())
	assert.False(t, TextAnswer("TRUE").Truth(), "comparison is literal")
	assert.False(t, NoAnswer().Truth())
}

func TestAnswerValue_SortedChoices(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, ChoicesAnswer("C", "A", "B").SortedChoices())
	assert.Equal(t, []string{"A"}, TextAnswer("A").SortedChoices(), "scalars wrap into one-element slices")
	assert.Nil(t, NoAnswer().SortedChoices())
}

func TestUserAnswer_SerializesAnswerInline(t *testing.T) {
	record := UserAnswer{
		QuestionID: "q1",
		Answer:     ChoicesAnswer("A", "B"),
		IsPartial:  true,
		AnsweredAt: 1700000000000,
	}

	out, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"questionId": "q1",
		"answer": ["A","B"],
		"isCorrect": false,
		"isPartial": true,
		"answeredAt": 1700000000000
	}`, string(out))
}
