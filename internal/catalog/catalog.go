// Package catalog holds the fixed, ordered list of survey questions.
package catalog

import (
	"fmt"
	"strings"
)

// EndID is the routing sentinel meaning "no further question". It can never be a question id.
const EndID = "END"

// Question is one fixed survey item.
type Question struct {
	ID        string
	Text      string
	ResultTag string // wire name solution_id, empty when the question has none
}

// Catalog is an immutable ordered question list. Order defines the default traversal.
type Catalog struct {
	questions []Question
	byID      map[string]int
}

// New validates questions and builds a catalog. The slice is copied.
func New(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one question")
	}

	c := &Catalog{
		questions: make([]Question, len(questions)),
		byID:      make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		q.ID = strings.TrimSpace(q.ID)
		q.Text = strings.TrimSpace(q.Text)
		q.ResultTag = strings.TrimSpace(q.ResultTag)

		if q.ID == "" {
			return nil, fmt.Errorf("question %d has an empty id", i+1)
		}
		if q.ID == EndID {
			return nil, fmt.Errorf("question %d uses reserved id %q", i+1, EndID)
		}
		if q.Text == "" {
			return nil, fmt.Errorf("question %q has empty text", q.ID)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		c.byID[q.ID] = i
		c.questions[i] = q
	}
	return c, nil
}

// MustNew is New for static catalogs; it panics on invalid input.
func MustNew(questions []Question) *Catalog {
	c, err := New(questions)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the built-in three question catalog.
func Default() *Catalog {
	return MustNew([]Question{
		{ID: "q1", Text: "What is the goal of this survey request?", ResultTag: "s1"},
		{ID: "q2", Text: "Who is the intended audience?", ResultTag: "s2"},
		{ID: "q3", Text: "When should the survey be run?", ResultTag: "s3"},
	})
}

// Questions returns a copy of the questions in catalog order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Lookup returns the question with the given id.
func (c *Catalog) Lookup(id string) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Has reports whether id is a catalog question id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// FirstUnanswered returns the first question id, in catalog order, without a non-blank answer.
func (c *Catalog) FirstUnanswered(answers map[string]string) (string, bool) {
	for _, q := range c.questions {
		if !answered(answers, q.ID) {
			return q.ID, true
		}
	}
	return "", false
}

// Remaining returns every unanswered question id in catalog order.
func (c *Catalog) Remaining(answers map[string]string) []string {
	var ids []string
	for _, q := range c.questions {
		if !answered(answers, q.ID) {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Answered reports whether id has a non-blank answer.
func Answered(answers map[string]string, id string) bool {
	return answered(answers, id)
}

func answered(answers map[string]string, id string) bool {
	return strings.TrimSpace(answers[id]) != ""
}
