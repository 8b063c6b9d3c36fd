package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	tests := []struct {
		description string
		input       string
		wantTerms   string
		wantSender  string
		wantLimit   int
	}{
		{"Plain terms", "/find late delivery", "late delivery", "", 10},
		{"Quoted terms are unwrapped", `/find "late delivery"`, "late delivery", "", 10},
		{"Sender filter", "/find seeds --sender user", "seeds", "user", 10},
		{"Limit flag", "/find seeds --limit 5", "seeds", "", 5},
		{"Invalid limit keeps default", "/find seeds --limit zero", "seeds", "", 10},
		{"Negative limit keeps default", "/find seeds --limit -3", "seeds", "", 10},
		{"Flags in any order", "/find --limit 2 --sender assistant price", "price", "assistant", 2},
		{"No terms at all", "/find --sender user", "", "user", 10},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			query := NewQuery(tt.input)

			req.Equal(tt.input, query.RawInput)
			req.Equal(tt.wantTerms, query.Terms)
			req.Equal(tt.wantSender, query.Sender)
			req.Equal(tt.wantLimit, query.Limit)
		})
	}
}
