package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
		{
			name:  "numbered with parenthesis and bullets",
			input: "1) Reduce dining out by $50 a month to close the savings gap\n• Review streaming subscriptions and cancel the unused ones",
			expected: []string{
				"Reduce dining out by $50 a month to close the savings gap.",
				"Review streaming subscriptions and cancel the unused ones.",
			},
		},
		{
			name:  "action verbs start new items",
			input: "Consider moving $100 a month into a high-yield savings account.\nAdjust the food budget to $650 to reflect December spending!",
			expected: []string{
				"Consider moving $100 a month into a high-yield savings account.",
				"Adjust the food budget to $650 to reflect December spending!",
			},
		},
		{
			name:  "headers and intro lines dropped",
			input: "RECOMMENDATIONS\nBudget advice:\nBased on the numbers, things look reasonable overall\n- Set a weekly cap of $120 on groceries to smooth spending",
			expected: []string{
				"Set a weekly cap of $120 on groceries to smooth spending.",
			},
		},
		{
			name:     "short items dropped",
			input:    "- Save more money now\n- Cut costs where you can",
			expected: []string{},
		},
		{
			name:  "emphasis removed and whitespace collapsed",
			input: "2. **Trim  Entertainment**   Cut *entertainment* to `$350` for **three** months",
			expected: []string{
				"Trim Entertainment Cut entertainment to $350 for three months.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseResponse(tt.input))
		})
	}
}
