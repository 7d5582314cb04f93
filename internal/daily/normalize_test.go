package daily

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text gets a checkbox", "开会讨论需求", "- [ ] 开会讨论需求"},
		{"surrounding whitespace trimmed", "  买牛奶\t\n", "- [ ] 买牛奶"},
		{"already incomplete item", "- [ ] code review", "- [ ] code review"},
		{"already complete item", "- [x] code review", "- [x] code review"},
		{"complete item uppercase x", "- [X] code review", "- [X] code review"},
		{"dash bullet upgraded", "- buy milk", "- [ ] buy milk"},
		{"star bullet upgraded", "* buy milk", "- [ ] buy milk"},
		{"multi-line passes through", "line one\nline two", "line one\nline two"},
		{"empty input", "", ""},
		{"whitespace only", "   \n\t", ""},
		{"dash without space is plain text", "-nospace", "- [ ] -nospace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"开会讨论需求",
		"- [ ] code review",
		"- [x] done already",
		"- buy milk",
		"* star bullet",
		"line one\nline two",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
