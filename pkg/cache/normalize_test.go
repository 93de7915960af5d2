package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Wikimedia", want: "wikimedia"},
		{name: "accents and spaces", input: "Academic Computer Club, Umeå University", want: "academic_computer_club,_umea_university"},
		{name: "collapses underscore runs", input: "a  b", want: "a_b"},
		{name: "drops reserved", input: "Hello World!!", want: "hello_world"},
		{name: "drops path separators and dots", input: "../etc/passwd", want: "etcpasswd"},
		{name: "dot between spaces collapses", input: "a . b", want: "a_b"},
		{name: "strips trailing underscores", input: "Café__", want: "cafe"},
		{name: "keeps leading underscore", input: "_mirror", want: "_mirror"},
		{name: "compatibility forms", input: "Ｆｕｌｌ", want: "full"},
		{name: "backslash and backtick", input: "a\\b`c", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	for _, input := range []string{"", "???", "...", "   ", "_", "#%&{}"} {
		t.Run(input, func(t *testing.T) {
			_, err := Normalize(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, errutils.ErrInvalidName)
		})
	}
}

func TestNormalize_Properties(t *testing.T) {
	inputs := []string{
		"Wikimedia", "Bytemark", "BringYour", "Your",
		"Academic Computer Club, Umeå University",
		"Ünïcödé Mirror", "x/y\\z", "  lead and trail  ", "MiXeD_CaSe__Name",
		"a@b:c+d=e|f", "tab\tseparated", "日本語 ミラー",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once, err := Normalize(input)
			require.NoError(t, err)
			assert.NotEmpty(t, once)
			assert.Equal(t, strings.ToLower(once), once)
			assert.False(t, strings.ContainsAny(once, reserved), "reserved character left in %q", once)
			assert.NotContains(t, once, "__")

			twice, err := Normalize(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}
