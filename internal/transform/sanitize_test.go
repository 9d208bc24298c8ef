package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeDescription(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "plain text", expected: "plain text"},
		{input: "Wallace&rsquo;s masterpiece", expected: "Wallace's masterpiece"},
		{input: "one.&#10;&#10;two.", expected: "one. two."},
		{input: "a&#10;b", expected: "a b"},
		{input: "a&#;b", expected: "a b"},
		{input: "a&#12345;b", expected: "a b"},
		{input: "a&#x27;b", expected: "a b"},
		{input: "  padded   with    spaces  ", expected: "padded with spaces"},
		{input: "&#10;&#10;leading and trailing&#10;", expected: "leading and trailing"},
		{input: "kept &amp; as is", expected: "kept &amp; as is"},
		{input: "&#1;abc;", expected: "abc;"},
		{input: "dangling &#", expected: "dangling"},
		{input: "a&#1234567;b", expected: "a 1234567;b"},
		{input: "&#&#10;10;", expected: "10;"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, SanitizeDescription(row.input), "input: %q", row.input)
	}
}

func TestSanitizeDescriptionIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"&rsquo;&rsquo;",
		"&#&#10;10;",
		"&rsq&#10;uo;",
		"x &#10; &#10;  y",
		"\ttabs\tand\nnewlines\n",
		"Brass&rsquo;s &#10;&#10;  canal era&#160;and rail era &#x2014; done",
	}

	for _, input := range inputs {
		once := SanitizeDescription(input)
		twice := SanitizeDescription(once)
		require.Equal(t, once, twice, "input: %q", input)
	}
}

func TestSanitizeDescriptionRemovesReferences(t *testing.T) {
	input := "It&rsquo;s&#10;a&#9;game&#8212;with&#x2019;references &#160; &#10;"
	out := SanitizeDescription(input)
	require.NotContains(t, out, rsquoEntity)
	require.False(t, strings.Contains(out, "&#"), "output still has a reference: %q", out)
	require.NotContains(t, out, "  ")
}

func TestSanitizeDescriptionNeverLeavesReferenceTag(t *testing.T) {
	inputs := []string{"&#", "&&##", "&#&#&#", "x&#99999999;y", "&#xZZ;", "&#&#x41;;"}
	for _, input := range inputs {
		require.NotContains(t, SanitizeDescription(input), referenceTag, "input: %q", input)
	}
}
