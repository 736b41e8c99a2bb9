package almanac

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Sample(t *testing.T) {
	almanac := loadSample(t)

	assert.Equal(t, []uint64{79, 14, 55, 13}, almanac.Seeds)
	require.Len(t, almanac.Maps, 7)

	names := make([]string, 0, len(almanac.Maps))
	for _, m := range almanac.Maps {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{
		"seed-to-soil",
		"soil-to-fertilizer",
		"fertilizer-to-water",
		"water-to-light",
		"light-to-temperature",
		"temperature-to-humidity",
		"humidity-to-location",
	}, names)
}

func TestParse_Model(t *testing.T) {
	input := "seeds: 1 2  3\n" +
		"\n" +
		"seed-to-soil map:\n" +
		"50 98 2\n" +
		"52 50 48\n" +
		"\n" +
		"\n" +
		"soil-to-fertilizer map:\n" +
		"0\t15 37\n" +
		"\n"

	got, err := ParseString(input)
	require.NoError(t, err)

	want := &Almanac{
		Seeds: []uint64{1, 2, 3},
		Maps: []Map{
			{From: "seed", To: "soil", Rules: []Rule{
				{Destination: 50, Source: 98, Length: 2},
				{Destination: 52, Source: 50, Length: 48},
			}},
			{From: "soil", To: "fertilizer", Rules: []Rule{
				{Destination: 0, Source: 15, Length: 37},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parsed almanac mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_CRLF(t *testing.T) {
	got, err := ParseString(strings.ReplaceAll(sample, "\n", "\r\n"))
	require.NoError(t, err)
	if diff := cmp.Diff(loadSample(t), got); diff != "" {
		t.Fatalf("CRLF almanac mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_NoTrailingNewline(t *testing.T) {
	got, err := ParseString("seeds: 5\n\na-to-b map:\n1 5 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Resolve(5))
}

func TestParse_LongSeedLine(t *testing.T) {
	const count = 10_000
	var b strings.Builder
	b.WriteString("seeds:")
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, " %d", 1_000_000_000+i)
	}
	b.WriteString("\n\na-to-b map:\n1 2 3\n")
	require.Greater(t, b.Len(), 100*1024, "seed line should exceed the default scanner buffer")

	got, err := ParseString(b.String())
	require.NoError(t, err)
	require.Len(t, got.Seeds, count)
	assert.Equal(t, uint64(1_000_000_000+count-1), got.Seeds[count-1])
}

func TestParse_TabsBetweenFields(t *testing.T) {
	got, err := ParseString("seeds: 4\t5\n\na-to-b map:\n10\t4  2\n")
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 11}, got.ResolveAll(context.Background()))
}

func TestParse_EmptySeedLine(t *testing.T) {
	got, err := ParseString("seeds:\n\na-to-b map:\n1 5 1\n")
	require.NoError(t, err)
	assert.Empty(t, got.Seeds)
}

func TestParse_Malformed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		line  int
	}{
		{name: "empty input", input: ""},
		{name: "missing seed line", input: "seed-to-soil map:\n1 2 3\n", line: 1},
		{name: "seed not a number", input: "seeds: 1 two 3\n\na-to-b map:\n1 2 3\n", line: 1},
		{name: "negative seed", input: "seeds: -1\n\na-to-b map:\n1 2 3\n", line: 1},
		{name: "seed too large", input: "seeds: 18446744073709551616\n\na-to-b map:\n1 2 3\n", line: 1},
		{name: "no space after seeds", input: "seeds:1\n\na-to-b map:\n1 2 3\n", line: 1},
		{name: "missing blank after seeds", input: "seeds: 1\na-to-b map:\n1 2 3\n", line: 2},
		{name: "no map blocks", input: "seeds: 1\n\n"},
		{name: "header without -to-", input: "seeds: 1\n\nseed-soil map:\n1 2 3\n", line: 3},
		{name: "header without map suffix", input: "seeds: 1\n\nseed-to-soil:\n1 2 3\n", line: 3},
		{name: "header with empty category", input: "seeds: 1\n\n-to-soil map:\n1 2 3\n", line: 3},
		{name: "map without rules", input: "seeds: 1\n\na-to-b map:\n\nb-to-c map:\n1 2 3\n", line: 3},
		{name: "map without rules at eof", input: "seeds: 1\n\na-to-b map:\n", line: 3},
		{name: "rule with two numbers", input: "seeds: 1\n\na-to-b map:\n1 2\n", line: 4},
		{name: "rule with four numbers", input: "seeds: 1\n\na-to-b map:\n1 2 3 4\n", line: 4},
		{name: "rule not a number", input: "seeds: 1\n\na-to-b map:\n1 x 3\n", line: 4},
		{name: "non-breaking space in rule", input: "seeds: 1\n\na-to-b map:\n1\u00a02 3\n", line: 4},
		{name: "non-breaking space in seeds", input: "seeds: 1\u00a02\n\na-to-b map:\n1 2 3\n", line: 1},
		{name: "indented rule", input: "seeds: 1\n\na-to-b map:\n  1 2 3\n", line: 4},
		{name: "tab indented rule", input: "seeds: 1\n\na-to-b map:\n\t1 2 3\n", line: 4},
		{name: "zero length rule", input: "seeds: 1\n\na-to-b map:\n1 2 0\n", line: 4},
		{name: "missing blank between maps", input: "seeds: 1\n\na-to-b map:\n1 2 3\nb-to-c map:\n4 5 6\n", line: 5},
		{name: "garbage instead of header", input: "seeds: 1\n\na-to-b map:\n1 2 3\n\nhello\n4 5 6\n", line: 6},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseString(tc.input)
			require.Nil(t, got, "no partial almanac on failure")
			require.ErrorIs(t, err, ErrMalformedInput)

			var se *SyntaxError
			require.True(t, errors.As(err, &se), "expected *SyntaxError, got %T", err)
			assert.Equal(t, tc.line, se.Line)
		})
	}
}

func TestParse_OverflowingRule(t *testing.T) {
	got, err := ParseString("seeds: 1\n\na-to-b map:\n18446744073709551615 0 2\n")
	require.Nil(t, got)
	require.ErrorIs(t, err, ErrArithmeticOverflow)
	assert.False(t, errors.Is(err, ErrMalformedInput), "overflow is not a syntax problem")

	var oe *OverflowError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "a-to-b", oe.Map)
}
