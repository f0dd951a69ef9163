package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Constraint
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "lower_bound",
			input: ">= 2.0.0",
			want:  []Constraint{{Op: OpGreaterEqual, Version: "2.0.0"}},
		},
		{
			name:  "range",
			input: ">= 4.13.1 <= 4.14.0",
			want: []Constraint{
				{Op: OpGreaterEqual, Version: "4.13.1"},
				{Op: OpLessEqual, Version: "4.14.0"},
			},
		},
		{
			name:  "no_spaces",
			input: ">=1 <2",
			want: []Constraint{
				{Op: OpGreaterEqual, Version: "1"},
				{Op: OpLess, Version: "2"},
			},
		},
		{
			name:  "exact",
			input: "= 6.0.0",
			want:  []Constraint{{Op: OpEqual, Version: "6.0.0"}},
		},
		{
			name:  "bare_version_has_no_operators",
			input: "4.14.0",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_CountMismatch(t *testing.T) {
	_, err := Parse(">= 1.0.0 <")
	require.ErrorIs(t, err, ErrInvalidConstraintSyntax)
	assert.Contains(t, err.Error(), ">= 1.0.0 <")
}

func TestParse_LengthMatchesOperators(t *testing.T) {
	inputs := []string{"> 1", ">= 1 < 2", "> 1 < 2 = 1.5", "<=3.0.0>=1.0.0"}
	for _, in := range inputs {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Len(t, got, len(operatorPattern.FindAllString(in, -1)), in)
	}
}

func TestConstraint_Check(t *testing.T) {
	tests := []struct {
		c       Constraint
		version string
		want    bool
	}{
		{Constraint{OpEqual, "6.0.0"}, "6.0.0", true},
		{Constraint{OpEqual, "6.0"}, "6.0.0", true},
		{Constraint{OpEqual, "6.0.0"}, "6.0.1", false},
		{Constraint{OpLess, "6.0.0"}, "5.9.9", true},
		{Constraint{OpLess, "6.0.0"}, "6.0.0", false},
		{Constraint{OpGreater, "1.4"}, "1.10.0", true},
		{Constraint{OpGreater, "1.4"}, "1.4.0", false},
		{Constraint{OpLessEqual, "4.14.0"}, "4.14.0", true},
		{Constraint{OpGreaterEqual, "4.13.1"}, "4.9.0", false},
		{Constraint{OpGreaterEqual, "1"}, "not-a-version", false},
	}

	for _, tt := range tests {
		t.Run(tt.c.String()+" "+tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Check(tt.version))
		})
	}
}

func TestSelect(t *testing.T) {
	newestFirst := []string{"4.15.0", "4.14.0", "4.13.1", "4.10.0"}

	cs, err := Parse(">= 4.13.1 <= 4.14.0")
	require.NoError(t, err)

	got, err := Select(cs, newestFirst)
	require.NoError(t, err)
	assert.Equal(t, "4.14.0", got)
}

func TestSelect_IgnoresInputOrder(t *testing.T) {
	cs, err := Parse(">= 4.13.1 <= 4.14.0")
	require.NoError(t, err)

	got, err := Select(cs, []string{"4.10.0", "4.13.1", "4.14.0", "4.15.0"})
	require.NoError(t, err)
	assert.Equal(t, "4.14.0", got)
}

func TestSelect_EmptyConstraintsPicksHighest(t *testing.T) {
	got, err := Select(nil, []string{"1.0.0", "2.0.0", "1.5.0"})
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", got)
}

func TestSelect_SkipsPrereleases(t *testing.T) {
	cs, err := Parse("< 2.0.0")
	require.NoError(t, err)

	got, err := Select(cs, []string{"2.0.0-rc1", "1.9.0", "1.8.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.9.0", got)

	got, err = Select(nil, []string{"3.0.0-beta.1", "2.1.0"})
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", got)

	_, err = Select(cs, []string{"1.0.0-rc1"})
	require.ErrorIs(t, err, ErrNoMatchingVersion)
}

func TestMatches_PrereleaseNamedInConstraint(t *testing.T) {
	cs := []Constraint{{Op: OpGreaterEqual, Version: "2.0.0-rc1"}}
	assert.True(t, Matches(cs, "2.0.0-rc2"))
	assert.True(t, Matches(cs, "2.0.0"))
}

func TestSelect_Unsatisfiable(t *testing.T) {
	cs, err := Parse(">= 1.4 <= 1.3")
	require.NoError(t, err)

	_, err = Select(cs, []string{"1.5.0", "1.4.0", "1.3.0", "1.2.0"})
	require.ErrorIs(t, err, ErrNoMatchingVersion)
}

func TestSelect_UpperBoundExclusive(t *testing.T) {
	cs, err := Parse(">= 4.0.0 < 6.0.0")
	require.NoError(t, err)

	got, err := Select(cs, []string{"6.0.0", "5.0.0", "4.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "5.0.0", got)
}
