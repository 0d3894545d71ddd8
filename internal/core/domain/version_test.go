package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/zerr"
)

func mustParse(t *testing.T, s string) domain.VersionID {
	t.Helper()
	v, err := domain.ParseVersion(s)
	require.NoError(t, err)
	return v
}

func TestParseVersion(t *testing.T) {
	valid := []string{"0", "1.0", "1.2.10", "007.1", "18446744073709551615"}
	for _, s := range valid {
		v, err := domain.ParseVersion(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, v.String())
	}

	invalid := []string{"", ".", "1.", ".1", "1..2", "a", "1.a", "-1", "+1", " 1", "1.0-beta", "latest", "18446744073709551616"}
	for _, s := range invalid {
		_, err := domain.ParseVersion(s)
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, domain.ErrInvalidVersion), s)
	}
}

func TestParseVersion_Metadata(t *testing.T) {
	_, err := domain.ParseVersion("x.1")
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "x.1", zErr.Metadata()["version"])
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.9", "1.10", -1},
		{"1.10", "1.9", 1},
		{"2.0", "10.0", -1},
		{"1.2", "1.2.0", 0},
		{"1.2.0.0", "1.2", 0},
		{"1.2", "1.2.1", -1},
		{"1.2.1", "1.2", 1},
		{"01.2", "1.2", 0},
		{"3", "2.99", 1},
	}
	for _, tt := range tests {
		got := domain.Compare(mustParse(t, tt.a), mustParse(t, tt.b))
		assert.Equal(t, tt.want, got, "Compare(%s, %s)", tt.a, tt.b)
	}
}

func TestCompare_OrderProperties(t *testing.T) {
	literals := []string{"0", "0.1", "1", "1.0", "1.0.1", "1.9", "1.10", "2", "2.0.0.1", "10"}
	ids := make([]domain.VersionID, len(literals))
	for i, s := range literals {
		ids[i] = mustParse(t, s)
	}

	for _, a := range ids {
		for _, b := range ids {
			assert.Equal(t, -domain.Compare(b, a), domain.Compare(a, b), "antisymmetry %s %s", a, b)
			for _, c := range ids {
				if domain.Compare(a, b) <= 0 && domain.Compare(b, c) <= 0 {
					assert.LessOrEqual(t, domain.Compare(a, c), 0, "transitivity %s %s %s", a, b, c)
				}
			}
		}
	}
}

func TestLatest(t *testing.T) {
	ids := []domain.VersionID{mustParse(t, "1.9"), mustParse(t, "1.10"), mustParse(t, "1.2.3")}
	got, err := domain.Latest(ids)
	require.NoError(t, err)
	assert.Equal(t, "1.10", got.String())
}

func TestLatest_TieKeepsFirst(t *testing.T) {
	ids := []domain.VersionID{mustParse(t, "1.2"), mustParse(t, "1.2.0")}
	got, err := domain.Latest(ids)
	require.NoError(t, err)
	assert.Equal(t, "1.2", got.String())
}

func TestLatest_Empty(t *testing.T) {
	_, err := domain.Latest(nil)
	require.ErrorIs(t, err, domain.ErrNoVersionsAvailable)
}

func TestParseSelector(t *testing.T) {
	assert.True(t, domain.ParseSelector("latest").IsLatest())
	assert.Equal(t, "latest", domain.ParseSelector("latest").String())

	sel := domain.ParseSelector("1.0")
	assert.False(t, sel.IsLatest())
	assert.Equal(t, "1.0", sel.String())
}
