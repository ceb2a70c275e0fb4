package domain_test

import (
	"testing"

	"github.com/couchcryptid/covid-stats-dashboard/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func country(name, iso2 string, cases *int64) domain.CountryStat {
	return domain.CountryStat{
		Country:     name,
		CountryInfo: domain.CountryInfo{ISO2: iso2},
		Counters:    domain.Counters{Cases: cases},
	}
}

func names(list []domain.CountryStat) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Country
	}
	return out
}

func TestNormalize_Empty(t *testing.T) {
	out := domain.Normalize(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)

	out = domain.Normalize([]domain.CountryStat{})
	assert.Empty(t, out)
}

func TestNormalize_SortsDescendingByCases(t *testing.T) {
	raw := []domain.CountryStat{
		country("A", "A1", domain.Int64(50)),
		country("B", "B1", domain.Int64(80)),
		country("C", "C1", domain.Int64(10)),
		country("D", "D1", domain.Int64(1000)),
	}

	out := domain.Normalize(raw)

	if diff := cmp.Diff([]string{"D", "B", "A", "C"}, names(out)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	// Input order is untouched.
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(raw))
}

func TestNormalize_StableOnTies(t *testing.T) {
	raw := []domain.CountryStat{
		country("first", "F1", domain.Int64(5)),
		country("big", "G1", domain.Int64(9)),
		country("second", "S1", domain.Int64(5)),
		country("third", "T1", domain.Int64(5)),
	}

	out := domain.Normalize(raw)

	assert.Equal(t, []string{"big", "first", "second", "third"}, names(out))
}

func TestNormalize_AllPermutationsSorted(t *testing.T) {
	base := []domain.CountryStat{
		country("a", "A1", domain.Int64(3)),
		country("b", "B1", domain.Int64(1)),
		country("c", "C1", nil),
		country("d", "D1", domain.Int64(7)),
	}

	permute(base, 0, func(perm []domain.CountryStat) {
		out := domain.Normalize(perm)
		require.Len(t, out, len(perm))
		for i := 1; i < len(out); i++ {
			prev, cur := int64(0), int64(0)
			if out[i-1].Cases != nil {
				prev = *out[i-1].Cases
			}
			if out[i].Cases != nil {
				cur = *out[i].Cases
			}
			assert.GreaterOrEqual(t, prev, cur, "order %v", names(out))
		}
	})
}

func TestNormalize_MissingCasesSortAsZeroAndStayAbsent(t *testing.T) {
	raw := []domain.CountryStat{
		country("unknown", "U1", nil),
		country("zero", "Z1", domain.Int64(0)),
		country("some", "S1", domain.Int64(2)),
	}

	out := domain.Normalize(raw)

	assert.Equal(t, []string{"some", "unknown", "zero"}, names(out))
	assert.Nil(t, out[1].Cases, "absent counter must not be replaced with zero")
}

func TestOptions_PreservesRawOrderAndSkipsMissingCodes(t *testing.T) {
	raw := []domain.CountryStat{
		country("A", "A1", domain.Int64(50)),
		country("Diamond Princess", "", domain.Int64(700)),
		country("B", "B1", domain.Int64(80)),
	}

	opts := domain.Options(raw)

	assert.Equal(t, []domain.CountryOption{
		{Name: "A", Key: "A1"},
		{Name: "B", Key: "B1"},
	}, opts)
}

func permute(list []domain.CountryStat, k int, visit func([]domain.CountryStat)) {
	if k == len(list) {
		cp := make([]domain.CountryStat, len(list))
		copy(cp, list)
		visit(cp)
		return
	}
	for i := k; i < len(list); i++ {
		list[k], list[i] = list[i], list[k]
		permute(list, k+1, visit)
		list[k], list[i] = list[i], list[k]
	}
}
