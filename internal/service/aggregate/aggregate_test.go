package aggregate

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
)

func sub(id, serviceID, count int64, verified bool) *domain.Submission {
	return &domain.Submission{ID: id, ServiceID: serviceID, Count: count, Verified: verified}
}

func fixture() Dataset {
	return Dataset{
		Categories: []*domain.Category{
			{ID: 1, Name: CategoryPopulation},
			{ID: 2, Name: CategoryCivilRecords},
			{ID: 3, Name: CategoryGeneralInfo},
		},
		Services: []*domain.Service{
			{ID: 10, Name: "Perekaman KTP", CategoryID: 1},
			{ID: 11, Name: ServiceBlankIDCard, CategoryID: 1},
			{ID: 20, Name: "Akta Kelahiran", CategoryID: 2},
			{ID: 30, Name: "Konsultasi", CategoryID: 3},
			{ID: 40, Name: "Layanan Lama", CategoryID: 99},
		},
		Submissions: []*domain.Submission{
			sub(100, 10, 5, false),
			sub(101, 10, 3, true),
			sub(102, 11, 4, true),
			sub(103, 11, 6, false),
			sub(104, 20, 7, true),
			sub(105, 30, 2, true),
			sub(106, 30, 2, false),
			sub(107, 40, 1, false),
			sub(108, 77, 9, true),
		},
	}
}

func TestServiceStats_Scenarios(t *testing.T) {
	e := New(PublicConfig())

	t.Run("plain service", func(t *testing.T) {
		ds := Dataset{
			Categories:  []*domain.Category{{ID: 1, Name: CategoryPopulation}},
			Services:    []*domain.Service{{ID: 10, Name: "Perekaman KTP", CategoryID: 1}},
			Submissions: []*domain.Submission{sub(100, 10, 5, false), sub(101, 10, 3, true)},
		}
		st := e.ServiceStats(ds, 10)
		assert.Equal(t, int64(8), st.Total)
		assert.Equal(t, int64(3), st.Verified)
		assert.Equal(t, int64(5), st.Unverified)
		assert.False(t, st.IsExcluded)
		assert.Equal(t, CategoryPopulation, st.CategoryName)
	})

	t.Run("excluded by service name", func(t *testing.T) {
		st := e.ServiceStats(fixture(), 11)
		assert.Equal(t, ServiceStats{
			ServiceID: 11, Name: ServiceBlankIDCard, CategoryID: 1, CategoryName: CategoryPopulation,
			Total: 10, IsExcluded: true,
		}, st)
	})

	t.Run("excluded by category", func(t *testing.T) {
		st := e.ServiceStats(fixture(), 30)
		assert.True(t, st.IsExcluded)
		assert.Equal(t, int64(4), st.Total)
		assert.Zero(t, st.Verified)
		assert.Zero(t, st.Unverified)
	})

	t.Run("unknown service", func(t *testing.T) {
		st := e.ServiceStats(fixture(), 77)
		assert.Equal(t, domain.Unresolved, st.Name)
		assert.Zero(t, st.Total)
		assert.False(t, st.IsExcluded)
	})

	t.Run("orphaned category", func(t *testing.T) {
		st := e.ServiceStats(fixture(), 40)
		assert.Equal(t, domain.Unresolved, st.CategoryName)
		assert.Equal(t, int64(1), st.Total)
		assert.Equal(t, int64(1), st.Unverified)
	})
}

func TestServiceStatsByName_MergesSameName(t *testing.T) {
	ds := fixture()
	ds.Services = append(ds.Services, &domain.Service{ID: 12, Name: "Perekaman KTP", CategoryID: 2})
	ds.Submissions = append(ds.Submissions, sub(109, 12, 10, true))

	st := New(AdminConfig()).ServiceStatsByName(ds, "Perekaman KTP")
	assert.Equal(t, int64(18), st.Total)
	assert.Equal(t, int64(13), st.Verified)
	assert.Equal(t, int64(5), st.Unverified)
	assert.Equal(t, int64(10), st.ServiceID)

	missing := New(PublicConfig()).ServiceStatsByName(ds, ServiceIKDActivation)
	assert.Zero(t, missing.Total)
	assert.True(t, missing.IsExcluded)
	assert.Equal(t, domain.Unresolved, missing.CategoryName)
}

func TestServiceStats_AdminKeepsSplit(t *testing.T) {
	ds := fixture()

	admin := New(AdminConfig()).ServiceStats(ds, 11)
	assert.Equal(t, ServiceStats{
		ServiceID: 11, Name: ServiceBlankIDCard, CategoryID: 1, CategoryName: CategoryPopulation,
		Total: 10, Verified: 4, Unverified: 6,
	}, admin)

	general := New(AdminConfig()).ServiceStats(ds, 30)
	assert.False(t, general.IsExcluded)
	assert.Equal(t, int64(2), general.Verified)
	assert.Equal(t, int64(2), general.Unverified)

	public := New(PublicConfig()).ServiceStats(ds, 11)
	assert.True(t, public.IsExcluded)
	assert.Equal(t, int64(10), public.Total)
	assert.Zero(t, public.Verified)
	assert.Zero(t, public.Unverified)
}

func TestCategoryTotal_IgnoresExclusion(t *testing.T) {
	e := New(PublicConfig())
	ds := fixture()

	assert.Equal(t, int64(18), e.CategoryTotal(ds, 1))
	assert.Equal(t, int64(7), e.CategoryTotal(ds, 2))
	assert.Equal(t, int64(4), e.CategoryTotal(ds, 3))
	assert.Zero(t, e.CategoryTotal(ds, 42))
}

func TestOrderServices(t *testing.T) {
	ds := fixture()
	before := append([]*domain.Service(nil), ds.Services...)

	ordered := New(PublicConfig()).OrderServices(ds)

	ids := make([]int64, 0, len(ordered))
	for _, s := range ordered {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{30, 20, 10, 11, 40}, ids)
	assert.Equal(t, before, ds.Services, "input must not be reordered")
}

func TestOrderServices_StableWithinRank(t *testing.T) {
	ds := Dataset{
		Categories: []*domain.Category{{ID: 1, Name: "Lainnya"}, {ID: 2, Name: CategoryGeneralInfo}},
		Services: []*domain.Service{
			{ID: 5, Name: "e", CategoryID: 1},
			{ID: 3, Name: "c", CategoryID: 7},
			{ID: 4, Name: "d", CategoryID: 2},
			{ID: 1, Name: "a", CategoryID: 1},
			{ID: 2, Name: "b", CategoryID: 2},
		},
	}
	ordered := New(AdminConfig()).OrderServices(ds)

	names := make([]string, 0, len(ordered))
	for _, s := range ordered {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"d", "b", "e", "c", "a"}, names)
}

func TestAssemble(t *testing.T) {
	dash := New(PublicConfig()).Assemble(fixture())

	assert.Equal(t, int64(39), dash.GlobalTotal)
	assert.Equal(t, int64(10), dash.Unattributed, "orphaned category and dangling service")
	assert.Equal(t, []CategoryTotal{
		{ID: 1, Name: CategoryPopulation, Total: 18},
		{ID: 2, Name: CategoryCivilRecords, Total: 7},
		{ID: 3, Name: CategoryGeneralInfo, Total: 4},
	}, dash.Categories)

	require.Len(t, dash.Status, 3)
	assert.Equal(t, int64(25), dash.Status[0].Value)
	assert.Equal(t, "Sudah Diproses", dash.Status[0].Label)
	assert.Equal(t, int64(14), dash.Status[1].Value)
	assert.True(t, dash.Status[2].Placeholder)
	assert.Zero(t, dash.Status[2].Value)
	assert.True(t, decimal.RequireFromString("64.1").Equal(dash.Status[0].Percent), dash.Status[0].Percent.String())

	require.Len(t, dash.Services, 5)
	assert.Equal(t, int64(30), dash.Services[0].ServiceID)
}

func TestAssemble_Empty(t *testing.T) {
	ds := fixture()
	ds.Submissions = nil

	dash := New(AdminConfig()).Assemble(ds)
	assert.Zero(t, dash.GlobalTotal)
	require.Len(t, dash.Categories, 3)
	for _, c := range dash.Categories {
		assert.Zero(t, c.Total)
	}
	require.Len(t, dash.Status, 2)
	for _, b := range dash.Status {
		assert.Zero(t, b.Value)
		assert.True(t, b.Percent.IsZero())
	}
	for _, s := range dash.Services {
		assert.Zero(t, s.Total)
	}

	assert.NotPanics(t, func() { New(Config{}).Assemble(Dataset{}) })
}

func TestAssemble_DuplicateServiceID(t *testing.T) {
	e := New(AdminConfig())
	ds := fixture()
	ds.Services = append(ds.Services, &domain.Service{ID: 10, Name: "Perekaman KTP Ulang", CategoryID: 2})

	dash := e.Assemble(ds)

	var matches []ServiceStats
	for _, st := range dash.Services {
		if st.ServiceID == 10 {
			matches = append(matches, st)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, "Perekaman KTP", matches[0].Name)
	assert.Equal(t, int64(8), matches[0].Total)
	assert.Equal(t, e.ServiceStats(ds, 10), matches[0])
	assert.Equal(t, int64(18), dash.Categories[0].Total)
}

func TestAssemble_CoercesNegativeCounts(t *testing.T) {
	ds := fixture()
	ds.Submissions = []*domain.Submission{sub(1, 10, -4, true), sub(2, 10, 2, false), nil}

	dash := New(AdminConfig()).Assemble(ds)
	assert.Equal(t, int64(2), dash.GlobalTotal)
	assert.Equal(t, int64(2), dash.Categories[0].Total)
}

func randomDataset(r *rand.Rand) Dataset {
	ds := Dataset{
		Categories: []*domain.Category{
			{ID: 1, Name: CategoryPopulation},
			{ID: 2, Name: CategoryCivilRecords},
			{ID: 3, Name: CategoryGeneralInfo},
			{ID: 4, Name: "Lainnya"},
		},
	}
	names := []string{"Perekaman KTP", ServiceBlankIDCard, ServiceIKDActivation, "Akta", "KIA", "Pindah"}
	for i := 0; i < 12; i++ {
		ds.Services = append(ds.Services, &domain.Service{
			ID:         int64(i + 1),
			Name:       names[r.Intn(len(names))],
			CategoryID: int64(r.Intn(4) + 1),
		})
	}
	for i := 0; i < 200; i++ {
		ds.Submissions = append(ds.Submissions, sub(int64(i), int64(r.Intn(12)+1), int64(r.Intn(50)), r.Intn(2) == 0))
	}
	return ds
}

func TestAssemble_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, cfg := range []Config{PublicConfig(), AdminConfig()} {
		e := New(cfg)
		for i := 0; i < 25; i++ {
			ds := randomDataset(r)
			dash := e.Assemble(ds)

			var servicesSum, categoriesSum int64
			for _, st := range dash.Services {
				servicesSum += st.Total
				if st.IsExcluded {
					assert.Zero(t, st.Verified)
					assert.Zero(t, st.Unverified)
				} else {
					assert.Equal(t, st.Total, st.Verified+st.Unverified)
				}
				assert.Equal(t, e.ServiceStats(ds, st.ServiceID), st)
			}
			for _, c := range dash.Categories {
				categoriesSum += c.Total
				assert.Equal(t, e.CategoryTotal(ds, c.ID), c.Total)
			}

			assert.Equal(t, GlobalTotal(ds.Submissions), dash.GlobalTotal)
			assert.Equal(t, dash.GlobalTotal, servicesSum)
			assert.Equal(t, dash.GlobalTotal, categoriesSum+dash.Unattributed)
			assert.Equal(t, dash.GlobalTotal, dash.Status[0].Value+dash.Status[1].Value)
			assert.Equal(t, dash, e.Assemble(ds), "assembling twice must be identical")

			prevRank := 0
			for _, svc := range e.OrderServices(ds) {
				rank := DefaultRank
				for _, c := range ds.Categories {
					if c.ID == svc.CategoryID {
						rank = e.rank(c.Name, true)
					}
				}
				assert.GreaterOrEqual(t, rank, prevRank)
				prevRank = rank
			}
		}
	}
}
