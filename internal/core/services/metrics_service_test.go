package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
	"github.com/dylandaniels6/dillysdally/internal/core/services"
)

// expense builds an expense record for aggregation tests.
func expense(t *testing.T, date string, amount float64, category, description string) *domain.MonetaryRecord {
	t.Helper()

	record, err := domain.NewMonetaryRecord("user-1", domain.KindExpense, domain.MustParseDay(date), decimal.NewFromFloat(amount), category, description)
	require.NoError(t, err)
	return record
}

func TestResolveDateRange(t *testing.T) {
	now := domain.MustParseDay("2024-06-30")

	t.Run("Bounded selectors span exactly their lookback, both ends inclusive", func(t *testing.T) {
		cases := []struct {
			sel   domain.RangeSelector
			start string
			days  int
		}{
			{domain.RangeWeek, "2024-06-24", 7},
			{domain.RangeMonth, "2024-06-01", 30},
			{domain.RangeThreeMonths, "2024-04-02", 90},
			{domain.RangeSixMonths, "2024-01-03", 180},
			{domain.RangeYear, "2023-07-02", 365},
		}

		for _, tc := range cases {
			rng := services.ResolveDateRange(tc.sel, now, domain.Day{})

			assert.Equal(t, tc.start, rng.Start.String(), "selector %s", tc.sel)
			assert.Equal(t, "2024-06-30", rng.End.String(), "selector %s", tc.sel)
			assert.Equal(t, tc.days, rng.Days(), "selector %s", tc.sel)
		}
	})

	t.Run("All starts at the earliest record date", func(t *testing.T) {
		earliest := domain.MustParseDay("2022-03-15")

		rng := services.ResolveDateRange(domain.RangeAll, now, earliest)

		assert.Equal(t, "2022-03-15", rng.Start.String())
		assert.Equal(t, "2024-06-30", rng.End.String())
	})

	t.Run("All with no records falls back to the epoch", func(t *testing.T) {
		rng := services.ResolveDateRange(domain.RangeAll, now, domain.Day{})

		assert.Equal(t, "1970-01-01", rng.Start.String())
	})
}

func TestDateRangeContains(t *testing.T) {
	rng := domain.DateRange{
		Start: domain.MustParseDay("2024-06-01"),
		End:   domain.MustParseDay("2024-06-07"),
	}

	assert.True(t, rng.Contains(domain.MustParseDay("2024-06-01")), "start boundary")
	assert.True(t, rng.Contains(domain.MustParseDay("2024-06-07")), "end boundary")
	assert.True(t, rng.Contains(domain.MustParseDay("2024-06-04")))
	assert.False(t, rng.Contains(domain.MustParseDay("2024-05-31")))
	assert.False(t, rng.Contains(domain.MustParseDay("2024-06-08")))
	assert.False(t, rng.Contains(domain.Day{}), "zero day never matches")
}

func TestFilterAndAggregate(t *testing.T) {
	now := domain.MustParseDay("2024-06-30")
	week := services.ResolveDateRange(domain.RangeWeek, now, domain.Day{})

	t.Run("Empty input produces zeros, never NaN", func(t *testing.T) {
		m := services.FilterAndAggregate(nil, week, domain.MetricFilters{})

		assert.True(t, m.CurrentTotal.IsZero())
		assert.True(t, m.AvgTransaction.IsZero())
		assert.True(t, m.DailyAverage.IsZero())
		assert.Equal(t, 0, m.TransactionCount)
		assert.Equal(t, 0.0, m.ChangePercent)
		assert.NotNil(t, m.Categories)
		assert.Empty(t, m.Categories)
	})

	t.Run("Sums records inside the week window", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-06-28", 10, "food", "groceries"),
			expense(t, "2024-06-29", 20, "food", "restaurant"),
			expense(t, "2024-06-30", 30, "gear", "chalk"),
			expense(t, "2024-05-01", 999, "gear", "rope"), // outside the window
		}

		m := services.FilterAndAggregate(records, week, domain.MetricFilters{})

		assert.True(t, m.CurrentTotal.Equal(decimal.NewFromInt(60)), "got %s", m.CurrentTotal)
		assert.Equal(t, 3, m.TransactionCount)
		assert.True(t, m.AvgTransaction.Equal(decimal.NewFromInt(20)), "got %s", m.AvgTransaction)
		// 60 over 7 days, rounded to cents.
		assert.True(t, m.DailyAverage.Equal(decimal.NewFromFloat(8.57)), "got %s", m.DailyAverage)
	})

	t.Run("Boundary days are counted on both ends", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-06-24", 1, "", ""), // window start
			expense(t, "2024-06-30", 1, "", ""), // window end
			expense(t, "2024-06-23", 1, "", ""), // one day before
			expense(t, "2024-07-01", 1, "", ""), // one day after
		}

		m := services.FilterAndAggregate(records, week, domain.MetricFilters{})

		assert.Equal(t, 2, m.TransactionCount)
	})

	t.Run("Category breakdown is sorted by total descending", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-06-28", 10, "food", ""),
			expense(t, "2024-06-29", 20, "food", ""),
			expense(t, "2024-06-30", 50, "gear", ""),
			expense(t, "2024-06-30", 5, "transport", ""),
		}

		m := services.FilterAndAggregate(records, week, domain.MetricFilters{})

		require.Len(t, m.Categories, 3)
		assert.Equal(t, "gear", m.Categories[0].Category)
		assert.Equal(t, "food", m.Categories[1].Category)
		assert.Equal(t, 2, m.Categories[1].Count)
		assert.Equal(t, "transport", m.Categories[2].Category)
	})

	t.Run("Category filter matches case-insensitively", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-06-28", 10, "Food", ""),
			expense(t, "2024-06-29", 20, "gear", ""),
		}
		filters := domain.MetricFilters{Categories: []string{"food"}}

		m := services.FilterAndAggregate(records, week, filters)

		assert.Equal(t, 1, m.TransactionCount)
		assert.True(t, m.CurrentTotal.Equal(decimal.NewFromInt(10)))
	})

	t.Run("Amount bounds are inclusive", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-06-28", 10, "", ""),
			expense(t, "2024-06-29", 20, "", ""),
			expense(t, "2024-06-30", 30, "", ""),
		}
		min := decimal.NewFromInt(10)
		max := decimal.NewFromInt(20)
		filters := domain.MetricFilters{MinAmount: &min, MaxAmount: &max}

		m := services.FilterAndAggregate(records, week, filters)

		assert.Equal(t, 2, m.TransactionCount)
		assert.True(t, m.CurrentTotal.Equal(decimal.NewFromInt(30)))
	})

	t.Run("Search matches descriptions case-insensitively", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-06-28", 10, "food", "Weekly Groceries"),
			expense(t, "2024-06-29", 20, "food", "restaurant"),
		}
		filters := domain.MetricFilters{Search: "groceries"}

		m := services.FilterAndAggregate(records, week, filters)

		assert.Equal(t, 1, m.TransactionCount)
	})

	t.Run("ChangePercent compares against the previous same-length window", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-06-28", 150, "", ""), // current week
			expense(t, "2024-06-20", 100, "", ""), // previous week
		}

		m := services.FilterAndAggregate(records, week, domain.MetricFilters{})

		assert.True(t, m.CurrentTotal.Equal(decimal.NewFromInt(150)))
		assert.True(t, m.PreviousTotal.Equal(decimal.NewFromInt(100)))
		assert.InDelta(t, 50.0, m.ChangePercent, 0.0001)
	})

	t.Run("ChangePercent degrades to zero when the previous window is empty", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-06-28", 150, "", ""),
		}

		m := services.FilterAndAggregate(records, week, domain.MetricFilters{})

		assert.True(t, m.PreviousTotal.IsZero())
		assert.Equal(t, 0.0, m.ChangePercent)
	})

	t.Run("A 40-day-old record is outside month but inside 3months", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-05-21", 100, "", ""), // 40 days before now
		}

		month := services.ResolveDateRange(domain.RangeMonth, now, domain.Day{})
		threeMonths := services.ResolveDateRange(domain.RangeThreeMonths, now, domain.Day{})

		assert.Equal(t, 0, services.FilterAndAggregate(records, month, domain.MetricFilters{}).TransactionCount)
		assert.Equal(t, 1, services.FilterAndAggregate(records, threeMonths, domain.MetricFilters{}).TransactionCount)
	})
}

func TestBucketByPeriod(t *testing.T) {
	// 2024-01-07 is a Sunday.
	now := domain.MustParseDay("2024-01-07")

	t.Run("Week: 7 daily buckets ending today", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-01-01", 10, "", ""),
			expense(t, "2024-01-07", 30, "", ""),
		}

		buckets := services.BucketByPeriod(records, domain.RangeWeek, now)

		require.Len(t, buckets, 7)
		assert.Equal(t, "Mon", buckets[0].Label)
		assert.Equal(t, "Sun", buckets[6].Label)
		assert.True(t, buckets[0].Total.Equal(decimal.NewFromInt(10)))
		assert.True(t, buckets[6].Total.Equal(decimal.NewFromInt(30)))
		for i := 1; i < 6; i++ {
			assert.True(t, buckets[i].Total.IsZero(), "bucket %d", i)
		}
	})

	t.Run("Month: 4 rolling weekly buckets, oldest first", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-01-07", 10, "", ""), // today, 1w ago bucket
			expense(t, "2024-01-01", 20, "", ""), // 6 days ago, still 1w ago
			expense(t, "2023-12-30", 40, "", ""), // 8 days ago, 2w ago
			expense(t, "2023-12-01", 99, "", ""), // beyond 4 weeks, dropped
		}

		buckets := services.BucketByPeriod(records, domain.RangeMonth, now)

		require.Len(t, buckets, 4)
		assert.Equal(t, "4w ago", buckets[0].Label)
		assert.Equal(t, "1w ago", buckets[3].Label)
		assert.True(t, buckets[3].Total.Equal(decimal.NewFromInt(30)))
		assert.True(t, buckets[2].Total.Equal(decimal.NewFromInt(40)))
		assert.True(t, buckets[0].Total.IsZero())
	})

	t.Run("Calendar month buckets: 3, 6 and 12", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2024-01-05", 10, "", ""),
			expense(t, "2023-12-20", 20, "", ""),
		}

		three := services.BucketByPeriod(records, domain.RangeThreeMonths, now)
		six := services.BucketByPeriod(records, domain.RangeSixMonths, now)
		year := services.BucketByPeriod(records, domain.RangeYear, now)

		require.Len(t, three, 3)
		require.Len(t, six, 6)
		require.Len(t, year, 12)

		assert.Equal(t, "Nov 2023", three[0].Label)
		assert.Equal(t, "Dec 2023", three[1].Label)
		assert.Equal(t, "Jan 2024", three[2].Label)
		assert.True(t, three[1].Total.Equal(decimal.NewFromInt(20)))
		assert.True(t, three[2].Total.Equal(decimal.NewFromInt(10)))

		assert.Equal(t, "Feb 2023", year[0].Label)
		assert.True(t, year[11].Total.Equal(decimal.NewFromInt(10)))
	})

	t.Run("All: calendar quarters from earliest record, zero-filled", func(t *testing.T) {
		records := []*domain.MonetaryRecord{
			expense(t, "2023-02-10", 10, "", ""), // Q1 2023
			expense(t, "2023-08-01", 20, "", ""), // Q3 2023
		}

		buckets := services.BucketByPeriod(records, domain.RangeAll, now)

		require.Len(t, buckets, 5)
		assert.Equal(t, "Q1 2023", buckets[0].Label)
		assert.Equal(t, "Q2 2023", buckets[1].Label)
		assert.Equal(t, "Q3 2023", buckets[2].Label)
		assert.Equal(t, "Q1 2024", buckets[4].Label)
		assert.True(t, buckets[1].Total.IsZero(), "empty quarter is zero-filled")
		assert.True(t, buckets[2].Total.Equal(decimal.NewFromInt(20)))
	})

	t.Run("All with no records degrades to the current quarter", func(t *testing.T) {
		buckets := services.BucketByPeriod(nil, domain.RangeAll, now)

		require.Len(t, buckets, 1)
		assert.Equal(t, "Q1 2024", buckets[0].Label)
		assert.True(t, buckets[0].Total.IsZero())
	})
}

func TestMetricsService_Overview(t *testing.T) {
	t.Run("Aggregates only the requested kind", func(t *testing.T) {
		repo := newMockLedgerRepo()
		svc := services.NewMetricsService(repo)
		ctx := context.Background()

		now := domain.MustParseDay("2024-06-30")
		exp := expense(t, "2024-06-28", 40, "food", "")
		require.NoError(t, repo.Create(ctx, exp))

		inc, err := domain.NewMonetaryRecord("user-1", domain.KindIncome, domain.MustParseDay("2024-06-28"), decimal.NewFromInt(5000), "salary", "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, inc))

		m, err := svc.Overview(ctx, "user-1", domain.KindExpense, domain.RangeWeek, domain.MetricFilters{}, now)

		require.NoError(t, err)
		assert.True(t, m.CurrentTotal.Equal(decimal.NewFromInt(40)), "got %s", m.CurrentTotal)
		assert.Equal(t, 1, m.TransactionCount)
	})
}

func TestMetricsService_Series(t *testing.T) {
	t.Run("Builds the weekly series from stored records", func(t *testing.T) {
		repo := newMockLedgerRepo()
		svc := services.NewMetricsService(repo)
		ctx := context.Background()

		now := domain.MustParseDay("2024-01-07")
		require.NoError(t, repo.Create(ctx, expense(t, "2024-01-07", 30, "", "")))

		buckets, err := svc.Series(ctx, "user-1", domain.KindExpense, domain.RangeWeek, now)

		require.NoError(t, err)
		require.Len(t, buckets, 7)
		assert.True(t, buckets[6].Total.Equal(decimal.NewFromInt(30)))
	})
}
