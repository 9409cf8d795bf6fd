package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

// MetricsService turns raw monetary records into range-filtered totals,
// category breakdowns and zero-filled chart series. It never mutates the
// records it reads.
type MetricsService struct {
	ledger domain.MonetaryRecordRepository
}

func NewMetricsService(ledger domain.MonetaryRecordRepository) *MetricsService {
	return &MetricsService{
		ledger: ledger,
	}
}

// ResolveDateRange maps a selector to a concrete boundary-inclusive window
// ending at now. Bounded selectors are trailing lookbacks spanning exactly
// LookbackDays calendar days; "all" starts at the earliest record date, or
// the Unix epoch day when there is none.
func ResolveDateRange(sel domain.RangeSelector, now, earliest domain.Day) domain.DateRange {
	if sel == domain.RangeAll {
		start := earliest
		if start.IsZero() || start.After(now) {
			start = domain.NewDay(1970, 1, 1)
		}
		return domain.DateRange{Start: start, End: now}
	}

	days := sel.LookbackDays()
	if days < 1 {
		days = 1
	}
	return domain.DateRange{Start: now.AddDays(-(days - 1)), End: now}
}

// EarliestDate returns the oldest usable date in the collection.
func EarliestDate(records []*domain.MonetaryRecord) domain.Day {
	var earliest domain.Day
	for _, r := range records {
		if r == nil || r.Date.IsZero() {
			continue
		}
		if earliest.IsZero() || r.Date.Before(earliest) {
			earliest = r.Date
		}
	}
	return earliest
}

func matchesFilters(r *domain.MonetaryRecord, f domain.MetricFilters) bool {
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if strings.EqualFold(c, r.Category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MinAmount != nil && r.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && r.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}

	if f.Search != "" && !strings.Contains(strings.ToLower(r.Description), strings.ToLower(f.Search)) {
		return false
	}

	return true
}

// FilterAndAggregate computes totals, averages and the category breakdown
// for the records matching the range and filters. Every division is
// guarded: empty inputs produce zeros, never NaN or infinity. The
// previous-period total covers the same-length window immediately before
// the range, with the same filters applied.
func FilterAndAggregate(records []*domain.MonetaryRecord, r domain.DateRange, f domain.MetricFilters) domain.Metrics {
	m := domain.Metrics{
		Range:      r,
		Categories: []domain.CategoryTotal{},
	}

	byCategory := make(map[string]*domain.CategoryTotal)

	for _, rec := range records {
		if rec == nil || !r.Contains(rec.Date) || !matchesFilters(rec, f) {
			continue
		}

		m.CurrentTotal = m.CurrentTotal.Add(rec.Amount)
		m.TransactionCount++

		ct, ok := byCategory[rec.Category]
		if !ok {
			ct = &domain.CategoryTotal{Category: rec.Category}
			byCategory[rec.Category] = ct
		}
		ct.Total = ct.Total.Add(rec.Amount)
		ct.Count++
	}

	if m.TransactionCount > 0 {
		m.AvgTransaction = m.CurrentTotal.Div(decimal.NewFromInt(int64(m.TransactionCount))).Round(2)
	}
	if days := r.Days(); days > 0 {
		m.DailyAverage = m.CurrentTotal.Div(decimal.NewFromInt(int64(days))).Round(2)
	}

	prevEnd := r.Start.AddDays(-1)
	prev := domain.DateRange{Start: prevEnd.AddDays(-(r.Days() - 1)), End: prevEnd}
	for _, rec := range records {
		if rec == nil || !prev.Contains(rec.Date) || !matchesFilters(rec, f) {
			continue
		}
		m.PreviousTotal = m.PreviousTotal.Add(rec.Amount)
	}

	if !m.PreviousTotal.IsZero() {
		change := m.CurrentTotal.Sub(m.PreviousTotal).
			Div(m.PreviousTotal).
			Mul(decimal.NewFromInt(100))
		m.ChangePercent = change.InexactFloat64()
	}

	for _, ct := range byCategory {
		m.Categories = append(m.Categories, *ct)
	}
	sort.Slice(m.Categories, func(i, j int) bool {
		if cmp := m.Categories[i].Total.Cmp(m.Categories[j].Total); cmp != 0 {
			return cmp > 0
		}
		return m.Categories[i].Category < m.Categories[j].Category
	})

	return m
}

// BucketByPeriod builds the chart series for a selector: 7 daily buckets
// for week, 4 rolling weekly buckets for month, 3/6/12 calendar-month
// buckets for the month-based selectors, and calendar quarters from the
// earliest record through today for all. The series is always zero-filled
// and oldest-first; consumers never have to fill gaps.
func BucketByPeriod(records []*domain.MonetaryRecord, sel domain.RangeSelector, now domain.Day) []domain.PeriodBucket {
	switch sel {
	case domain.RangeWeek:
		return bucketByDay(records, now, 7)
	case domain.RangeMonth:
		return bucketByRollingWeek(records, now, 4)
	case domain.RangeThreeMonths:
		return bucketByMonth(records, now, 3)
	case domain.RangeSixMonths:
		return bucketByMonth(records, now, 6)
	case domain.RangeYear:
		return bucketByMonth(records, now, 12)
	case domain.RangeAll:
		return bucketByQuarter(records, now)
	}
	return bucketByMonth(records, now, 1)
}

func bucketByDay(records []*domain.MonetaryRecord, now domain.Day, n int) []domain.PeriodBucket {
	totals := make(map[string]decimal.Decimal, n)
	for _, r := range records {
		if r == nil || r.Date.IsZero() {
			continue
		}
		totals[r.Date.String()] = totals[r.Date.String()].Add(r.Amount)
	}

	buckets := make([]domain.PeriodBucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := now.AddDays(-i)
		buckets = append(buckets, domain.PeriodBucket{
			Label: day.Weekday().String()[:3],
			Total: totals[day.String()],
		})
	}
	return buckets
}

// bucketByRollingWeek anchors its weeks at now rather than the calendar:
// a record lands in bucket floor(daysAgo/7)+1 "weeks ago".
func bucketByRollingWeek(records []*domain.MonetaryRecord, now domain.Day, n int) []domain.PeriodBucket {
	buckets := make([]domain.PeriodBucket, n)
	for i := 0; i < n; i++ {
		weeksAgo := n - i
		buckets[i] = domain.PeriodBucket{Label: fmt.Sprintf("%dw ago", weeksAgo)}
	}

	for _, r := range records {
		if r == nil || r.Date.IsZero() || r.Date.After(now) {
			continue
		}
		daysAgo := r.Date.DaysUntil(now)
		if daysAgo >= n*7 {
			continue
		}
		weeksAgo := daysAgo/7 + 1
		idx := n - weeksAgo
		buckets[idx].Total = buckets[idx].Total.Add(r.Amount)
	}

	return buckets
}

func monthKey(d domain.Day) string {
	return fmt.Sprintf("%d-%02d", d.Year(), int(d.Month()))
}

func monthLabel(d domain.Day) string {
	return fmt.Sprintf("%s %d", d.Month().String()[:3], d.Year())
}

func bucketByMonth(records []*domain.MonetaryRecord, now domain.Day, n int) []domain.PeriodBucket {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		if r == nil || r.Date.IsZero() {
			continue
		}
		key := monthKey(r.Date)
		totals[key] = totals[key].Add(r.Amount)
	}

	buckets := make([]domain.PeriodBucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := now.MonthStart().AddMonths(-i)
		buckets = append(buckets, domain.PeriodBucket{
			Label: monthLabel(month),
			Total: totals[monthKey(month)],
		})
	}
	return buckets
}

// bucketByQuarter spans calendar quarters from the earliest record's
// quarter through the current one. With no dated records it degrades to a
// single empty bucket for the current quarter.
func bucketByQuarter(records []*domain.MonetaryRecord, now domain.Day) []domain.PeriodBucket {
	totals := make(map[string]decimal.Decimal)
	earliest := domain.Day{}

	for _, r := range records {
		if r == nil || r.Date.IsZero() || r.Date.After(now) {
			continue
		}
		q := r.Date.QuarterStart()
		totals[q.String()] = totals[q.String()].Add(r.Amount)
		if earliest.IsZero() || q.Before(earliest) {
			earliest = q
		}
	}

	current := now.QuarterStart()
	if earliest.IsZero() {
		earliest = current
	}

	var buckets []domain.PeriodBucket
	for q := earliest; !q.After(current); q = q.AddMonths(3) {
		buckets = append(buckets, domain.PeriodBucket{
			Label: fmt.Sprintf("Q%d %d", q.Quarter(), q.Year()),
			Total: totals[q.String()],
		})
	}
	return buckets
}

// Overview aggregates one monetary collection over the selected window.
// A zero now means today.
func (s *MetricsService) Overview(ctx context.Context, userID string, kind domain.RecordKind, sel domain.RangeSelector, f domain.MetricFilters, now domain.Day) (*domain.Metrics, error) {
	if now.IsZero() {
		now = domain.Today()
	}

	records, err := s.ledger.ListByUserID(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	rng := ResolveDateRange(sel, now, EarliestDate(records))
	m := FilterAndAggregate(records, rng, f)
	return &m, nil
}

// Series builds the zero-filled period series for the selected window.
func (s *MetricsService) Series(ctx context.Context, userID string, kind domain.RecordKind, sel domain.RangeSelector, now domain.Day) ([]domain.PeriodBucket, error) {
	if now.IsZero() {
		now = domain.Today()
	}

	records, err := s.ledger.ListByUserID(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	return BucketByPeriod(records, sel, now), nil
}
