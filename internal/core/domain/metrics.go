package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidRange = errors.New("invalid time range selector")

// RangeSelector is one of the fixed dashboard time windows. Bounded
// selectors are trailing lookbacks anchored at "now", not calendar periods.
type RangeSelector string

const (
	RangeWeek        RangeSelector = "week"
	RangeMonth       RangeSelector = "month"
	RangeThreeMonths RangeSelector = "3months"
	RangeSixMonths   RangeSelector = "6months"
	RangeYear        RangeSelector = "year"
	RangeAll         RangeSelector = "all"
)

// ParseRangeSelector validates a raw selector string, defaulting to month
// when empty.
func ParseRangeSelector(s string) (RangeSelector, error) {
	if s == "" {
		return RangeMonth, nil
	}
	sel := RangeSelector(s)
	switch sel {
	case RangeWeek, RangeMonth, RangeThreeMonths, RangeSixMonths, RangeYear, RangeAll:
		return sel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
}

// LookbackDays returns the window length in days, or 0 for the unbounded
// "all" selector.
func (s RangeSelector) LookbackDays() int {
	switch s {
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	case RangeThreeMonths:
		return 90
	case RangeSixMonths:
		return 180
	case RangeYear:
		return 365
	}
	return 0
}

// DateRange is a contiguous, boundary-inclusive span of calendar days.
type DateRange struct {
	Start Day `json:"start"`
	End   Day `json:"end"`
}

// Contains reports range membership. The zero Day is never in range, so a
// record with no usable date silently drops out of every aggregation.
func (r DateRange) Contains(d Day) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days the range spans, inclusive.
func (r DateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// MetricFilters are the optional predicates applied on top of the date
// window. All present predicates are AND-combined; an empty category set
// means no category restriction.
type MetricFilters struct {
	Categories []string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Search     string
}

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Metrics is the aggregate view of a monetary collection over one range.
// Every numeric field is finite: divisions by zero degrade to zero.
type Metrics struct {
	Range            DateRange       `json:"range"`
	CurrentTotal     decimal.Decimal `json:"current_total"`
	PreviousTotal    decimal.Decimal `json:"previous_total"`
	TransactionCount int             `json:"transaction_count"`
	AvgTransaction   decimal.Decimal `json:"avg_transaction"`
	DailyAverage     decimal.Decimal `json:"daily_average"`
	ChangePercent    float64         `json:"change_percent"`
	Categories       []CategoryTotal `json:"categories"`
}

// PeriodBucket is one aggregation unit of a chart series. Series are
// always zero-filled: consumers never see gaps.
type PeriodBucket struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}
