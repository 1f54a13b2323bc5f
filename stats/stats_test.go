// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/timewindow"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func window(f timewindow.Frame) timewindow.Window {
	return timewindow.Resolve(f, fixedNow)
}

func TestSalesTotal(t *testing.T) {
	q := SalesTotal(window(timewindow.Today))

	if !strings.Contains(q.SQL, "ROUND(COALESCE(SUM(total), 0), 2)") {
		t.Errorf("sales total must coalesce to zero and round to cents: %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "DATE(order_date) = $1") {
		t.Errorf("today should use exact-day equality: %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "status = $2") {
		t.Errorf("expected status placeholder $2: %s", q.SQL)
	}
	want := []any{"2025-03-15", models.StatusDelivered}
	assertArgs(t, q.Args, want)
}

func TestOrderCount_TodayDeliveredOnly(t *testing.T) {
	for _, f := range []timewindow.Frame{timewindow.Today, timewindow.Yesterday} {
		t.Run(string(f), func(t *testing.T) {
			q := OrderCount(window(f))

			if !strings.Contains(q.SQL, "status IN ($2)") {
				t.Errorf("expected a single status placeholder: %s", q.SQL)
			}
			if len(q.Args) != 2 || q.Args[1] != models.StatusDelivered {
				t.Errorf("expected Delivered only, got %v", q.Args)
			}
			for _, a := range q.Args {
				if a == models.StatusCancelled {
					t.Errorf("%s order count must not include Cancelled", f)
				}
			}
		})
	}
}

func TestOrderCount_MultiDayAllStatuses(t *testing.T) {
	for _, f := range []timewindow.Frame{timewindow.LastWeek, timewindow.LastMonth} {
		t.Run(string(f), func(t *testing.T) {
			q := OrderCount(window(f))

			if !strings.Contains(q.SQL, "DATE(order_date) BETWEEN $1 AND $2") {
				t.Errorf("expected range predicate: %s", q.SQL)
			}
			if !strings.Contains(q.SQL, "status IN ($3, $4, $5, $6, $7)") {
				t.Errorf("expected five status placeholders: %s", q.SQL)
			}
			statuses := q.Args[2:]
			if len(statuses) != len(models.OrderStatuses) {
				t.Fatalf("expected %d statuses, got %v", len(models.OrderStatuses), statuses)
			}
			foundCancelled := false
			for _, s := range statuses {
				if s == models.StatusCancelled {
					foundCancelled = true
				}
			}
			if !foundCancelled {
				t.Errorf("%s order count must include Cancelled", f)
			}
		})
	}
}

func TestDistinctCustomers(t *testing.T) {
	q := DistinctCustomers(window(timewindow.LastWeek))

	if !strings.Contains(q.SQL, "COUNT(DISTINCT user_id)") {
		t.Errorf("unexpected SQL: %s", q.SQL)
	}
	if strings.Contains(q.SQL, "status") {
		t.Errorf("customer count must not filter on status: %s", q.SQL)
	}
	assertArgs(t, q.Args, []any{"2025-03-08", "2025-03-14"})
}

func TestRatedProducts(t *testing.T) {
	q := RatedProducts(window(timewindow.Yesterday))

	if !strings.Contains(q.SQL, "COUNT(DISTINCT product_id)") {
		t.Errorf("unexpected SQL: %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "DATE(created_at) = $1") {
		t.Errorf("yesterday should use exact-day equality: %s", q.SQL)
	}
	assertArgs(t, q.Args, []any{"2025-03-14"})
}

func TestTopProducts(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, MaxTopProducts},
		{"negative", -3, MaxTopProducts},
		{"within cap", 3, 3},
		{"above cap", 50, MaxTopProducts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := TopProducts(tt.limit)
			assertArgs(t, q.Args, []any{tt.want})
		})
	}

	q := TopProducts(MaxTopProducts)
	if !strings.Contains(q.SQL, "LEFT JOIN ordered_products") {
		t.Errorf("products without sales need a left join: %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "ORDER BY sold DESC, p.rating DESC") {
		t.Errorf("unexpected ordering: %s", q.SQL)
	}
}

func TestTotals(t *testing.T) {
	if q := TotalStock(); !strings.Contains(q.SQL, "COALESCE(SUM(stock_quantity), 0)") {
		t.Errorf("total stock must coalesce to zero: %s", q.SQL)
	}
	if q := TotalProducts(); len(q.Args) != 0 {
		t.Errorf("total products takes no args, got %v", q.Args)
	}
}

func assertArgs(t *testing.T, got, want []any) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
