// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/pos-backoffice/events"
	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/testutil"
)

// TestConcurrentProductAdds verifies that simultaneous adds all succeed with
// distinct order references.
func TestConcurrentProductAdds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	pub := &recordingPublisher{}
	h := NewProductHandler(db, testutil.GetTestConfig(), pub)

	const numAdds = 10

	var successCount atomic.Int32
	var wg sync.WaitGroup
	refs := make([]string, numAdds)

	for i := 0; i < numAdds; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := validProduct()
			body.Name = "Item " + strconv.Itoa(idx)

			w := httptest.NewRecorder()
			h.Add(w, testutil.MakeRequest("POST", "/api/products", body, nil))
			if w.Code != http.StatusCreated {
				t.Errorf("add %d failed: %d - %s", idx, w.Code, w.Body.String())
				return
			}
			var resp models.AddProductResponse
			testutil.AssertJSON(t, w, &resp)
			refs[idx] = resp.OrderID
			successCount.Add(1)
		}(i)
	}
	wg.Wait()

	if successCount.Load() != numAdds {
		t.Fatalf("successful adds = %d, want %d", successCount.Load(), numAdds)
	}

	seen := make(map[string]bool)
	for _, ref := range refs {
		if seen[ref] {
			t.Errorf("duplicate order reference %s", ref)
		}
		seen[ref] = true
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count)
	if count != numAdds {
		t.Errorf("stored products = %d, want %d", count, numAdds)
	}
	if got := len(pub.types()); got != numAdds {
		t.Errorf("published events = %d, want %d", got, numAdds)
	}
}

// TestConcurrentSalesDataReads checks that parallel dashboard reads agree.
func TestConcurrentSalesDataReads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewStatsHandler(db, testutil.GetTestConfig()).WithClock(clock)

	for i := 0; i < 5; i++ {
		testutil.CreateTestOrder(t, db, int64(i%3), models.StatusDelivered, "10", fixedNow.Add(-time.Duration(i)*time.Hour))
	}

	const numReaders = 8
	var wg sync.WaitGroup
	results := make([]models.SalesDataResponse, numReaders)

	for i := 0; i < numReaders; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			h.SalesData(w, testutil.MakeRequest("GET", "/api/sales-data?timeFrame=today", nil, nil))
			if w.Code != http.StatusOK {
				t.Errorf("reader %d: status %d", idx, w.Code)
				return
			}
			testutil.AssertJSON(t, w, &results[idx])
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.TotalOrders != 5 || r.TotalCustomers != 3 || r.PeriodSales.IntPart() != 50 {
			t.Errorf("reader %d got %+v", i, r)
		}
	}
}

// TestConcurrentOrderStatusUpdates races status changes on one order; the
// final state must be one of the submitted statuses.
func TestConcurrentOrderStatusUpdates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewOrderHandler(db, testutil.GetTestConfig(), events.Nop{})

	id := testutil.CreateTestOrder(t, db, 1, models.StatusOrderPlaced, "10", fixedNow)
	statuses := []string{models.StatusProcessed, models.StatusShipped, models.StatusDelivered}

	var wg sync.WaitGroup
	for _, status := range statuses {
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			w := httptest.NewRecorder()
			h.UpdateStatus(w, withID(testutil.MakeRequest("PUT", "/api/orders/x/status",
				models.UpdateOrderStatusRequest{Status: status}, nil), id))
			if w.Code != http.StatusOK {
				t.Errorf("status %q: %d", status, w.Code)
			}
		}(status)
	}
	wg.Wait()

	var final string
	db.QueryRow("SELECT status FROM orders WHERE id = $1", id).Scan(&final)
	valid := false
	for _, s := range statuses {
		if final == s {
			valid = true
		}
	}
	if !valid {
		t.Errorf("final status %q is not one of %v", final, statuses)
	}
}
