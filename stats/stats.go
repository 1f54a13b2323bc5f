// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/timewindow"
)

// MaxTopProducts caps the top-products ranking.
const MaxTopProducts = 5

// Query is a parameterized SQL statement ready for database/sql.
type Query struct {
	SQL  string
	Args []any
}

// SalesTotal sums Delivered order totals in the window, rounded to cents.
// SQLite keeps NUMERIC totals as REAL, so the raw sum can carry float error.
func SalesTotal(w timewindow.Window) Query {
	cond, args := w.Predicate("order_date", 1)
	return Query{
		SQL: fmt.Sprintf(`SELECT ROUND(COALESCE(SUM(total), 0), 2) AS period_sales
FROM orders
WHERE %s AND status = $%d`, cond, len(args)+1),
		Args: append(args, models.StatusDelivered),
	}
}

// OrderCount counts orders in the window. Single-day frames count Delivered
// orders only; lastWeek and lastMonth count every status, Cancelled included.
func OrderCount(w timewindow.Window) Query {
	cond, args := w.Predicate("order_date", 1)

	statuses := []string{models.StatusDelivered}
	if w.Frame.MultiDay() {
		statuses = models.OrderStatuses
	}

	placeholders := make([]string, len(statuses))
	for i, s := range statuses {
		args = append(args, s)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}

	return Query{
		SQL: fmt.Sprintf(`SELECT COUNT(*) AS total_orders
FROM orders
WHERE %s AND status IN (%s)`, cond, strings.Join(placeholders, ", ")),
		Args: args,
	}
}

// DistinctCustomers counts distinct user ids with an order of any status in the window.
func DistinctCustomers(w timewindow.Window) Query {
	cond, args := w.Predicate("order_date", 1)
	return Query{
		SQL: fmt.Sprintf(`SELECT COUNT(DISTINCT user_id) AS total_customers
FROM orders
WHERE %s`, cond),
		Args: args,
	}
}

// RatedProducts counts distinct products with a rating recorded in the window.
func RatedProducts(w timewindow.Window) Query {
	cond, args := w.Predicate("created_at", 1)
	return Query{
		SQL: fmt.Sprintf(`SELECT COUNT(DISTINCT product_id) AS rated_products_count
FROM product_ratings
WHERE %s`, cond),
		Args: args,
	}
}

// TopProducts ranks live products by units sold, then rating. Products with no
// sales are kept with sold = 0. limit is clamped to [1, MaxTopProducts].
func TopProducts(limit int) Query {
	if limit <= 0 || limit > MaxTopProducts {
		limit = MaxTopProducts
	}
	return Query{
		SQL: `SELECT p.id, p.name, p.image_url, p.rating, COALESCE(SUM(op.quantity), 0) AS sold
FROM products p
LEFT JOIN ordered_products op ON p.id = op.product_id
WHERE p.deleted = FALSE
GROUP BY p.id, p.name, p.image_url, p.rating
ORDER BY sold DESC, p.rating DESC, p.id ASC
LIMIT $1`,
		Args: []any{limit},
	}
}

// TotalProducts counts live products.
func TotalProducts() Query {
	return Query{SQL: `SELECT COUNT(*) AS total_products FROM products WHERE deleted = FALSE`}
}

// TotalStock sums stock over live products.
func TotalStock() Query {
	return Query{SQL: `SELECT COALESCE(SUM(stock_quantity), 0) AS total_stock FROM products WHERE deleted = FALSE`}
}
