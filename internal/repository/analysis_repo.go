package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Deliberately expensive analysis queries, used only by the slow-query
// fault. Each one costs far more than the simple reads above; callers
// discard the rows and observe timing and row counts only.

const slowAnalysisQuery = `
	SELECT
	    i1.product_id,
	    i1.available_quantity,
	    i1.reserved_quantity,
	    i1.total_quantity,
	    i1.warehouse_location,
	    (SELECT COUNT(*) FROM inventory i2 WHERE i2.warehouse_location = i1.warehouse_location) AS warehouse_item_count,
	    (SELECT AVG(i3.available_quantity) FROM inventory i3 WHERE i3.warehouse_location = i1.warehouse_location) AS avg_warehouse_stock,
	    (SELECT SUM(i4.total_quantity) FROM inventory i4 WHERE i4.warehouse_location = i1.warehouse_location) AS total_warehouse_stock,
	    (SELECT COUNT(*) FROM inventory i5 WHERE i5.available_quantity < 10) AS low_stock_count,
	    (SELECT MAX(i6.last_updated_timestamp) FROM inventory i6) AS latest_update,
	    CASE
	        WHEN i1.available_quantity > (SELECT AVG(i7.available_quantity) FROM inventory i7) THEN 'HIGH'
	        WHEN i1.available_quantity < (SELECT AVG(i8.available_quantity) FROM inventory i8) * 0.5 THEN 'LOW'
	        ELSE 'MEDIUM'
	    END AS stock_level
	FROM inventory i1
	WHERE i1.product_id = $1
	ORDER BY (
	    SELECT COUNT(*)
	    FROM inventory i9
	    WHERE i9.warehouse_location = i1.warehouse_location
	    AND i9.available_quantity > i1.available_quantity
	)`

const slowTrendQuery = `
	WITH stock_analysis AS (
	    SELECT
	        i.product_id,
	        i.warehouse_location,
	        i.available_quantity,
	        i.total_quantity,
	        ROW_NUMBER() OVER (PARTITION BY i.warehouse_location ORDER BY i.available_quantity DESC) AS stock_rank,
	        LAG(i.available_quantity, 1, 0) OVER (PARTITION BY i.warehouse_location ORDER BY i.last_updated_timestamp) AS prev_quantity,
	        LEAD(i.available_quantity, 1, 0) OVER (PARTITION BY i.warehouse_location ORDER BY i.last_updated_timestamp) AS next_quantity,
	        AVG(i.available_quantity) OVER (PARTITION BY i.warehouse_location) AS avg_warehouse_stock,
	        SUM(i.total_quantity) OVER (PARTITION BY i.warehouse_location) AS total_warehouse_stock,
	        COUNT(*) OVER (PARTITION BY i.warehouse_location) AS warehouse_item_count
	    FROM inventory i
	)
	SELECT
	    sa.product_id,
	    sa.warehouse_location,
	    sa.available_quantity,
	    sa.stock_rank,
	    sa.prev_quantity,
	    sa.next_quantity,
	    sa.avg_warehouse_stock,
	    sa.total_warehouse_stock,
	    sa.warehouse_item_count,
	    (sa.available_quantity - sa.avg_warehouse_stock) AS stock_deviation,
	    CASE
	        WHEN sa.stock_rank <= sa.warehouse_item_count * 0.2 THEN 'TOP_20_PERCENT'
	        WHEN sa.stock_rank <= sa.warehouse_item_count * 0.5 THEN 'TOP_50_PERCENT'
	        ELSE 'BOTTOM_50_PERCENT'
	    END AS stock_category
	FROM stock_analysis sa
	WHERE sa.product_id = $1
	ORDER BY sa.stock_rank`

const slowDeepQuery = `
	SELECT
	    main.product_id,
	    main.available_quantity,
	    main.warehouse_location,
	    stats.total_items,
	    stats.avg_stock,
	    stats.min_stock,
	    stats.max_stock,
	    stats.std_dev_stock,
	    percentiles.p25,
	    percentiles.p50,
	    percentiles.p75,
	    percentiles.p90,
	    correlations.location_correlation,
	    trends.stock_trend
	FROM inventory main
	CROSS JOIN (
	    SELECT
	        COUNT(*) AS total_items,
	        AVG(available_quantity) AS avg_stock,
	        MIN(available_quantity) AS min_stock,
	        MAX(available_quantity) AS max_stock,
	        STDDEV(available_quantity) AS std_dev_stock
	    FROM inventory
	) stats
	CROSS JOIN (
	    SELECT
	        PERCENTILE_CONT(0.25) WITHIN GROUP (ORDER BY available_quantity) AS p25,
	        PERCENTILE_CONT(0.50) WITHIN GROUP (ORDER BY available_quantity) AS p50,
	        PERCENTILE_CONT(0.75) WITHIN GROUP (ORDER BY available_quantity) AS p75,
	        PERCENTILE_CONT(0.90) WITHIN GROUP (ORDER BY available_quantity) AS p90
	    FROM inventory
	) percentiles
	CROSS JOIN (
	    SELECT COALESCE(
	        (SELECT AVG(i1.available_quantity * i2.available_quantity)
	         FROM inventory i1
	         JOIN inventory i2 ON i1.warehouse_location = i2.warehouse_location
	         WHERE i1.product_id != i2.product_id), 0
	    ) AS location_correlation
	) correlations
	CROSS JOIN (
	    SELECT CASE
	        WHEN (SELECT COUNT(*) FROM inventory WHERE available_quantity > (SELECT AVG(available_quantity) FROM inventory)) >
	             (SELECT COUNT(*) FROM inventory WHERE available_quantity < (SELECT AVG(available_quantity) FROM inventory))
	        THEN 'INCREASING'
	        ELSE 'DECREASING'
	    END AS stock_trend
	) trends
	WHERE main.product_id = $1`

// SlowInventoryAnalysis runs the multi-level aggregation query for one product
func (r *LedgerRepository) SlowInventoryAnalysis(ctx context.Context, productID string) (int, error) {
	return r.countRows(ctx, "inventory analysis", slowAnalysisQuery, productID)
}

// SlowInventoryTrendAnalysis runs the windowed ranking query for one product
func (r *LedgerRepository) SlowInventoryTrendAnalysis(ctx context.Context, productID string) (int, error) {
	return r.countRows(ctx, "trend analysis", slowTrendQuery, productID)
}

// SlowInventoryDeepAnalysis runs the percentile and correlation query for one product
func (r *LedgerRepository) SlowInventoryDeepAnalysis(ctx context.Context, productID string) (int, error) {
	return r.countRows(ctx, "deep analysis", slowDeepQuery, productID)
}

func (r *LedgerRepository) countRows(ctx context.Context, name, query, productID string) (int, error) {
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID).Str("analysis", name).Msg("Failed to execute analysis query")
		return 0, fmt.Errorf("failed to execute %s query: %w", name, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("failed to scan %s rows: %w", name, err)
	}

	return count, nil
}
