package metrics

import "database/sql"

// Aggregate queries over empty tables return NULL for SUM, AVG, MIN and MAX.
// These helpers collapse NULL to zero so every result field stays numeric.

func f64(v sql.NullFloat64) float64 {
	if v.Valid {
		return v.Float64
	}
	return 0
}

func i64(v sql.NullInt64) int64 {
	if v.Valid {
		return v.Int64
	}
	return 0
}
