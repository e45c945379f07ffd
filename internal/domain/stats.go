package domain

// ReservationStats aggregate counters over the reservation set.
// Computed in a single read pass, so the counts and the revenue are
// consistent with each other.
type ReservationStats struct {
	Total        int64
	Pending      int64
	Confirmed    int64
	Cancelled    int64
	Completed    int64
	TotalRevenue float64 // sum of TotalPrice over confirmed and completed
}

// StatusCount пара статус/количество, возвращаемая хранилищем
type StatusCount struct {
	Status ReservationStatus
	Count  int64
	Sum    float64 // сумма total_price по статусу
}

// BuildStats собирает агрегат из построчной выборки GROUP BY status
func BuildStats(rows []StatusCount) ReservationStats {
	var stats ReservationStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case StatusPending:
			stats.Pending = row.Count
		case StatusConfirmed:
			stats.Confirmed = row.Count
			stats.TotalRevenue += row.Sum
		case StatusCancelled:
			stats.Cancelled = row.Count
		case StatusCompleted:
			stats.Completed = row.Count
			stats.TotalRevenue += row.Sum
		}
	}
	return stats
}
