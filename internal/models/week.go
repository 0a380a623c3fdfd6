package models

// GroupWeek is a bounded voting period scoped to one group.
// At most one week per group has IsActive set at any time.
type GroupWeek struct {
	ID         string
	GroupID    string
	WeekNumber int
	Year       int

	// WeekStart and WeekEnd are Unix timestamps bounding the period.
	WeekStart int64
	WeekEnd   int64

	IsActive  bool
	CreatedAt int64
}
