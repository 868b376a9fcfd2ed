package orders

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// ListDeliveries filters by exact estado ("" or "todas" returns everything)
// and sorts by scheduled date, soonest first.
func (c *Conf) ListDeliveries(ctx context.Context, status string) ([]Delivery, error) {
	all, err := c.deliveries.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}

	filtered := make([]Delivery, 0, len(all))
	for _, d := range all {
		if status != "" && status != "todas" && d.Status != status {
			continue
		}
		filtered = append(filtered, d)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date)
	})
	return filtered, nil
}

// DeliveriesForDay compares calendar dates only, ignoring time of day.
func (c *Conf) DeliveriesForDay(ctx context.Context, day time.Time) ([]Delivery, error) {
	all, err := c.deliveries.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}

	matching := make([]Delivery, 0)
	for _, d := range all {
		if sameDay(d.Date, day) {
			matching = append(matching, d)
		}
	}
	return matching, nil
}

// DeliverySummary counts deliveries scheduled for today, the current
// Sunday-to-Saturday week and the current calendar month. The buckets are
// independent, so one delivery can count in all three.
func (c *Conf) DeliverySummary(ctx context.Context) (DeliverySummary, error) {
	all, err := c.deliveries.Load(ctx)
	if err != nil {
		return DeliverySummary{}, fmt.Errorf("load deliveries: %w", err)
	}

	now := c.clock.Now().UTC()
	weekStart := startOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var summary DeliverySummary
	for _, d := range all {
		if sameDay(d.Date, now) {
			summary.Today++
		}
		if !d.Date.Before(weekStart) && d.Date.Before(weekEnd) {
			summary.Week++
		}
		if !d.Date.Before(monthStart) && d.Date.Before(monthEnd) {
			summary.Month++
		}
	}
	return summary, nil
}
