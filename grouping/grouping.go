// Package grouping turns the flat visitor collection into the dashboard
// hierarchy: weeks -> (parties | singles) -> visitors. Everything here is a
// pure function over its input; nothing is mutated and nothing touches the
// database.
package grouping

import (
	"sort"
	"time"

	"protodesk/models"
)

// WeekGroup is one Sunday-through-Saturday bucket of arrivals. It is derived
// on every read, never persisted. A zero WeekStart marks the sentinel bucket
// for visitors whose arrival date is missing.
type WeekGroup struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Visitors  []models.Visitor
}

// Unscheduled reports whether this is the sentinel bucket.
func (wg WeekGroup) Unscheduled() bool {
	return wg.WeekStart.IsZero()
}

// Party is one partition of a week's visitors: either a travel group sharing
// a groupId, or a single ungrouped visitor. IsGroup is false for a group that
// has shrunk to one remaining member.
type Party struct {
	GroupID string
	Members []models.Visitor
	IsGroup bool
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the most recent Sunday at or before t, truncated to the
// calendar date. Every week computation in this package goes through here so
// bucketing and the today/this-week predicates cannot drift apart.
func WeekStart(t time.Time) time.Time {
	d := dateOnly(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekEnd returns the Saturday closing the week that contains t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// ByArrivalWeek buckets visitors into week windows keyed by the week's start
// date, ordered newest week first. Input order is preserved inside each
// bucket. Visitors with a missing (zero) arrival date land in a single
// "unscheduled" sentinel bucket that always sorts last.
func ByArrivalWeek(visitors []models.Visitor) []WeekGroup {
	var groups []WeekGroup
	index := make(map[time.Time]int)

	for _, v := range visitors {
		var start, end time.Time
		if !v.ArrivalDate.IsZero() {
			start = WeekStart(v.ArrivalDate)
			end = start.AddDate(0, 0, 6)
		}

		i, ok := index[start]
		if !ok {
			i = len(groups)
			index[start] = i
			groups = append(groups, WeekGroup{WeekStart: start, WeekEnd: end})
		}
		groups[i].Visitors = append(groups[i].Visitors, v)
	}

	// Newest week first; the zero-valued sentinel is minimal so it ends up last.
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].WeekStart.After(groups[b].WeekStart)
	})
	return groups
}

// PartitionByGroup splits one week's visitors into parties. Partitions appear
// in first-occurrence order of their groupId; that ordering is the contract,
// not an artifact of map iteration. Each ungrouped visitor is its own
// singleton partition. Within a keyed partition the leader sorts first and
// everything else keeps its input order.
func PartitionByGroup(visitors []models.Visitor) []Party {
	var parties []Party
	index := make(map[string]int)

	for _, v := range visitors {
		if v.GroupID == "" {
			parties = append(parties, Party{Members: []models.Visitor{v}})
			continue
		}
		i, ok := index[v.GroupID]
		if !ok {
			i = len(parties)
			index[v.GroupID] = i
			parties = append(parties, Party{GroupID: v.GroupID})
		}
		parties[i].Members = append(parties[i].Members, v)
	}

	for i := range parties {
		p := &parties[i]
		if p.GroupID == "" {
			continue
		}
		p.IsGroup = len(p.Members) > 1
		p.Members = leaderFirst(p.Members)
	}
	return parties
}

// leaderFirst moves flagged leaders ahead of the rest, keeping relative order
// on both sides. With zero or several leaders the result is still stable.
func leaderFirst(members []models.Visitor) []models.Visitor {
	out := make([]models.Visitor, 0, len(members))
	for _, m := range members {
		if m.IsGroupLeader {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return members
	}
	for _, m := range members {
		if !m.IsGroupLeader {
			out = append(out, m)
		}
	}
	return out
}

// InCurrentWeek reports whether the visitor arrives within the Sunday-to-
// Saturday window containing now.
func InCurrentWeek(v models.Visitor, now time.Time) bool {
	if v.ArrivalDate.IsZero() {
		return false
	}
	start := WeekStart(now)
	end := start.AddDate(0, 0, 6)
	d := dateOnly(v.ArrivalDate)
	return !d.Before(start) && !d.After(end)
}

// ArrivesToday reports whether the visitor's arrival date is now's calendar
// date.
func ArrivesToday(v models.Visitor, now time.Time) bool {
	if v.ArrivalDate.IsZero() {
		return false
	}
	return dateOnly(v.ArrivalDate).Equal(dateOnly(now))
}
