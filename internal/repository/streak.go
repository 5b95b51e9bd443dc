package repository

import "time"

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// consecutiveDayStreak counts consecutive calendar days with activity,
// anchored at today or yesterday. A streak whose most recent day is older
// than yesterday has already broken and counts as zero.
func consecutiveDayStreak(days []time.Time, today time.Time) int {
	set := make(map[time.Time]bool, len(days))
	for _, d := range days {
		set[dateOf(d)] = true
	}

	anchor := dateOf(today)
	if !set[anchor] {
		anchor = anchor.AddDate(0, 0, -1)
		if !set[anchor] {
			return 0
		}
	}

	streak := 0
	for set[anchor] {
		streak++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return streak
}

// longestDayStreak finds the longest run of consecutive activity days ever
// recorded, regardless of when it happened.
func longestDayStreak(days []time.Time) int {
	set := make(map[time.Time]bool, len(days))
	for _, d := range days {
		set[dateOf(d)] = true
	}

	longest := 0
	for d := range set {
		// Only start counting from the first day of a run.
		if set[d.AddDate(0, 0, -1)] {
			continue
		}
		length := 0
		for cur := d; set[cur]; cur = cur.AddDate(0, 0, 1) {
			length++
		}
		if length > longest {
			longest = length
		}
	}
	return longest
}
