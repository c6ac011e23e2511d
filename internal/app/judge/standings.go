package judge

import (
	"sort"

	"contest_judge/internal/domain/model"
)

const MaxLeaderboardRows = 100

// RankStandings folds first acceptances into one row per user, ordered by solved count (desc) and then by
// the time of the user's last first-acceptance (asc). Display fields are left empty.
func RankStandings(firsts []model.FirstAcceptance, limit int) []model.LeaderboardEntry {
	byUser := make(map[string]*model.LeaderboardEntry)
	for _, fa := range firsts {
		entry, ok := byUser[fa.UserID]
		if !ok {
			entry = &model.LeaderboardEntry{UserID: fa.UserID}
			byUser[fa.UserID] = entry
		}
		entry.Solved++
		if fa.FirstAcceptedAt.After(entry.LastAcceptedAt) {
			entry.LastAcceptedAt = fa.FirstAcceptedAt
		}
	}

	rows := make([]model.LeaderboardEntry, 0, len(byUser))
	for _, entry := range byUser {
		rows = append(rows, *entry)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Solved != rows[j].Solved {
			return rows[i].Solved > rows[j].Solved
		}
		if !rows[i].LastAcceptedAt.Equal(rows[j].LastAcceptedAt) {
			return rows[i].LastAcceptedAt.Before(rows[j].LastAcceptedAt)
		}
		return rows[i].UserID < rows[j].UserID
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
