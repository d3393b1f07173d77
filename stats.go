package main

// AggregateGames totals points and counts game rows per player. It is only a
// fallback for players the standings leave empty.
func AggregateGames(games []GameRow) map[string]AggregatedStat {
	stats := make(map[string]AggregatedStat)
	for _, g := range games {
		if g.PlayerID == "" {
			continue
		}
		s := stats[g.PlayerID]
		s.Points += g.Points
		s.GamesPlayed++
		stats[g.PlayerID] = s
	}
	return stats
}
