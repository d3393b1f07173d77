package main

import (
	"sort"
)

// unrankedPosition sorts players without a standings position after everyone
// who has one.
const unrankedPosition = 9999

// MergeStandings builds one entry per roster player, in roster order, and
// returns them ranked. Standings and game stats for ids outside the roster
// are ignored.
func MergeStandings(roster []PlayerRecord, standings []StandingEntry, stats map[string]AggregatedStat) []MergedEntry {
	byID := make(map[string]*StandingEntry, len(standings))
	for i := range standings {
		id := standings[i].PlayerID
		if _, ok := byID[id]; !ok {
			byID[id] = &standings[i]
		}
	}

	players := dedupeRoster(roster)
	merged := make([]MergedEntry, 0, len(players))
	for _, p := range players {
		merged = append(merged, mergeEntry(p, byID[p.PlayerID], lookupStat(stats, p.PlayerID)))
	}

	SortEntries(merged)
	return merged
}

// dedupeRoster keeps each id once, at the position it was first seen, with
// the last name seen for it.
func dedupeRoster(roster []PlayerRecord) []PlayerRecord {
	index := make(map[string]int, len(roster))
	out := make([]PlayerRecord, 0, len(roster))
	for _, p := range roster {
		if p.PlayerID == "" {
			continue
		}
		if i, ok := index[p.PlayerID]; ok {
			out[i].PlayerName = p.PlayerName
			continue
		}
		index[p.PlayerID] = len(out)
		out = append(out, p)
	}
	return out
}

func lookupStat(stats map[string]AggregatedStat, id string) *AggregatedStat {
	s, ok := stats[id]
	if !ok {
		return nil
	}
	return &s
}

func mergeEntry(p PlayerRecord, standing *StandingEntry, stat *AggregatedStat) MergedEntry {
	var (
		standingPoints *float64
		standingGames  *int
		derivedPoints  *float64
		derivedGames   *int
		position       *int
	)
	if standing != nil {
		standingPoints = &standing.Points
		standingGames = standing.GamesPlayed
		position = standing.Position
	}
	if stat != nil {
		derivedPoints = &stat.Points
		derivedGames = &stat.GamesPlayed
	}

	return MergedEntry{
		PlayerID:    p.PlayerID,
		PlayerName:  p.PlayerName,
		Points:      resolvePoints(standingPoints, derivedPoints),
		GamesPlayed: resolveGamesPlayed(standingGames, derivedGames),
		Position:    copyInt(position),
	}
}

// resolvePoints picks the reported standings value unless it is missing or
// exactly zero, in which case the game-derived total takes over. A reported
// zero is indistinguishable from "not yet scored".
func resolvePoints(standing, derived *float64) float64 {
	if standing != nil && *standing != 0 {
		return *standing
	}
	if derived != nil {
		return *derived
	}
	return 0
}

// resolveGamesPlayed prefers the standings count and falls back to the number
// of game rows only when standings give none.
func resolveGamesPlayed(standing, derived *int) *int {
	if standing != nil {
		return copyInt(standing)
	}
	return copyInt(derived)
}

// SortEntries orders by position (unranked last), then points descending,
// then games played descending. Equal keys keep their input order.
func SortEntries(entries []MergedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := positionKey(entries[i]), positionKey(entries[j])
		if pi != pj {
			return pi < pj
		}
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return gamesKey(entries[i]) > gamesKey(entries[j])
	})
}

func positionKey(e MergedEntry) int {
	if e.Position == nil {
		return unrankedPosition
	}
	return *e.Position
}

func gamesKey(e MergedEntry) int {
	if e.GamesPlayed == nil {
		return 0
	}
	return *e.GamesPlayed
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
