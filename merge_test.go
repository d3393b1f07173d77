package main

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMergeStandings_Scenario(t *testing.T) {
	roster := []PlayerRecord{
		{PlayerID: "1", PlayerName: "Ann"},
		{PlayerID: "2", PlayerName: "Bo"},
	}
	standings := []StandingEntry{
		{PlayerID: "1", Points: 10, GamesPlayed: intPtr(4), Position: intPtr(1)},
	}
	games := gameRowsFromRows([]map[string]string{
		{"Player ID": "2", "Points": "5"},
		{"Player ID": "2", "Points": "3"},
	})

	got := MergeStandings(roster, standings, AggregateGames(games))

	want := []MergedEntry{
		{PlayerID: "1", PlayerName: "Ann", Points: 10, GamesPlayed: intPtr(4), Position: intPtr(1)},
		{PlayerID: "2", PlayerName: "Bo", Points: 8, GamesPlayed: intPtr(2), Position: nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeStandings mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeStandings_ZeroPointsFallBackToGames(t *testing.T) {
	roster := []PlayerRecord{{PlayerID: "1", PlayerName: "Ann"}}
	stats := map[string]AggregatedStat{"1": {Points: 12.5, GamesPlayed: 5}}

	got := MergeStandings(roster, []StandingEntry{{PlayerID: "1", Points: 0, Position: intPtr(3)}}, stats)
	assert.Equal(t, 12.5, got[0].Points)
	assert.Equal(t, intPtr(5), got[0].GamesPlayed)
	assert.Equal(t, intPtr(3), got[0].Position)

	got = MergeStandings(roster, []StandingEntry{{PlayerID: "1", Points: 3, GamesPlayed: intPtr(2)}}, stats)
	assert.Equal(t, 3.0, got[0].Points)
	assert.Equal(t, intPtr(2), got[0].GamesPlayed)
}

func TestMergeStandings_NoDataDefaults(t *testing.T) {
	got := MergeStandings([]PlayerRecord{{PlayerID: "9", PlayerName: "Zed"}}, nil, nil)

	assert.Equal(t, []MergedEntry{{PlayerID: "9", PlayerName: "Zed"}}, got)
}

func TestMergeStandings_FirstStandingWins(t *testing.T) {
	roster := []PlayerRecord{{PlayerID: "1", PlayerName: "Ann"}}
	standings := []StandingEntry{
		{PlayerID: "1", Points: 4, Position: intPtr(2)},
		{PlayerID: "1", Points: 9, Position: intPtr(1)},
	}

	got := MergeStandings(roster, standings, nil)
	assert.Equal(t, 4.0, got[0].Points)
	assert.Equal(t, intPtr(2), got[0].Position)
}

func TestMergeStandings_DuplicateRosterIDs(t *testing.T) {
	roster := []PlayerRecord{
		{PlayerID: "1", PlayerName: "Ann"},
		{PlayerID: "2", PlayerName: "Bo"},
		{PlayerID: "1", PlayerName: "Ann L."},
	}

	got := MergeStandings(roster, nil, nil)
	assert.Len(t, got, 2)
	assert.Equal(t, "Ann L.", got[0].PlayerName)
	assert.Equal(t, "Bo", got[1].PlayerName)
}

func TestMergeStandings_RosterDrivesOutput(t *testing.T) {
	faker := gofakeit.New(7)

	var roster []PlayerRecord
	inRoster := map[string]bool{}
	for i := 0; i < 40; i++ {
		id := strconv.Itoa(faker.IntRange(1, 60))
		roster = append(roster, PlayerRecord{PlayerID: id, PlayerName: faker.Name()})
		inRoster[id] = true
	}

	var standings []StandingEntry
	var games []GameRow
	for i := 1; i <= 80; i++ {
		id := strconv.Itoa(i)
		if faker.Bool() {
			standings = append(standings, StandingEntry{
				PlayerID: id,
				Points:   float64(faker.IntRange(0, 30)),
				Position: intPtr(faker.IntRange(1, 80)),
			})
		}
		for g := faker.IntRange(0, 4); g > 0; g-- {
			games = append(games, GameRow{PlayerID: id, Points: float64(faker.IntRange(0, 7))})
		}
	}

	got := MergeStandings(roster, standings, AggregateGames(games))

	seen := map[string]int{}
	for _, e := range got {
		assert.True(t, inRoster[e.PlayerID], "unexpected player %s", e.PlayerID)
		seen[e.PlayerID]++
	}
	assert.Len(t, seen, len(inRoster))
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %s appears %d times", id, n)
	}
}

func Test_resolvePoints(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, 3.0, resolvePoints(f(3), f(12.5)))
	assert.Equal(t, 12.5, resolvePoints(f(0), f(12.5)))
	assert.Equal(t, 12.5, resolvePoints(nil, f(12.5)))
	assert.Equal(t, 0.0, resolvePoints(f(0), nil))
	assert.Equal(t, -2.0, resolvePoints(f(-2), f(12.5)))
	assert.Equal(t, 0.0, resolvePoints(nil, nil))
}

func Test_resolveGamesPlayed(t *testing.T) {
	assert.Equal(t, intPtr(4), resolveGamesPlayed(intPtr(4), intPtr(2)))
	assert.Equal(t, intPtr(0), resolveGamesPlayed(intPtr(0), intPtr(2)))
	assert.Equal(t, intPtr(2), resolveGamesPlayed(nil, intPtr(2)))
	assert.Nil(t, resolveGamesPlayed(nil, nil))
}

func TestSortEntries(t *testing.T) {
	entries := []MergedEntry{
		{PlayerID: "a", Points: 50},
		{PlayerID: "b", Points: 1, Position: intPtr(2)},
		{PlayerID: "c", Points: 5, GamesPlayed: intPtr(3)},
		{PlayerID: "d", Points: 5, GamesPlayed: intPtr(4)},
		{PlayerID: "e", Points: 0, Position: intPtr(1)},
		{PlayerID: "f", Points: 5},
		{PlayerID: "g", Points: 5, GamesPlayed: intPtr(0)},
	}

	SortEntries(entries)

	var order []string
	for _, e := range entries {
		order = append(order, e.PlayerID)
	}
	assert.Equal(t, []string{"e", "b", "a", "d", "c", "f", "g"}, order)
}

func TestSortEntries_UnrankedAlwaysLast(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	var entries []MergedEntry
	for i := 0; i < 200; i++ {
		e := MergedEntry{PlayerID: strconv.Itoa(i), Points: float64(r.Intn(1000))}
		if r.Intn(2) == 0 {
			e.Position = intPtr(r.Intn(500) + 1)
		}
		entries = append(entries, e)
	}

	SortEntries(entries)

	seenUnranked := false
	for _, e := range entries {
		if e.Position == nil {
			seenUnranked = true
			continue
		}
		assert.False(t, seenUnranked, "ranked player %s after an unranked one", e.PlayerID)
	}
}

func TestSortEntries_Idempotent(t *testing.T) {
	faker := gofakeit.New(11)
	var entries []MergedEntry
	for i := 0; i < 100; i++ {
		e := MergedEntry{
			PlayerID:   strconv.Itoa(i),
			PlayerName: faker.Name(),
			Points:     float64(faker.IntRange(0, 5)),
		}
		if faker.Bool() {
			e.Position = intPtr(faker.IntRange(1, 5))
		}
		if faker.Bool() {
			e.GamesPlayed = intPtr(faker.IntRange(0, 3))
		}
		entries = append(entries, e)
	}

	SortEntries(entries)
	again := append([]MergedEntry(nil), entries...)
	SortEntries(again)

	if diff := cmp.Diff(entries, again); diff != "" {
		t.Errorf("re-sorting changed the order (-first +second):\n%s", diff)
	}
}
