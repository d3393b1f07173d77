package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureEntries() []MergedEntry {
	return []MergedEntry{
		{PlayerID: "101", PlayerName: "Ann Lee", Points: 10, GamesPlayed: intPtr(4), Position: intPtr(1)},
		{PlayerID: "103", PlayerName: "Cy Ortiz", Points: 6.5, GamesPlayed: intPtr(3), Position: intPtr(2)},
		{PlayerID: "102", PlayerName: "Bo Chen", Points: 8, GamesPlayed: intPtr(2)},
		{PlayerID: "104", PlayerName: "Di Novak"},
	}
}

func TestPipeline_Run(t *testing.T) {
	server := newMatchPlayServer(t, nil)
	outDir := t.TempDir()

	p := &Pipeline{
		TournamentID: testTournamentID,
		OutDir:       outDir,
		XLSX:         true,
		Fetcher:      newTestClient(server.URL, outDir),
		Log:          newTestLogger(),
	}
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(fixtureEntries(), res.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{
		"tournament_4242_players.csv",
		"tournament_4242_games.csv",
		"tournament_4242_final.json",
		"tournament_4242_final.xlsx",
		"4242.html",
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	raw, err := os.ReadFile(res.JSONPath)
	require.NoError(t, err)
	var decoded []MergedEntry
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, fixtureEntries(), decoded)

	html, err := os.ReadFile(res.HTMLPath)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(html), "<div class='row'>"))
	assert.Empty(t, res.RunID)
}

type failingFetcher struct {
	calls  []string
	err    error
	failOn string
}

func (f *failingFetcher) FetchPlayers(ctx context.Context) ([]PlayerRecord, error) {
	f.calls = append(f.calls, "players")
	if f.failOn == "players" {
		return nil, f.err
	}
	return []PlayerRecord{{PlayerID: "1", PlayerName: "Ann"}}, nil
}

func (f *failingFetcher) FetchGames(ctx context.Context) ([]GameRow, error) {
	f.calls = append(f.calls, "games")
	if f.failOn == "games" {
		return nil, f.err
	}
	return nil, nil
}

func (f *failingFetcher) FetchStandings(ctx context.Context) ([]StandingEntry, error) {
	f.calls = append(f.calls, "standings")
	if f.failOn == "standings" {
		return nil, f.err
	}
	return nil, nil
}

func TestPipeline_RunStopsAtFirstError(t *testing.T) {
	outDir := t.TempDir()
	fetcher := &failingFetcher{
		failOn: "games",
		err:    &RemoteRequestError{Endpoint: "tournaments/1/games/csv", StatusCode: 500},
	}
	p := &Pipeline{TournamentID: "1", OutDir: outDir, Fetcher: fetcher, Log: newTestLogger()}

	_, err := p.Run(context.Background())

	var remote *RemoteRequestError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 500, remote.StatusCode)
	assert.Equal(t, []string{"players", "games"}, fetcher.calls)
	assert.NoFileExists(t, filepath.Join(outDir, "tournament_1_final.json"))
	assert.NoFileExists(t, filepath.Join(outDir, "1.html"))
}

func TestRun_MissingConfigNeverFetches(t *testing.T) {
	clearConfigEnv(t)
	var hits int32
	server := newMatchPlayServer(t, &hits)
	dir := t.TempDir()

	opts := Options{
		Config:  filepath.Join(dir, "config.ini"),
		OutDir:  dir,
		BaseURL: server.URL,
	}
	err := run(context.Background(), opts, strings.NewReader("n\n"), &strings.Builder{}, newTestLogger())

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, int32(0), hits)
	assert.NoFileExists(t, opts.Config)
}

func TestRun_NonInteractiveMissingConfig(t *testing.T) {
	clearConfigEnv(t)
	var hits int32
	server := newMatchPlayServer(t, &hits)
	dir := t.TempDir()

	opts := Options{
		Config:         filepath.Join(dir, "config.ini"),
		OutDir:         dir,
		BaseURL:        server.URL,
		NonInteractive: true,
	}
	err := run(context.Background(), opts, strings.NewReader("y\ntok\n1\n"), &strings.Builder{}, newTestLogger())

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, int32(0), hits)
}

func TestRun_EndToEnd(t *testing.T) {
	clearConfigEnv(t)
	var hits int32
	server := newMatchPlayServer(t, &hits)
	dir := t.TempDir()

	configPath := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(configPath, []byte("[matchplay]\napi_token = "+testToken+"\ntournament_id = "+testTournamentID+"\n"), 0o600))

	opts := Options{
		Config:         configPath,
		OutDir:         dir,
		BaseURL:        server.URL,
		NonInteractive: true,
		DB:             filepath.Join(dir, "scoreboard.db"),
	}
	require.NoError(t, run(context.Background(), opts, strings.NewReader(""), &strings.Builder{}, newTestLogger()))
	assert.Equal(t, int32(3), hits)

	archive, err := OpenArchive(opts.DB)
	require.NoError(t, err)
	defer archive.Close()

	entries, err := archive.LatestEntries(testTournamentID)
	require.NoError(t, err)
	assert.Equal(t, fixtureEntries(), entries)
}

type csvFetcher struct {
	players string
	games   string
}

func (f *csvFetcher) FetchPlayers(ctx context.Context) ([]PlayerRecord, error) {
	rows, err := parseCSVRows([]byte(f.players))
	return playerRecordsFromRows(rows), err
}

func (f *csvFetcher) FetchGames(ctx context.Context) ([]GameRow, error) {
	rows, err := parseCSVRows([]byte(f.games))
	return gameRowsFromRows(rows), err
}

func (f *csvFetcher) FetchStandings(ctx context.Context) ([]StandingEntry, error) {
	return nil, nil
}

func TestPipeline_RunNonFinitePoints(t *testing.T) {
	outDir := t.TempDir()
	p := &Pipeline{
		TournamentID: "5",
		OutDir:       outDir,
		Fetcher: &csvFetcher{
			players: "Player ID,Name\n1,Ann\n2,Bo\n",
			games:   "Player ID,Points\n1,NaN\n1,3\n2,inf\n2,-Infinity\n",
		},
		Log: newTestLogger(),
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []MergedEntry{
		{PlayerID: "1", PlayerName: "Ann", Points: 3, GamesPlayed: intPtr(2)},
		{PlayerID: "2", PlayerName: "Bo", Points: 0, GamesPlayed: intPtr(2)},
	}, res.Entries)

	raw, err := os.ReadFile(res.JSONPath)
	require.NoError(t, err)
	var decoded []MergedEntry
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, res.Entries, decoded)

	html, err := os.ReadFile(res.HTMLPath)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "NaN")
	assert.NotContains(t, string(html), "Inf")
}
