package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Pipeline produces the scoreboard files for one tournament.
type Pipeline struct {
	TournamentID string
	OutDir       string
	XLSX         bool
	Fetcher      Fetcher
	Archive      *Archive
	Log          logrus.FieldLogger
}

type RunResult struct {
	Entries  []MergedEntry
	JSONPath string
	HTMLPath string
	XLSXPath string
	RunID    string
}

// Run fetches players, games and standings one after another, merges them and
// writes the outputs. The first error aborts the run; files already written
// are left in place.
func (p *Pipeline) Run(ctx context.Context) (res *RunResult, err error) {
	defer func() {
		if err != nil {
			runsTotal.WithLabelValues("error").Inc()
		} else {
			runsTotal.WithLabelValues("ok").Inc()
		}
	}()

	players, err := p.Fetcher.FetchPlayers(ctx)
	if err != nil {
		return nil, err
	}
	games, err := p.Fetcher.FetchGames(ctx)
	if err != nil {
		return nil, err
	}
	standings, err := p.Fetcher.FetchStandings(ctx)
	if err != nil {
		return nil, err
	}
	p.Log.Debugf("Fetched %d players, %d game rows, %d standings", len(players), len(games), len(standings))

	entries := MergeStandings(players, standings, AggregateGames(games))
	lastRunPlayers.Set(float64(len(entries)))

	res = &RunResult{
		Entries:  entries,
		JSONPath: filepath.Join(p.OutDir, fmt.Sprintf("tournament_%s_final.json", p.TournamentID)),
		HTMLPath: filepath.Join(p.OutDir, fmt.Sprintf("%s.html", p.TournamentID)),
	}

	if err := writeFileFunc(res.JSONPath, func(w io.Writer) error {
		return RenderJSON(w, entries)
	}); err != nil {
		return nil, errors.Wrap(err, "write json")
	}
	p.Log.Infof("Saved JSON: %s", res.JSONPath)

	if err := writeFileFunc(res.HTMLPath, func(w io.Writer) error {
		return RenderHTML(w, p.TournamentID, entries)
	}); err != nil {
		return nil, errors.Wrap(err, "write html")
	}
	p.Log.Infof("HTML scoreboard generated: %s", res.HTMLPath)

	if p.XLSX {
		res.XLSXPath = filepath.Join(p.OutDir, fmt.Sprintf("tournament_%s_final.xlsx", p.TournamentID))
		if err := writeFileFunc(res.XLSXPath, func(w io.Writer) error {
			return RenderXLSX(w, p.TournamentID, entries)
		}); err != nil {
			return nil, errors.Wrap(err, "write xlsx")
		}
		p.Log.Infof("Saved XLSX: %s", res.XLSXPath)
	}

	if p.Archive != nil {
		run, err := p.Archive.SaveRun(p.TournamentID, entries)
		if err != nil {
			return nil, err
		}
		res.RunID = run.RunID
		p.Log.Infof("Archived run %s", run.RunID)
	}

	return res, nil
}
