package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const scoreboardSheet = "Scoreboard"

// RenderXLSX writes the scoreboard table to a single-sheet workbook.
func RenderXLSX(w io.Writer, title string, entries []MergedEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), scoreboardSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: title}); err != nil {
		return errors.Wrap(err, "set doc props")
	}

	header := []any{"Rank", "Player", "Games", "Points"}
	if err := f.SetSheetRow(scoreboardSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, e := range entries {
		row := []any{orDash(e.Position), e.PlayerName, orDash(e.GamesPlayed), e.Points}
		if e.Position != nil {
			row[0] = *e.Position
		}
		if e.GamesPlayed != nil {
			row[2] = *e.GamesPlayed
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(scoreboardSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 0, CustomNumFmt: strPtr("0.0")})
	if err != nil {
		return errors.Wrap(err, "points style")
	}
	if len(entries) > 0 {
		last, _ := excelize.CoordinatesToCellName(4, len(entries)+1)
		if err := f.SetCellStyle(scoreboardSheet, "D2", last, style); err != nil {
			return errors.Wrap(err, "apply points style")
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func strPtr(s string) *string {
	return &s
}
