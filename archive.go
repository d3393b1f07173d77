package main

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Archive keeps every run's scoreboard in sqlite. Runs accumulate; the row
// table only holds the latest scoreboard per tournament.
type Archive struct {
	db *gorm.DB
}

func OpenArchive(path string) (*Archive, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := applyMigrations(db); err != nil {
		return nil, err
	}
	return &Archive{db: db}, nil
}

func applyMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&ScoreboardRun{}, &ScoreboardRow{})
}

func (a *Archive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun records entries as a new run and makes them the tournament's
// current scoreboard.
func (a *Archive) SaveRun(tournamentID string, entries []MergedEntry) (*ScoreboardRun, error) {
	if entries == nil {
		entries = []MergedEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	run := &ScoreboardRun{
		RunID:        uuid.NewString(),
		TournamentID: tournamentID,
		PlayerCount:  len(entries),
		Entries:      datatypes.JSON(raw),
	}

	rows := make([]*ScoreboardRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, &ScoreboardRow{
			RunID:        run.RunID,
			TournamentID: tournamentID,
			Rank:         i + 1,
			PlayerID:     e.PlayerID,
			PlayerName:   e.PlayerName,
			Points:       e.Points,
			GamesPlayed:  e.GamesPlayed,
			Position:     e.Position,
		})
	}

	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("tournament_id = ?", tournamentID).Delete(&ScoreboardRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "archive run")
	}
	return run, nil
}

// LatestEntries returns the current scoreboard for a tournament in rank
// order. gorm.ErrRecordNotFound means the tournament was never archived.
func (a *Archive) LatestEntries(tournamentID string) ([]MergedEntry, error) {
	var count int64
	if err := a.db.Model(&ScoreboardRun{}).Where("tournament_id = ?", tournamentID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var rows []ScoreboardRow
	if err := a.db.Where("tournament_id = ?", tournamentID).Order("rank").Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]MergedEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].Entry())
	}
	return entries, nil
}

// Runs lists archived runs for a tournament, newest first.
func (a *Archive) Runs(tournamentID string) ([]ScoreboardRun, error) {
	var runs []ScoreboardRun
	err := a.db.Where("tournament_id = ?", tournamentID).Order("id desc").Find(&runs).Error
	return runs, err
}

// RunEntries decodes the scoreboard stored with a run.
func (r *ScoreboardRun) RunEntries() ([]MergedEntry, error) {
	var entries []MergedEntry
	if err := json.Unmarshal(r.Entries, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
