package main

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	playerIDHeaders   = []string{"Player id", "Player ID"}
	playerNameHeaders = []string{"Player name", "Name"}
	pointsHeaders     = []string{"Points"}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCSVRows reads a CSV document with a header line and returns one map per
// data row. Keys and values are trimmed. Short rows get "" for the missing
// cells and cells beyond the header are ignored.
func parseCSVRows(body []byte) ([]map[string]string, error) {
	body = bytes.TrimPrefix(body, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv row")
		}

		row := make(map[string]string, len(header))
		for i, key := range header {
			val := ""
			if i < len(record) {
				val = strings.TrimSpace(record[i])
			}
			row[key] = val
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// lookupField returns the first non-empty value among the accepted header
// spellings. Exact matches win, then a case-insensitive match.
func lookupField(row map[string]string, names ...string) string {
	for _, name := range names {
		if v := row[name]; v != "" {
			return v
		}
	}
	for _, name := range names {
		for k, v := range row {
			if v != "" && strings.EqualFold(k, name) {
				return v
			}
		}
	}
	return ""
}

func playerRecordsFromRows(rows []map[string]string) []PlayerRecord {
	records := make([]PlayerRecord, 0, len(rows))
	for _, row := range rows {
		id := lookupField(row, playerIDHeaders...)
		if id == "" {
			continue
		}
		records = append(records, PlayerRecord{
			PlayerID:   id,
			PlayerName: lookupField(row, playerNameHeaders...),
		})
	}
	return records
}

func gameRowsFromRows(rows []map[string]string) []GameRow {
	games := make([]GameRow, 0, len(rows))
	for _, row := range rows {
		id := lookupField(row, playerIDHeaders...)
		if id == "" {
			continue
		}
		games = append(games, GameRow{
			PlayerID: id,
			Points:   ParsePoints(lookupField(row, pointsHeaders...)),
		})
	}
	return games
}

// ParsePoints never fails: empty, malformed or non-finite values count as
// zero.
func ParsePoints(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
