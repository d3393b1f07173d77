package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// decodeStandings accepts the bare array the API returns. An object wrapping
// the array under "data" is tolerated; anything else yields no standings.
func decodeStandings(body []byte) ([]StandingEntry, bool, error) {
	trim := bytes.TrimSpace(body)
	if len(trim) == 0 {
		return nil, true, nil
	}

	var raw json.RawMessage
	if err := json.Unmarshal(trim, &raw); err != nil {
		return nil, false, errors.Wrap(err, "decode standings")
	}

	switch trim[0] {
	case '[':
	case '{':
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trim, &env); err != nil || len(env.Data) == 0 || env.Data[0] != '[' {
			return nil, false, nil
		}
		trim = env.Data
	default:
		return nil, false, nil
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(trim, &items); err != nil {
		// Array of something other than objects.
		return nil, false, nil
	}

	entries := make([]StandingEntry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, StandingEntry{
			PlayerID:    jsonString(item["playerId"]),
			Points:      jsonFloat(item["points"]),
			GamesPlayed: jsonInt(item["gamesPlayed"]),
			Position:    jsonInt(item["position"]),
		})
	}
	return entries, true, nil
}

// jsonString renders a scalar the way the roster ids look: integers exactly
// as sent, other numbers without a trailing ".0", strings trimmed.
func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			return t.String()
		}
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func jsonFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		return ParsePoints(t)
	}
	return 0
}

func jsonInt(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		n := int(math.Trunc(t))
		return &n
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}
