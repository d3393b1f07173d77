package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/template"
)

// RenderJSON writes the full entry list as an indented JSON array.
func RenderJSON(w io.Writer, entries []MergedEntry) error {
	if entries == nil {
		entries = []MergedEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(entries)
}

// Player names are written unescaped. A name containing markup will break the
// page.
var scoreboardTemplate = template.Must(template.New("scoreboard").Funcs(template.FuncMap{
	"orDash": orDash,
	"points": formatPoints,
}).Parse(`<!DOCTYPE html>
<html lang='en'>
<head>
<meta charset='UTF-8'>
<meta name='viewport' content='width=device-width, initial-scale=1.0'>
<title>{{.Title}}</title>
<style>
body {font-family: Arial, sans-serif; background:#111; color:#fff; padding:20px;}
.scoreboard {max-width:600px; margin:auto;}
.header, .row {display:flex; justify-content:space-between; align-items:center; padding:10px; border-radius:10px; margin-bottom:8px;}
.header {background:#007bff; font-weight:bold; position:sticky; top:0;}
.row {background:#222; transition:transform 0.2s;}
.row:hover {transform:scale(1.02);}
.position {width:50px; text-align:center;}
.player-name {flex:1; text-align:left; padding:0 10px; font-weight:bold;}
.games-played, .points {width:60px; text-align:center;}
.points {color:#ffd700; font-weight:bold;}
</style>
</head>
<body>
<div class='scoreboard'>
<div class='header'><div class='position'>Rank</div><div class='player-name'>Player</div><div class='games-played'>Games</div><div class='points'>Points</div></div>
{{range .Entries}}<div class='row'><div class='position'>{{orDash .Position}}</div><div class='player-name'>{{.PlayerName}}</div><div class='games-played'>{{orDash .GamesPlayed}}</div><div class='points'>{{points .Points}}</div></div>{{end}}</div></body></html>`))

// RenderHTML writes the static scoreboard page.
func RenderHTML(w io.Writer, title string, entries []MergedEntry) error {
	return scoreboardTemplate.Execute(w, struct {
		Title   string
		Entries []MergedEntry
	}{title, entries})
}

func orDash(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatPoints(f float64) string {
	return fmt.Sprintf("%.1f", f)
}
