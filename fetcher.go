package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://app.matchplay.events/api"

// Fetcher is what a run needs from the tournament API.
type Fetcher interface {
	FetchPlayers(ctx context.Context) ([]PlayerRecord, error)
	FetchGames(ctx context.Context) ([]GameRow, error)
	FetchStandings(ctx context.Context) ([]StandingEntry, error)
}

// Client talks to the MatchPlay API for a single tournament. Every CSV body it
// downloads is also saved to OutDir.
type Client struct {
	HTTP         *http.Client
	BaseURL      string
	Token        string
	TournamentID string
	OutDir       string
	Log          logrus.FieldLogger
}

func NewClient(creds Credentials, baseURL, outDir string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		HTTP:         &http.Client{Timeout: timeout},
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Token:        creds.APIToken,
		TournamentID: creds.TournamentID,
		OutDir:       outDir,
		Log:          log,
	}
}

// get downloads endpoint (like "tournaments/7/standings") and returns the
// body. kind labels the request metrics.
func (c *Client) get(ctx context.Context, kind, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+strings.TrimLeft(endpoint, "/"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json, text/csv, */*")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		fetchRequests.WithLabelValues(kind, "error").Inc()
		return nil, errors.Wrapf(err, "GET %s", endpoint)
	}
	defer resp.Body.Close()
	fetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	fetchRequests.WithLabelValues(kind, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode/100 != 2 {
		peek, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &RemoteRequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(peek)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", endpoint)
	}
	c.Log.Debugf("GET %s: %d bytes", endpoint, len(body))
	return body, nil
}

// fetchCSV downloads a CSV endpoint, saves the body verbatim as filename and
// returns the parsed rows.
func (c *Client) fetchCSV(ctx context.Context, kind, endpoint, filename string) ([]map[string]string, error) {
	body, err := c.get(ctx, kind, endpoint)
	if err != nil {
		return nil, err
	}

	if err := writeFile(filepath.Join(c.OutDir, filename), body); err != nil {
		return nil, errors.Wrapf(err, "save %s", filename)
	}
	c.Log.Infof("Saved %s", filename)

	rows, err := parseCSVRows(body)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	return rows, nil
}

func (c *Client) FetchPlayers(ctx context.Context) ([]PlayerRecord, error) {
	rows, err := c.fetchCSV(ctx, "players",
		fmt.Sprintf("tournaments/%s/players/csv", c.TournamentID),
		fmt.Sprintf("tournament_%s_players.csv", c.TournamentID),
	)
	if err != nil {
		return nil, err
	}
	return playerRecordsFromRows(rows), nil
}

func (c *Client) FetchGames(ctx context.Context) ([]GameRow, error) {
	rows, err := c.fetchCSV(ctx, "games",
		fmt.Sprintf("tournaments/%s/games/csv", c.TournamentID),
		fmt.Sprintf("tournament_%s_games.csv", c.TournamentID),
	)
	if err != nil {
		return nil, err
	}
	return gameRowsFromRows(rows), nil
}

func (c *Client) FetchStandings(ctx context.Context) ([]StandingEntry, error) {
	endpoint := fmt.Sprintf("tournaments/%s/standings", c.TournamentID)
	body, err := c.get(ctx, "standings", endpoint)
	if err != nil {
		return nil, err
	}
	standings, ok, err := decodeStandings(body)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.Log.Warnf("Unexpected standings payload from %s, continuing without standings", endpoint)
	}
	return standings, nil
}
