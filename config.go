package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const (
	configSection = "matchplay"
	serverSection = "server"

	tokenPlaceholder      = "YOUR_API_TOKEN_HERE"
	tournamentPlaceholder = "YOUR_TOURNAMENT_ID_HERE"

	envAPIToken     = "MATCHPLAY_API_TOKEN"
	envTournamentID = "MATCHPLAY_TOURNAMENT_ID"
	envJWTSecret    = "SCOREBOARD_JWT_SECRET"
)

// ConfigSource says where credentials come from. In and Out are only used
// when the config file is missing and Interactive is set.
type ConfigSource struct {
	Path        string
	EnvFile     string
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// LoadCredentials is the only place configuration is read. Values from the
// environment (or EnvFile) override the config file.
func LoadCredentials(src ConfigSource) (Credentials, error) {
	env, err := readEnv(src.EnvFile)
	if err != nil {
		return Credentials{}, err
	}
	envToken, envTournament := env(envAPIToken), env(envTournamentID)

	var creds Credentials
	_, statErr := os.Stat(src.Path)
	switch {
	case statErr == nil:
		c, err := readConfigFile(src.Path)
		if err != nil {
			return Credentials{}, err
		}
		creds = c
	case !os.IsNotExist(statErr):
		return Credentials{}, errors.Wrapf(statErr, "stat %s", src.Path)
	case envToken != "" && envTournament != "":
	default:
		c, err := createConfigFile(src)
		if err != nil {
			return Credentials{}, err
		}
		creds = c
	}

	if envToken != "" {
		creds.APIToken = envToken
	}
	if envTournament != "" {
		creds.TournamentID = envTournament
	}
	if s := env(envJWTSecret); s != "" {
		creds.JWTSecret = s
	}

	if err := validateCredentials(creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func validateCredentials(c Credentials) error {
	if c.APIToken == "" || strings.Contains(c.APIToken, tokenPlaceholder) ||
		c.TournamentID == "" || strings.Contains(c.TournamentID, tournamentPlaceholder) {
		return &ConfigurationError{Reason: "missing or placeholder values in config"}
	}
	return nil
}

func readConfigFile(path string) (Credentials, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Credentials{}, &ConfigurationError{Reason: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	sec := cfg.Section(configSection)
	return Credentials{
		APIToken:     strings.TrimSpace(sec.Key("api_token").String()),
		TournamentID: strings.TrimSpace(sec.Key("tournament_id").String()),
		JWTSecret:    strings.TrimSpace(cfg.Section(serverSection).Key("jwt_secret").String()),
	}, nil
}

func createConfigFile(src ConfigSource) (Credentials, error) {
	if !src.Interactive || src.In == nil {
		return Credentials{}, &ConfigurationError{Reason: fmt.Sprintf("config file not found at %s", src.Path)}
	}
	out := src.Out
	if out == nil {
		out = io.Discard
	}
	in := bufio.NewReader(src.In)

	fmt.Fprintf(out, "Config file not found at %s.\n", src.Path)
	answer := prompt(in, out, "Would you like to create one now? (y/n): ")
	if strings.ToLower(answer) != "y" {
		return Credentials{}, &ConfigurationError{Reason: "config file is required"}
	}

	creds := Credentials{
		APIToken:     prompt(in, out, "Enter your MatchPlay API token: "),
		TournamentID: prompt(in, out, "Enter your tournament ID: "),
	}

	cfg := ini.Empty()
	sec, err := cfg.NewSection(configSection)
	if err != nil {
		return Credentials{}, err
	}
	if _, err := sec.NewKey("api_token", creds.APIToken); err != nil {
		return Credentials{}, err
	}
	if _, err := sec.NewKey("tournament_id", creds.TournamentID); err != nil {
		return Credentials{}, err
	}
	if err := cfg.SaveTo(src.Path); err != nil {
		return Credentials{}, errors.Wrapf(err, "write %s", src.Path)
	}
	fmt.Fprintf(out, "Config file created at %s\n", src.Path)
	return creds, nil
}

func prompt(in *bufio.Reader, out io.Writer, question string) string {
	fmt.Fprint(out, question)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// readEnv returns a lookup that prefers the process environment over the
// optional dotenv file. A missing file is fine; one that cannot be parsed is
// a configuration error.
func readEnv(envFile string) (func(string) string, error) {
	fileVals := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVals = vals
		case !os.IsNotExist(err):
			return nil, &ConfigurationError{Reason: fmt.Sprintf("cannot read %s: %v", envFile, err)}
		}
	}
	return func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(fileVals[key])
	}, nil
}
