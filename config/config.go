// Package config assembles runtime settings from defaults, an optional .env file, the environment and flags
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lixenwraith/stacker/audio"
	"github.com/lixenwraith/stacker/engine"
	"github.com/lixenwraith/stacker/network"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "STACKER_"

// Environment keys, without EnvPrefix
const (
	KeyEnvFile     = "ENV_FILE"
	KeyGame        = "GAME"
	KeyPlayer      = "PLAYER"
	KeySession     = "SESSION"
	KeyAPIBase     = "API_BASE"
	KeyStoreURL    = "STORE_URL"
	KeyScoreURL    = "SCORE_URL"
	KeyRealtimeURL = "REALTIME_URL"
	KeyTuningFile  = "TUNING_FILE"
	KeyAudio       = "AUDIO"
	KeyVolume      = "VOLUME"
	KeyDebug       = "DEBUG"
)

// DefaultGame is the leaderboard game id used when none is configured
const DefaultGame = "stacker"

// Config is the resolved runtime configuration
type Config struct {
	Game   string
	Player string // Overrides the identity claimed by the session token

	// SessionToken is the ambient bearer token, with or without the Bearer prefix
	SessionToken string

	// APIBase points every collaborator at one local stack; explicit URLs win over it
	APIBase     string
	StoreURL    string
	ScoreURL    string
	RealtimeURL string

	EnvFile    string
	TuningFile string
	Tuning     engine.Tuning

	Audio audio.Config
	Debug bool
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Game:    DefaultGame,
		EnvFile: ".env",
		Tuning:  engine.DefaultTuning(),
		Audio:   *audio.DefaultConfig(),
	}
}

var ErrInvalidValue = errors.New("invalid config value")

// Load resolves configuration in order: defaults, .env file, STACKER_* environment, then args
// A missing .env file is not an error; a malformed one is
func Load(args []string) (*Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv(EnvPrefix + KeyEnvFile); ok {
		cfg.EnvFile = v
	}
	file, err := readEnvFile(cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	env := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := file[EnvPrefix+key]
		return v, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	if cfg.TuningFile != "" {
		if err := LoadTuning(cfg.TuningFile, &cfg.Tuning); err != nil {
			return nil, err
		}
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("config: tuning: %w", err)
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		return nil, fmt.Errorf("%w: volume %.2f outside 0-1", ErrInvalidValue, cfg.Audio.Volume)
	}
	cfg.Game = strings.TrimSpace(cfg.Game)
	if cfg.Game == "" {
		return nil, fmt.Errorf("%w: empty game id", ErrInvalidValue)
	}
	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return vals, nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	strs := map[string]*string{
		KeyGame:        &c.Game,
		KeyPlayer:      &c.Player,
		KeySession:     &c.SessionToken,
		KeyAPIBase:     &c.APIBase,
		KeyStoreURL:    &c.StoreURL,
		KeyScoreURL:    &c.ScoreURL,
		KeyRealtimeURL: &c.RealtimeURL,
		KeyTuningFile:  &c.TuningFile,
	}
	for key, dst := range strs {
		if v, ok := env(key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		KeyAudio: &c.Audio.Enabled,
		KeyDebug: &c.Debug,
	}
	for key, dst := range bools {
		v, ok := env(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, key, v)
		}
		*dst = b
	}

	if v, ok := env(KeyVolume); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, KeyVolume, v)
		}
		c.Audio.Volume = f
	}
	return nil
}

// bind registers every flag on fs with the current values as defaults
func (c *Config) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Game, "game", c.Game, "leaderboard game id")
	fs.StringVar(&c.Player, "player", c.Player, "display name override")
	fs.StringVar(&c.SessionToken, "session", c.SessionToken, "bearer session token")
	fs.StringVar(&c.APIBase, "api", c.APIBase, "base URL of a local collaborator stack")
	fs.StringVar(&c.StoreURL, "store", c.StoreURL, "leaderboard read API base URL")
	fs.StringVar(&c.ScoreURL, "score", c.ScoreURL, "score submission URL")
	fs.StringVar(&c.RealtimeURL, "realtime", c.RealtimeURL, "change notification websocket URL")
	fs.StringVar(&c.TuningFile, "tuning", c.TuningFile, "JSON gameplay tuning file")
	fs.BoolVar(&c.Audio.Enabled, "audio", c.Audio.Enabled, "enable sound cues")
	fs.Float64Var(&c.Audio.Volume, "volume", c.Audio.Volume, "master volume 0-1")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "write debug log to logs/")
}

// parseFlags overrides c with args; flag defaults are the values resolved so far
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("stacker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.bind(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("config: %w", err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrInvalidValue, fs.Arg(0))
	}
	return nil
}

// Usage writes flag documentation to w
func Usage(w io.Writer) {
	fs := flag.NewFlagSet("stacker", flag.ContinueOnError)
	fs.SetOutput(w)
	Default().bind(fs)
	fmt.Fprintf(w, "Usage of stacker:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nFlags may also be set as %s<NAME> in the environment or a .env file\n", EnvPrefix)
}

// Network returns collaborator endpoints and transport timing
func (c *Config) Network() *network.Config {
	var nc *network.Config
	if c.APIBase != "" {
		nc = network.DebugConfig(strings.TrimRight(c.APIBase, "/"))
	} else {
		nc = network.DefaultConfig()
	}
	if c.StoreURL != "" {
		nc.StoreURL = c.StoreURL
	}
	if c.ScoreURL != "" {
		nc.ScoreURL = c.ScoreURL
	}
	if c.RealtimeURL != "" {
		nc.RealtimeURL = c.RealtimeURL
	}
	return nc
}

// tuningFile mirrors engine.Tuning with optional fields; absent keys keep the current value
type tuningFile struct {
	CanvasWidth      *float64 `json:"canvas_width"`
	CanvasHeight     *float64 `json:"canvas_height"`
	BlockHeight      *float64 `json:"block_height"`
	InitialWidth     *float64 `json:"initial_width"`
	InitialSpeed     *float64 `json:"initial_speed"`
	MaxSpeed         *float64 `json:"max_speed"`
	TimeLimitMs      *int64   `json:"time_limit_ms"`
	PerfectTolerance *float64 `json:"perfect_tolerance"`
}

// LoadTuning overlays the JSON tuning file at path onto t
func LoadTuning(path string, t *engine.Tuning) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read tuning: %w", err)
	}

	var f tuningFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("config: decode tuning %s: %w", path, err)
	}

	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&t.CanvasWidth, f.CanvasWidth)
	set(&t.CanvasHeight, f.CanvasHeight)
	set(&t.BlockHeight, f.BlockHeight)
	set(&t.InitialWidth, f.InitialWidth)
	set(&t.InitialSpeed, f.InitialSpeed)
	set(&t.MaxSpeed, f.MaxSpeed)
	set(&t.PerfectTolerance, f.PerfectTolerance)
	if f.TimeLimitMs != nil {
		t.TimeLimit = time.Duration(*f.TimeLimitMs) * time.Millisecond
	}
	return nil
}
