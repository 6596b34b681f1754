// Package config reads geoleaf settings from .env files and the
// environment. Variables already set in the environment win over the
// files; command line flags are applied on top by the caller.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vasalvit/geoleaf"
)

// Defaults.
const (
	DefaultPrecision = 3
	DefaultAddr      = ":8080"
	DefaultCacheTTL  = 24 * time.Hour
)

// Config is the full runtime configuration.
type Config struct {
	CRS           string
	EPSG          int
	Precision     int
	FlattenCurves bool
	MultiLine     bool

	LogLevel  string
	LogFormat string

	Addr          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

// Load reads the given .env files, skipping the ones that do not exist,
// and resolves every setting against the environment.
func Load(files ...string) (Config, error) {
	fileVals := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, err
		}
		for k, v := range vals {
			if _, ok := fileVals[k]; !ok {
				fileVals[k] = v
			}
		}
	}
	return resolve(func(k string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return fileVals[k]
	}), nil
}

// FromEnv resolves every setting against the environment only.
func FromEnv() Config {
	return resolve(os.Getenv)
}

func resolve(get func(string) string) Config {
	return Config{
		CRS:           get("GEOLEAF_CRS"),
		EPSG:          intOr(get("GEOLEAF_EPSG"), 0),
		Precision:     intOr(get("GEOLEAF_PRECISION"), DefaultPrecision),
		FlattenCurves: boolOr(get("GEOLEAF_FLATTEN_CURVES"), false),
		MultiLine:     boolOr(get("GEOLEAF_MULTILINE"), false),
		LogLevel:      stringOr(get("GEOLEAF_LOG_LEVEL"), "info"),
		LogFormat:     stringOr(get("GEOLEAF_LOG_FORMAT"), "text"),
		Addr:          stringOr(get("GEOLEAF_ADDR"), DefaultAddr),
		RedisAddr:     get("REDIS_ADDR"),
		RedisPassword: get("REDIS_PASSWORD"),
		RedisDB:       intOr(get("REDIS_DB"), 0),
		CacheTTL:      durationOr(get("GEOLEAF_CACHE_TTL"), DefaultCacheTTL),
	}
}

// Renderer returns the conversion settings for the core renderer.
func (c Config) Renderer(l *slog.Logger) geoleaf.Config {
	return geoleaf.Config{
		Projection:       geoleaf.ProjectionConfig{CRS: c.CRS, EPSG: c.EPSG},
		FlattenCurves:    c.FlattenCurves,
		MultiLineStrings: c.MultiLine,
		Precision:        c.Precision,
		Logger:           l,
	}
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// intOr parses v, falling back to def when v is empty or not a number.
func intOr(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func boolOr(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func durationOr(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d < 0 {
		return def
	}
	return d
}
