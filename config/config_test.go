package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salespulse/engine"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SALESPULSE_DATA", "SALESPULSE_SOURCE", "SALESPULSE_LOG_LEVEL",
		"SALESPULSE_TOP_N", "SALESPULSE_WORKERS", "SALESPULSE_CURRENT_YEAR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DataPath)
	assert.Equal(t, SourceAuto, cfg.Source)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, 0, cfg.CurrentYear)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("SALESPULSE_DATA", "/data/sales.xlsx")
	t.Setenv("SALESPULSE_SOURCE", "duckdb")
	t.Setenv("SALESPULSE_LOG_LEVEL", "debug")
	t.Setenv("SALESPULSE_TOP_N", "5")
	t.Setenv("SALESPULSE_WORKERS", "4")
	t.Setenv("SALESPULSE_CURRENT_YEAR", "2024")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/data/sales.xlsx", cfg.DataPath)
	assert.Equal(t, SourceDuckDB, cfg.Source)
	assert.Equal(t, logrus.DebugLevel, cfg.LogrusLevel())
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 2024, cfg.CurrentYear)
}

func TestLoadFromEnv_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that already exist, even empty
	// ones, so unset the one the file provides.
	require.NoError(t, os.Unsetenv("SALESPULSE_TOP_N"))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SALESPULSE_TOP_N=3\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SALESPULSE_TOP_N") })

	cfg, err := LoadFromEnv(envFile)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopN)
}

func TestLoadFromEnv_BadIntegerWarns(t *testing.T) {
	clearEnv(t)
	t.Setenv("SALESPULSE_WORKERS", "many")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Workers)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "SALESPULSE_WORKERS")
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("SALESPULSE_SOURCE", "parquet")
	t.Setenv("SALESPULSE_TOP_N", "0")

	_, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SALESPULSE_SOURCE")
	assert.Contains(t, err.Error(), "SALESPULSE_TOP_N")
}

func TestLogrusLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"WARN":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.LogrusLevel(), in)
	}
}

func TestResolveSource(t *testing.T) {
	auto := &Config{Source: SourceAuto}
	assert.Equal(t, SourceSample, auto.ResolveSource(""))
	assert.Equal(t, SourceCSV, auto.ResolveSource("./data"))
	assert.Equal(t, SourceSQLite, auto.ResolveSource("sales.SQLITE"))
	assert.Equal(t, SourceDuckDB, auto.ResolveSource("sales.xlsx"))
	assert.Equal(t, SourceDuckDB, auto.ResolveSource("warehouse.duckdb"))

	fixed := &Config{Source: SourceCSV}
	assert.Equal(t, SourceCSV, fixed.ResolveSource("sales.xlsx"))
}

// ── Criteria files ────────────────────────────────────────────────────────────

func baseCriteria() engine.FilterCriteria {
	return engine.FilterCriteria{
		Ages:    engine.AgeRange{Min: engine.DefaultAgeMin, Max: engine.DefaultAgeMax},
		Genders: []string{engine.GenderMale, engine.GenderFemale},
		Seasons: []string{engine.SeasonFallWinter, engine.SeasonSpringSummer},
		Dates: engine.DateRange{
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestCriteriaFileOverlay(t *testing.T) {
	cf, err := ParseCriteria([]byte(`
ages: {min: 18}
genders: [female]
dates:
  start: 2024-03-01
  end: 06/30/2024
categories: [Tops, Dresses]
`))
	require.NoError(t, err)

	c, err := cf.Apply(baseCriteria())
	require.NoError(t, err)
	assert.Equal(t, engine.AgeRange{Min: 18, Max: engine.DefaultAgeMax}, c.Ages)
	assert.Equal(t, []string{"female"}, c.Genders)
	assert.Equal(t, baseCriteria().Seasons, c.Seasons, "absent key keeps default")
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c.Dates.Start)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), c.Dates.End)
	assert.Equal(t, []string{"Tops", "Dresses"}, c.Categories)
	assert.Nil(t, c.Textures)
}

func TestCriteriaFileExplicitEmptyList(t *testing.T) {
	cf, err := ParseCriteria([]byte("seasons: []\n"))
	require.NoError(t, err)

	c, err := cf.Apply(baseCriteria())
	require.NoError(t, err)
	assert.NotNil(t, c.Seasons)
	assert.Empty(t, c.Seasons)
}

func TestCriteriaFileErrors(t *testing.T) {
	_, err := ParseCriteria([]byte("colour: [red]\n"))
	assert.ErrorContains(t, err, "parse criteria")

	cf, err := ParseCriteria([]byte("dates: {start: someday}\n"))
	require.NoError(t, err)
	_, err = cf.Apply(baseCriteria())
	assert.ErrorContains(t, err, "dates.start")

	cf, err = ParseCriteria([]byte("ages: {min: 70, max: 20}\n"))
	require.NoError(t, err)
	_, err = cf.Apply(baseCriteria())
	assert.ErrorContains(t, err, "invalid filter criteria")
}

func TestLoadCriteriaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	require.NoError(t, os.WriteFile(path, []byte("textures: [Floral]\n"), 0o644))

	cf, err := LoadCriteriaFile(path)
	require.NoError(t, err)
	c, err := cf.Apply(baseCriteria())
	require.NoError(t, err)
	assert.Equal(t, []string{"Floral"}, c.Textures)

	empty, err := ParseCriteria(nil)
	require.NoError(t, err)
	c, err = empty.Apply(baseCriteria())
	require.NoError(t, err)
	assert.Equal(t, baseCriteria(), c)
}
