package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

func validConfig() *Config {
	cfg := &Config{
		Database:  DatabaseConfig{Driver: "postgres", URL: "postgres://localhost/staffing"},
		ActorRole: "hr",
		Seed:      7,
	}
	ApplyDefaults(cfg)
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staffing_config_test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Weekend.Blackouts = []string{"FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25", "FREQ=MONTHLY;BYDAY=1SU"}

	assert.NoError(t, Validate(cfg))
}

func TestValidate_SqliteNeedsPath(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Driver: "sqlite"}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	cfg.Database.Path = "staffing.db"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "mysql"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := validConfig()
	cfg.Weekend.Blackouts = []string{"FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1", "INVALID_RRULE_SYNTAX"}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule in weekend.blackouts[1]")
}

func TestValidate_EmptyRRule(t *testing.T) {
	cfg := validConfig()
	cfg.Weekend.Blackouts = []string{""}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_ReversedRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"contract length", func(c *Config) { c.Allocation.MaxContractDays = c.Allocation.MinContractDays - 1 }},
		{"leave count", func(c *Config) { c.Leave.Vacation.MinCount = 3; c.Leave.Vacation.MaxCount = 1 }},
		{"weekend hours", func(c *Config) { c.ShiftPatterns.WeekendHours.Min = 6; c.ShiftPatterns.WeekendHours.Max = 5 }},
		{"active ratio", func(c *Config) { ratio := 1.5; c.Allocation.ActiveRatio = &ratio }},
		{"shift type", func(c *Config) { c.Allocation.ShiftTypes = []string{"split"} }},
		{"pattern start", func(c *Config) { c.ShiftPatterns.Night[0].StartHour = 24 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{IndustrySkills: map[string][]string{" Logistics ": {"driver"}}}

	ApplyDefaults(cfg)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "hr", cfg.ActorRole)
	assert.Equal(t, 40, cfg.Allocation.MaxWeeklyHours)
	require.NotNil(t, cfg.Allocation.ActiveRatio)
	assert.InDelta(t, 0.6, *cfg.Allocation.ActiveRatio, 1e-9)
	assert.Equal(t, map[string][]string{"logistics": {"driver"}}, cfg.IndustrySkills)
	assert.NotEmpty(t, cfg.DefaultSkills)
	assert.NotEmpty(t, cfg.ShiftPatterns.Night)
	assert.Equal(t, 5, cfg.ShiftPatterns.WeekendHours.Min)
	assert.Equal(t, 4, cfg.Generation.Parallelism)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestApplyDefaults_KeepsExplicitZeroRatio(t *testing.T) {
	ratio := 0.0
	cfg := &Config{Allocation: AllocationConfig{ActiveRatio: &ratio}}

	ApplyDefaults(cfg)

	assert.Zero(t, *cfg.Allocation.ActiveRatio)
}

func TestApplyDefaults_WeekendCaps(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	require.NotNil(t, cfg.Weekend.MaxSaturdays)
	require.NotNil(t, cfg.Weekend.MaxSundays)
	assert.Equal(t, 2, *cfg.Weekend.MaxSaturdays)
	assert.Equal(t, 1, *cfg.Weekend.MaxSundays)

	zero := 0
	cfg = &Config{Weekend: WeekendConfig{MaxSaturdays: &zero, MaxSundays: &zero}}
	ApplyDefaults(cfg)

	assert.Zero(t, *cfg.Weekend.MaxSaturdays)
	assert.Zero(t, *cfg.Weekend.MaxSundays)
	policy := cfg.WeekendPolicy(1)
	assert.Zero(t, policy.MaxSaturdays)
	assert.Zero(t, policy.MaxSundays)
}

func TestLoadFromPath_NoWeekendWork(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: staffing.db
weekend:
  maxSaturdays: 0
  maxSundays: 0
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	policy := cfg.WeekendPolicy(cfg.Seed)
	assert.Zero(t, policy.MaxSaturdays)
	assert.Zero(t, policy.MaxSundays)
}

func TestHorizon(t *testing.T) {
	cfg := validConfig()
	cfg.Allocation.BackdateMaxDays = 10
	cfg.Allocation.HorizonDays = 30

	horizon := cfg.Horizon(model.Date(2026, 3, 15))

	assert.Equal(t, model.Date(2026, 3, 5), horizon.Start)
	assert.Equal(t, model.Date(2026, 4, 13), horizon.End)
}

func TestPolicies(t *testing.T) {
	cfg := validConfig()
	cfg.Allocation.ShiftTypes = []string{"night"}

	activation := cfg.ActivationPolicy(99, model.Date(2026, 3, 15))
	assert.Equal(t, int64(99), activation.Seed)
	assert.Equal(t, []model.ShiftType{model.ShiftNight}, activation.ShiftTypes)

	leave := cfg.LeavePolicy(99)
	assert.Len(t, leave.Categories, 3)
	assert.Equal(t, cfg.Leave.Vacation.MaxLength, leave.Categories[model.LeaveVacation].MaxLength)

	table := cfg.PatternTable(99)
	assert.Equal(t, cfg.ShiftPatterns.Rotating, table.For(model.ShiftRotating))

	catalog := cfg.SkillCatalog()
	assert.Equal(t, cfg.DefaultSkills, catalog.Requirements(model.ClientOrg{Industry: "unknown"}))
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: staffing.db
actorRole: hr_manager
seed: 42
allocation:
  maxPerClient: 2
  maxWeeklyHours: 38
  activeRatio: 0.5
  shiftTypes: [day, night]
industrySkills:
  Logistics: [driver, picker_packer]
leave:
  vacation:
    minCount: 1
    maxCount: 2
    minLength: 5
    maxLength: 10
    reason: Annual leave
weekend:
  maxSaturdays: 1
  maxSundays: 2
  blackouts:
    - "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
shiftPatterns:
  night:
    - startHour: 22
      duration: 8
generation:
  parallelism: 8
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "hr_manager", cfg.ActorRole)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 2, cfg.Allocation.MaxPerClient)
	assert.InDelta(t, 0.5, *cfg.Allocation.ActiveRatio, 1e-9)
	assert.Equal(t, []string{"driver", "picker_packer"}, cfg.IndustrySkills["logistics"])
	assert.Equal(t, "Annual leave", cfg.Leave.Vacation.Reason)
	assert.Equal(t, 1, *cfg.Weekend.MaxSaturdays)
	assert.Equal(t, 2, *cfg.Weekend.MaxSundays)
	require.Len(t, cfg.ShiftPatterns.Night, 1)
	assert.Equal(t, 22, cfg.ShiftPatterns.Night[0].StartHour)
	assert.NotEmpty(t, cfg.ShiftPatterns.Day, "unset pattern lists fall back to defaults")
	assert.Equal(t, 8, cfg.Generation.Parallelism)
}

func TestLoadFromPath_DatabaseURLFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/staffing")
	path := writeConfig(t, `
database:
  driver: postgres
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env-host/staffing", cfg.Database.URL)
}

func TestLoadFromPath_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := writeConfig(t, `
database:
  driver: postgres
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: staffing.db
weekend:
  maxSundays: 1
  blackouts:
    - "INVALID_RRULE_SYNTAX"
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `
database: [unclosed
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_FindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName("staging")), []byte(`
database:
  driver: sqlite
  path: staging.db
`), 0644))

	cfg, err := LoadWithEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, "staging.db", cfg.Database.Path)

	_, err = LoadWithEnv("nowhere")
	assert.Error(t, err)
}
