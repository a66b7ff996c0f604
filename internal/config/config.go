package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/staffing-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/schedule"
	"github.com/jakechorley/staffing-scheduler/pkg/core/timeoff"
	"github.com/jakechorley/staffing-scheduler/pkg/core/weekend"
)

// DatabaseConfig selects and locates the store
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `yaml:"url,omitempty" validate:"required_if=Driver postgres"`
	Path   string `yaml:"path,omitempty" validate:"required_if=Driver sqlite"`
}

// AllocationConfig bounds contract creation
type AllocationConfig struct {
	MaxPerClient         int      `yaml:"maxPerClient" validate:"min=1"`
	MaxWeeklyHours       int      `yaml:"maxWeeklyHours" validate:"min=1,max=168"`
	ActiveRatio          *float64 `yaml:"activeRatio,omitempty" validate:"required,min=0,max=1"`
	BackdateMaxDays      int      `yaml:"backdateMaxDays" validate:"min=0"`
	LeadMaxDays          int      `yaml:"leadMaxDays" validate:"min=1"`
	HorizonDays          int      `yaml:"horizonDays" validate:"min=1"`
	MinContractDays      int      `yaml:"minContractDays" validate:"min=1"`
	MaxContractDays      int      `yaml:"maxContractDays" validate:"gtefield=MinContractDays"`
	ContractNumberPrefix string   `yaml:"contractNumberPrefix"`
	ContractNumberStart  int      `yaml:"contractNumberStart" validate:"min=1"`
	ShiftTypes           []string `yaml:"shiftTypes,omitempty" validate:"dive,oneof=day night rotating"`
}

// LeaveCategoryConfig bounds the periods generated for one leave category
type LeaveCategoryConfig struct {
	MinCount  int    `yaml:"minCount" validate:"min=0"`
	MaxCount  int    `yaml:"maxCount" validate:"gtefield=MinCount"`
	MinLength int    `yaml:"minLength" validate:"min=1"`
	MaxLength int    `yaml:"maxLength" validate:"gtefield=MinLength"`
	Reason    string `yaml:"reason,omitempty"`
}

type LeaveConfig struct {
	MaxAttempts int                 `yaml:"maxAttempts" validate:"min=1"`
	SickLeave   LeaveCategoryConfig `yaml:"sickLeave"`
	Vacation    LeaveCategoryConfig `yaml:"vacation"`
	ClientBreak LeaveCategoryConfig `yaml:"clientBreak"`
}

type WeekendConfig struct {
	MaxSaturdays *int     `yaml:"maxSaturdays,omitempty" validate:"required,min=0"`
	MaxSundays   *int     `yaml:"maxSundays,omitempty" validate:"required,min=0"`
	Blackouts    []string `yaml:"blackouts,omitempty" validate:"dive,required"`
}

type ShiftPatternsConfig struct {
	Day          []schedule.ShiftPattern `yaml:"day" validate:"min=1,dive"`
	Night        []schedule.ShiftPattern `yaml:"night" validate:"min=1,dive"`
	Rotating     []schedule.ShiftPattern `yaml:"rotating" validate:"min=1,dive"`
	WeekendHours schedule.HourRange      `yaml:"weekendHours"`
}

type GenerationConfig struct {
	Parallelism int `yaml:"parallelism" validate:"min=1,max=64"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	ActorRole  string           `yaml:"actorRole" validate:"required"`
	Seed       int64            `yaml:"seed"`
	Allocation AllocationConfig `yaml:"allocation"`

	// IndustrySkills maps industry names to required skills. Keys are matched case-insensitively.
	IndustrySkills map[string][]string `yaml:"industrySkills,omitempty"`
	DefaultSkills  []string            `yaml:"defaultSkills,omitempty"`

	Leave         LeaveConfig         `yaml:"leave"`
	Weekend       WeekendConfig       `yaml:"weekend"`
	ShiftPatterns ShiftPatternsConfig `yaml:"shiftPatterns"`
	Generation    GenerationConfig    `yaml:"generation"`
	Server        ServerConfig        `yaml:"server"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ConfigFileName returns the config file name for an environment
func ConfigFileName(env string) string {
	return fmt.Sprintf("staffing_config_%s.yaml", env)
}

// LoadWithEnv loads the configuration for env.
// A .env file in the working directory, if present, is loaded into the process environment first.
func LoadWithEnv(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configPath, err := findConfigFile(ConfigFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads, completes and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
}

// ApplyDefaults fills every unset field with its built-in value
func ApplyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.ActorRole == "" {
		cfg.ActorRole = "hr"
	}

	a := &cfg.Allocation
	setDefault(&a.MaxPerClient, 3)
	setDefault(&a.MaxWeeklyHours, 40)
	if a.ActiveRatio == nil {
		ratio := 0.6
		a.ActiveRatio = &ratio
	}
	setDefault(&a.BackdateMaxDays, 30)
	setDefault(&a.LeadMaxDays, 30)
	setDefault(&a.HorizonDays, 90)
	setDefault(&a.MinContractDays, 14)
	setDefault(&a.MaxContractDays, 60)
	if a.ContractNumberPrefix == "" {
		a.ContractNumberPrefix = "CT-"
	}
	setDefault(&a.ContractNumberStart, 1)

	catalog := allocator.DefaultSkillCatalog()
	if cfg.IndustrySkills == nil {
		cfg.IndustrySkills = catalog.Industries
	} else {
		lowered := make(map[string][]string, len(cfg.IndustrySkills))
		for industry, skills := range cfg.IndustrySkills {
			lowered[strings.ToLower(strings.TrimSpace(industry))] = skills
		}
		cfg.IndustrySkills = lowered
	}
	if cfg.DefaultSkills == nil {
		cfg.DefaultSkills = catalog.Default
	}

	l := &cfg.Leave
	setDefault(&l.MaxAttempts, timeoff.DefaultMaxAttempts)
	defaultCategory(&l.SickLeave, LeaveCategoryConfig{MinCount: 0, MaxCount: 2, MinLength: 1, MaxLength: 5})
	defaultCategory(&l.Vacation, LeaveCategoryConfig{MinCount: 0, MaxCount: 1, MinLength: 5, MaxLength: 14})
	defaultCategory(&l.ClientBreak, LeaveCategoryConfig{MinCount: 0, MaxCount: 1, MinLength: 1, MaxLength: 3})

	// an explicit zero disables that weekend day
	if cfg.Weekend.MaxSaturdays == nil {
		saturdays := 2
		cfg.Weekend.MaxSaturdays = &saturdays
	}
	if cfg.Weekend.MaxSundays == nil {
		sundays := 1
		cfg.Weekend.MaxSundays = &sundays
	}

	table := schedule.DefaultPatternTable(cfg.Seed)
	p := &cfg.ShiftPatterns
	if len(p.Day) == 0 {
		p.Day = table.Patterns[model.ShiftDay]
	}
	if len(p.Night) == 0 {
		p.Night = table.Patterns[model.ShiftNight]
	}
	if len(p.Rotating) == 0 {
		p.Rotating = table.Patterns[model.ShiftRotating]
	}
	if p.WeekendHours == (schedule.HourRange{}) {
		p.WeekendHours = table.WeekendHours
	}

	setDefault(&cfg.Generation.Parallelism, 4)
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

func setDefault(field *int, value int) {
	if *field == 0 {
		*field = value
	}
}

// defaultCategory replaces a category left entirely unset
func defaultCategory(category *LeaveCategoryConfig, value LeaveCategoryConfig) {
	if *category == (LeaveCategoryConfig{}) {
		*category = value
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.Weekend.Blackouts {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in weekend.blackouts[%d]: %w", i, err)
		}
	}

	return nil
}

// Horizon returns the run horizon for a run date: backdated by BackdateMaxDays
// and spanning HorizonDays from the run date.
func (c *Config) Horizon(runDate time.Time) model.Interval {
	today := model.NormalizeDate(runDate)
	return model.Interval{
		Start: today.AddDate(0, 0, -c.Allocation.BackdateMaxDays),
		End:   today.AddDate(0, 0, c.Allocation.HorizonDays-1),
	}
}

func (c *Config) SkillCatalog() allocator.SkillCatalog {
	return allocator.SkillCatalog{Industries: c.IndustrySkills, Default: c.DefaultSkills}
}

func (c *Config) DemandPolicy(seed int64) allocator.SeededDemand {
	return allocator.SeededDemand{Seed: seed, MaxPerClient: c.Allocation.MaxPerClient}
}

func (c *Config) ActivationPolicy(seed int64, today time.Time) allocator.SeededActivation {
	shiftTypes := make([]model.ShiftType, 0, len(c.Allocation.ShiftTypes))
	for _, s := range c.Allocation.ShiftTypes {
		shiftTypes = append(shiftTypes, model.ShiftType(s))
	}

	ratio := 0.0
	if c.Allocation.ActiveRatio != nil {
		ratio = *c.Allocation.ActiveRatio
	}

	return allocator.SeededActivation{
		Seed:            seed,
		Today:           today,
		ActiveRatio:     ratio,
		BackdateMaxDays: c.Allocation.BackdateMaxDays,
		LeadMaxDays:     c.Allocation.LeadMaxDays,
		MinLengthDays:   c.Allocation.MinContractDays,
		MaxLengthDays:   c.Allocation.MaxContractDays,
		ShiftTypes:      shiftTypes,
	}
}

func (c *Config) LeavePolicy(seed int64) timeoff.LeavePolicy {
	return timeoff.LeavePolicy{
		Seed:        seed,
		MaxAttempts: c.Leave.MaxAttempts,
		Categories: map[model.LeaveCategory]timeoff.CategoryPolicy{
			model.LeaveSick:        c.Leave.SickLeave.policy(),
			model.LeaveVacation:    c.Leave.Vacation.policy(),
			model.LeaveClientBreak: c.Leave.ClientBreak.policy(),
		},
	}
}

func (l LeaveCategoryConfig) policy() timeoff.CategoryPolicy {
	return timeoff.CategoryPolicy{
		MinCount:  l.MinCount,
		MaxCount:  l.MaxCount,
		MinLength: l.MinLength,
		MaxLength: l.MaxLength,
		Reason:    l.Reason,
	}
}

func (c *Config) WeekendPolicy(seed int64) weekend.WeekendPolicy {
	return weekend.WeekendPolicy{
		Seed:         seed,
		MaxSaturdays: derefInt(c.Weekend.MaxSaturdays),
		MaxSundays:   derefInt(c.Weekend.MaxSundays),
		Blackouts:    c.Weekend.Blackouts,
	}
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func (c *Config) PatternTable(seed int64) schedule.ShiftPatternTable {
	return schedule.ShiftPatternTable{
		Patterns: map[model.ShiftType][]schedule.ShiftPattern{
			model.ShiftDay:      c.ShiftPatterns.Day,
			model.ShiftNight:    c.ShiftPatterns.Night,
			model.ShiftRotating: c.ShiftPatterns.Rotating,
		},
		WeekendHours: c.ShiftPatterns.WeekendHours,
		Seed:         seed,
	}
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
