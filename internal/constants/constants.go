package constants

import "time"

const (
	AppName             = "helpme"
	DefaultKeyringUser  = "database-connection"
	ModelKeyringUser    = "model-api-key"
	DefaultConfigPath   = "~/.config/helpme/helpme.db"
	DefaultSettingsPath = "~/.config/helpme/config.yaml"
	Version             = "v0.3.0"

	// DateFormat is the calendar date format used for check-ins, plans and ledger events (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the clock format used for working hours (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is how timestamps are persisted as text. Fixed width so
	// UTC values sort lexically.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

	DefaultTimezone = "UTC"

	// DefaultOwnerID is used when no owner is configured.
	DefaultOwnerID = "default"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "helpme-"
	BackupFileSuffix = ".db"
)

// Plan generation
const (
	AlgorithmVersionHeuristic = "v1-det-heuristic"
	AlgorithmVersionLLM       = "v2-llm"

	HeuristicReasoningSummary = "Ordered by urgency, intensity, and energy fit. Use as guidance, you're in control."
	NoReasoningProvided       = "No reasoning provided."
	NoInsightGenerated        = "No insight generated."
)

// Check-in limits
const (
	MinRestQuality   = 1
	MaxRestQuality   = 10
	MaxSleepNotesLen = 2000
	MinEnergyBudget  = 10
	MaxEnergyBudget  = 120
)

// Profile and task limits
const (
	MaxNameLen  = 100
	MaxBioLen   = 1000
	MaxTitleLen = 200
	MaxTags     = 20

	DefaultWorkingStart = "09:00"
	DefaultWorkingEnd   = "17:00"
)

// Text-completion defaults
const (
	DefaultModelProvider    = "anthropic"
	DefaultAnthropicModel   = "claude-sonnet-4-5"
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	DefaultModelTimeout     = 30 * time.Second
	DefaultModelTemperature = 0.3
	DefaultModelMaxTokens   = 1000

	PrioritizationMaxTokens = 2000
	EveningSummaryMaxTokens = 500
	InsightMaxTokens        = 150
)
