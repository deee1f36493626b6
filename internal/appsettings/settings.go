package appsettings

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// AppConfigSubdir is the subdirectory for par-term-specific config
	AppConfigSubdir = "par-term"
	// SettingsFileName is the name of the settings file
	SettingsFileName = "settings.json"

	// Default values
	DefaultScrollbackLines        = 10000
	DefaultBackgroundColor        = "#0b0614"
	DefaultDoubleClickThresholdMs = 400
)

// TerminalSettings contains terminal-specific settings
type TerminalSettings struct {
	ScrollbackLines int `json:"scrollback_lines"`
}

// AppearanceSettings contains appearance-related settings
type AppearanceSettings struct {
	BackgroundColor string `json:"background_color"`
}

// EditorSettings contains editor behavior settings
type EditorSettings struct {
	DoubleClickThresholdMs int `json:"double_click_threshold_ms"`
}

// AppSettings holds all par-term-specific configuration
type AppSettings struct {
	Terminal   TerminalSettings   `json:"terminal"`
	Appearance AppearanceSettings `json:"appearance"`
	Editor     EditorSettings     `json:"editor"`
}

// GlobalAppSettings is the loaded settings instance
var GlobalAppSettings *AppSettings

// DefaultSettings returns the default PAR-TERM settings
func DefaultSettings() *AppSettings {
	return &AppSettings{
		Terminal: TerminalSettings{
			ScrollbackLines: DefaultScrollbackLines,
		},
		Appearance: AppearanceSettings{
			BackgroundColor: DefaultBackgroundColor,
		},
		Editor: EditorSettings{
			DoubleClickThresholdMs: DefaultDoubleClickThresholdMs,
		},
	}
}

// getBaseConfigDir returns the base config directory for par-term
func getBaseConfigDir() string {
	// Check for PAR_TERM_CONFIG_HOME first
	if dir := os.Getenv("PAR_TERM_CONFIG_HOME"); dir != "" {
		return dir
	}
	// Check for MICRO_CONFIG_HOME (compatibility)
	if dir := os.Getenv("MICRO_CONFIG_HOME"); dir != "" {
		return dir
	}
	// Use XDG_CONFIG_HOME if set
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "par-term")
	}
	// Default to ~/.config/par-term
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "par-term")
}

// GetConfigDir returns the PAR-TERM settings config directory path
func GetConfigDir() string {
	return filepath.Join(getBaseConfigDir(), AppConfigSubdir)
}

// GetSettingsFilePath returns the path to the settings file
func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), SettingsFileName)
}

// EnsureConfigDir creates the PAR-TERM config directory if it doesn't exist
func EnsureConfigDir() error {
	dir := GetConfigDir()
	return os.MkdirAll(dir, 0755)
}

// EnsureSettingsFile creates the settings file with defaults if it doesn't exist
func EnsureSettingsFile() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	filePath := GetSettingsFilePath()
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return SaveSettings(DefaultSettings())
	}
	return nil
}

// LoadSettings loads PAR-TERM settings from disk
func LoadSettings() *AppSettings {
	settings := DefaultSettings()

	filePath := GetSettingsFilePath()
	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("PAR-TERM Settings: Failed to read settings.json: %v", err)
		}
		GlobalAppSettings = settings
		return settings
	}

	if err := json.Unmarshal(data, settings); err != nil {
		log.Printf("PAR-TERM Settings: Failed to parse settings.json: %v", err)
		GlobalAppSettings = DefaultSettings()
		return GlobalAppSettings
	}

	// Validate and apply defaults for missing/invalid values
	if settings.Terminal.ScrollbackLines <= 0 {
		settings.Terminal.ScrollbackLines = DefaultScrollbackLines
	}
	if settings.Appearance.BackgroundColor == "" {
		settings.Appearance.BackgroundColor = DefaultBackgroundColor
	}
	if settings.Editor.DoubleClickThresholdMs <= 0 {
		settings.Editor.DoubleClickThresholdMs = DefaultDoubleClickThresholdMs
	}

	GlobalAppSettings = settings
	return settings
}

// SaveSettings persists PAR-TERM settings to disk
func SaveSettings(settings *AppSettings) error {
	if err := EnsureConfigDir(); err != nil {
		log.Printf("PAR-TERM Settings: Failed to create config dir: %v", err)
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		log.Printf("PAR-TERM Settings: Failed to marshal settings.json: %v", err)
		return err
	}

	filePath := GetSettingsFilePath()
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("PAR-TERM Settings: Failed to write settings.json: %v", err)
		return err
	}

	GlobalAppSettings = settings
	return nil
}

// GetScrollbackLines returns the terminal scrollback lines setting
func GetScrollbackLines() int {
	if GlobalAppSettings == nil {
		return DefaultScrollbackLines
	}
	return GlobalAppSettings.Terminal.ScrollbackLines
}

// GetBackgroundColor returns the appearance background color setting
func GetBackgroundColor() string {
	if GlobalAppSettings == nil {
		return DefaultBackgroundColor
	}
	return GlobalAppSettings.Appearance.BackgroundColor
}

// GetDoubleClickThreshold returns the double-click threshold in milliseconds
func GetDoubleClickThreshold() int {
	if GlobalAppSettings == nil {
		return DefaultDoubleClickThresholdMs
	}
	return GlobalAppSettings.Editor.DoubleClickThresholdMs
}

// ValidationError represents a settings validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSettingsJSON validates JSON content and returns parsed settings or errors
func ValidateSettingsJSON(data []byte) (*AppSettings, []ValidationError) {
	var errors []ValidationError

	// First check if it's valid JSON
	var settings AppSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		errors = append(errors, ValidationError{
			Field:   "json",
			Message: "Invalid JSON: " + err.Error(),
		})
		return nil, errors
	}

	// Validate individual fields
	errors = append(errors, validateSettings(&settings)...)

	if len(errors) > 0 {
		return &settings, errors
	}
	return &settings, nil
}

// validateSettings validates a AppSettings struct
func validateSettings(settings *AppSettings) []ValidationError {
	var errors []ValidationError

	// Validate scrollback lines
	if settings.Terminal.ScrollbackLines < 0 {
		errors = append(errors, ValidationError{
			Field:   "terminal.scrollback_lines",
			Message: "must be non-negative",
		})
	} else if settings.Terminal.ScrollbackLines > 1000000 {
		errors = append(errors, ValidationError{
			Field:   "terminal.scrollback_lines",
			Message: "must be <= 1000000",
		})
	}

	// Validate background color (hex format)
	if settings.Appearance.BackgroundColor != "" {
		if !isValidHexColor(settings.Appearance.BackgroundColor) {
			errors = append(errors, ValidationError{
				Field:   "appearance.background_color",
				Message: "must be a valid hex color (e.g., #0b0614)",
			})
		}
	}

	// Validate double-click threshold
	if settings.Editor.DoubleClickThresholdMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "editor.double_click_threshold_ms",
			Message: "must be non-negative",
		})
	} else if settings.Editor.DoubleClickThresholdMs > 2000 {
		errors = append(errors, ValidationError{
			Field:   "editor.double_click_threshold_ms",
			Message: "must be <= 2000ms",
		})
	}

	return errors
}

// isValidHexColor checks if a string is a valid hex color
func isValidHexColor(color string) bool {
	if !strings.HasPrefix(color, "#") {
		return false
	}
	matched, _ := regexp.MatchString(`^#[0-9a-fA-F]{6}$`, color)
	return matched
}

// ReloadSettings reloads settings from disk and returns validation errors if any
func ReloadSettings() []ValidationError {
	filePath := GetSettingsFilePath()
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No settings file, use defaults
			GlobalAppSettings = DefaultSettings()
			return nil
		}
		return []ValidationError{{
			Field:   "file",
			Message: "Failed to read settings file: " + err.Error(),
		}}
	}

	settings, errors := ValidateSettingsJSON(data)
	if len(errors) > 0 {
		return errors
	}

	// Apply defaults for zero values
	if settings.Terminal.ScrollbackLines == 0 {
		settings.Terminal.ScrollbackLines = DefaultScrollbackLines
	}
	if settings.Appearance.BackgroundColor == "" {
		settings.Appearance.BackgroundColor = DefaultBackgroundColor
	}
	if settings.Editor.DoubleClickThresholdMs == 0 {
		settings.Editor.DoubleClickThresholdMs = DefaultDoubleClickThresholdMs
	}

	GlobalAppSettings = settings
	log.Printf("PAR-TERM Settings: Reloaded settings successfully")
	return nil
}

// IsSettingsFile checks if the given path is the PAR-TERM settings file
func IsSettingsFile(path string) bool {
	settingsPath := GetSettingsFilePath()
	// Compare absolute paths
	absPath, err1 := filepath.Abs(path)
	absSettings, err2 := filepath.Abs(settingsPath)
	if err1 != nil || err2 != nil {
		return path == settingsPath
	}
	return absPath == absSettings
}
