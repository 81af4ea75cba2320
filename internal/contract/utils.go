package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/episense/episense/schema"
	"github.com/fatih/color"
)

// Risk label names shared by plain and colorized output.
const (
	CriticalLabel = "Critical"
	HighLabel     = "High"
	ModerateLabel = "Moderate"
	LowLabel      = "Low"
)

var (
	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgMagenta, color.Bold)
	moderateColor = color.New(color.FgYellow)
	lowColor      = color.New(color.FgCyan)
)

// GetColorLabel returns a colorized label indicating the criticality level
// based on the risk score.
func GetColorLabel(score float64) string {
	switch schema.GetPlainLabel(score) {
	case CriticalLabel:
		return criticalColor.Sprint(CriticalLabel)
	case HighLabel:
		return highColor.Sprint(HighLabel)
	case ModerateLabel:
		return moderateColor.Sprint(ModerateLabel)
	default:
		return lowColor.Sprint(LowLabel)
	}
}

// SelectOutputFile returns the file to write output to.
// An empty path selects stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal prints a fatal error message and exits.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn prints a warning message.
func LogWarn(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Warning %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the full path to the feature cache database file.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory if home is unavailable
		return ".episense_cache.db"
	}
	return filepath.Join(homeDir, ".episense_cache.db")
}

// GetAnalysisDBFilePath returns the full path to the analysis database file.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory if home is unavailable
		return ".episense_analysis.db"
	}
	return filepath.Join(homeDir, ".episense_analysis.db")
}

// TruncateName shortens a country display name to maxWidth runes,
// marking the cut with a trailing ellipsis.
func TruncateName(name string, maxWidth int) string {
	if maxWidth <= 3 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= maxWidth {
		return name
	}
	return string(runes[:maxWidth-3]) + "..."
}

// ParseBoolString converts a yes/no style string to a bool.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true, nil
	case "no", "false", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes/no style value, got %q", s)
	}
}
