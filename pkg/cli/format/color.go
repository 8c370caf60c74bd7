package format

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
)

// Message colors
var (
	ErrorColor     = color.New(color.FgRed, color.Bold)
	WarningColor   = color.New(color.FgYellow, color.Bold)
	SuccessColor   = color.New(color.FgGreen, color.Bold)
	InfoColor      = color.New(color.FgCyan)
	FileColor      = color.New(color.FgCyan)
	HintColor      = color.New(color.FgYellow, color.Italic)
	HeadingColor   = color.New(color.FgHiWhite, color.Bold)
	LabelColor     = color.New(color.FgCyan, color.Bold)
	DimColor       = color.New(color.FgHiBlack)
	HighlightColor = color.New(color.FgHiRed)
)

// init determines whether colors should be enabled by default
func init() {
	// fatih/color already honours NO_COLOR and non-terminal stdout.
	if runtime.GOOS == "windows" {
		// ANSICON is set by ConEmu, WT_SESSION by Windows Terminal
		_, hasAnsicon := os.LookupEnv("ANSICON")
		_, hasWT := os.LookupEnv("WT_SESSION")
		if !hasAnsicon && !hasWT {
			color.NoColor = true
		}
	}
	if _, noColor := os.LookupEnv("BOTCONFIG_NO_COLOR"); noColor {
		color.NoColor = true
	}
	if _, force := os.LookupEnv("BOTCONFIG_FORCE_COLOR"); force {
		color.NoColor = false
	}
}

// EnableColor enables or disables colored output globally
func EnableColor(enable bool) {
	color.NoColor = !enable
}

// IsColorEnabled returns whether colored output is enabled
func IsColorEnabled() bool {
	return !color.NoColor
}

// Success formats a message as a success (green)
func Success(format string, a ...interface{}) string {
	return SuccessColor.Sprintf(format, a...)
}

// Warning formats a message as a warning (yellow)
func Warning(format string, a ...interface{}) string {
	return WarningColor.Sprintf(format, a...)
}

// Error formats a message as an error (red)
func Error(format string, a ...interface{}) string {
	return ErrorColor.Sprintf(format, a...)
}

// Info formats a message as info (cyan)
func Info(format string, a ...interface{}) string {
	return InfoColor.Sprintf(format, a...)
}

// Dim formats a message as dimmed
func Dim(format string, a ...interface{}) string {
	return DimColor.Sprintf(format, a...)
}

// Label formats a key and value with a label style
func Label(key, value string) string {
	return fmt.Sprintf("%s %s", LabelColor.Sprint(key+":"), value)
}

// StatusSymbol returns a colorized status symbol
func StatusSymbol(success bool) string {
	if success {
		return SuccessColor.Sprint("✓")
	}
	return ErrorColor.Sprint("✗")
}
