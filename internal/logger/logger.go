package logger

import (
	"fmt"
	"strings"
	"time"

	"inspecciones/webapp/internal/config"
)

type LogLevel int

const (
	LogOff  LogLevel = 0 // basic logs only
	LogLow  LogLevel = 1 // + request lines and debug
	LogHigh LogLevel = 2 // + upstream API calls
)

const (
	ColorReset  = "\x1b[0m"
	ColorGreen  = "\x1b[32m"
	ColorYellow = "\x1b[33m"
	ColorRed    = "\x1b[31m"
	ColorCyan   = "\x1b[36m"
	ColorGray   = "\x1b[90m"
	ColorBlue   = "\x1b[34m"
)

var currentLogLevel LogLevel

func Init() {
	currentLogLevel = parseLogLevel(config.Get().Debug)
}

// SetLevel overrides the level picked by Init.
func SetLevel(level LogLevel) {
	currentLogLevel = level
}

func parseLogLevel(debug string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(debug)) {
	case "low":
		return LogLow
	case "high":
		return LogHigh
	default:
		return LogOff
	}
}

func GetLevel() LogLevel {
	return currentLogLevel
}

func Info(format string, args ...any) {
	emit(ColorGreen, "info", format, args...)
}

func Warn(format string, args ...any) {
	emit(ColorYellow, "warn", format, args...)
}

func Error(format string, args ...any) {
	emit(ColorRed, "error", format, args...)
}

func Debug(format string, args ...any) {
	if currentLogLevel < LogLow {
		return
	}
	emit(ColorBlue, "debug", format, args...)
}

func emit(color, tag, format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s%s%s %s[%s]%s %s\n", ColorGray, timestamp, ColorReset, color, tag, ColorReset, msg)
}

func Request(method, path string, status int, duration time.Duration, requestID string) {
	fmt.Printf("%s[%s]%s %s %s%d%s %s%dms%s %s%s%s\n",
		ColorCyan, method, ColorReset,
		path,
		statusColor(status), status, ColorReset,
		ColorGray, duration.Milliseconds(), ColorReset,
		ColorGray, requestID, ColorReset)
}

// Upstream logs a call to the inspections API.
func Upstream(method, url string, status int, duration time.Duration) {
	if currentLogLevel < LogHigh {
		return
	}
	fmt.Printf("%s[api]%s %s%s%s %s %s%d%s %s%dms%s\n",
		ColorYellow, ColorReset,
		ColorCyan, method, ColorReset,
		url,
		statusColor(status), status, ColorReset,
		ColorGray, duration.Milliseconds(), ColorReset)
}

func statusColor(status int) string {
	switch {
	case status >= 500 || status == 0:
		return ColorRed
	case status >= 400:
		return ColorYellow
	default:
		return ColorGreen
	}
}

func Banner(host string, port int) {
	fmt.Printf(`
%s╔════════════════════════════════════════════════════════════╗
║           %sInspecciones%s - Web                                ║
╚════════════════════════════════════════════════════════════╝%s
`, ColorCyan, ColorGreen, ColorCyan, ColorReset)

	cfg := config.Get()
	Info("Server starting on %s:%d", host, port)
	Info("Inspections API: %s", cfg.APIBaseURL)
	Info("Debug level: %s", cfg.Debug)
	Info("Form drafts: prefix=%s retention=%dd", cfg.FormCookiePrefix, cfg.FormRetentionDays)

	if !cfg.FormCookieSecure {
		Warn("FORM_COOKIE_SECURE=false - draft cookies sent over plain HTTP")
	}
	if cfg.APIToken == "" {
		Warn("API_TOKEN not set - upstream requests are unauthenticated")
	}

	fmt.Println()
}
