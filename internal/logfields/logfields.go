package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyTrigger    = "trigger"
	KeyRule       = "rule"
	KeySeverity   = "severity"
	KeyPage       = "page"
	KeyCollection = "collection"
	KeyConfigKey  = "config_key"
	KeySuffix     = "suffix"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Trigger(t string) slog.Attr       { return slog.String(KeyTrigger, t) }
func Rule(name string) slog.Attr       { return slog.String(KeyRule, name) }
func Severity(s string) slog.Attr      { return slog.String(KeySeverity, s) }
func Page(p string) slog.Attr          { return slog.String(KeyPage, p) }
func Collection(c string) slog.Attr    { return slog.String(KeyCollection, c) }
func ConfigKey(k string) slog.Attr     { return slog.String(KeyConfigKey, k) }
func Suffix(s string) slog.Attr        { return slog.String(KeySuffix, s) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
