package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyJob        = "job"
	KeyToken      = "job_token"
	KeyStrategy   = "strategy"
	KeyPass       = "pass"
	KeyExitCode   = "exit_code"
	KeyPath       = "path"
	KeyFormat     = "format"
	KeyDPI        = "dpi"
	KeyDurationMS = "duration_ms"
	KeyPages      = "pages"
	KeyMethod     = "method"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Job(name string) slog.Attr        { return slog.String(KeyJob, name) }
func Token(t string) slog.Attr         { return slog.String(KeyToken, t) }
func Strategy(s string) slog.Attr      { return slog.String(KeyStrategy, s) }
func Pass(n int) slog.Attr             { return slog.Int(KeyPass, n) }
func ExitCode(c int) slog.Attr         { return slog.Int(KeyExitCode, c) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Format(f string) slog.Attr        { return slog.String(KeyFormat, f) }
func DPI(d int) slog.Attr              { return slog.Int(KeyDPI, d) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Pages(n int) slog.Attr            { return slog.Int(KeyPages, n) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func RemoteAddr(a string) slog.Attr    { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
