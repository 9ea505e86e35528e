package geyser

// LogLevel mirrors the handful of levels the teacher's runtime logs at
// (github.com/filecoin-project/go-state-types/rt), without pulling in the
// rest of that VM-runtime package for a single enum.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

// Logger is the minimal leveled-logging surface the engine uses to report a
// degenerate input: a staking pool driven to zero by a rebase or an unstake
// amount too small to burn a share (both then fail with ErrUnstakeTooSmall),
// or a lock amount too small to mint a distribution share (which still
// proceeds). Engines constructed without one get NopLogger.
type Logger interface {
	Logf(level LogLevel, format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(LogLevel, string, ...interface{}) {}

// NopLogger discards everything logged to it.
var NopLogger Logger = nopLogger{}
