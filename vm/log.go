package vm

import "go.uber.org/zap"

// log is the package-wide structured logger, defaulting to a no-op so
// importing this package never forces stderr output on a caller that
// hasn't opted in. The VM stays usable as a library first, a CLI-driven
// program second.
var log *zap.SugaredLogger = zap.NewNop().Sugar()

// SetLogger installs a configured zap logger, used by the CLI entrypoint
// once it parses the --verbose flag.
func SetLogger(l *zap.Logger) {
	log = l.Sugar()
}
