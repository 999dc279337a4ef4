package version

import "fmt"

// Заполняются при сборке:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.3 ..."
var (
	Version = "dev"
	Commit  = "none"
	BuiltAt = "unknown"
)

// String возвращает строку о сборке для стартового лога и health-ответа.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuiltAt)
}
