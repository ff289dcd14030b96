package diag

// Severity defines the importance of a diagnostic. Higher values are more
// severe; only SevError blocks later phases.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form used by the one-line renderings.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

// Suppressible reports whether a warning filter may drop diagnostics of
// this severity.
func (s Severity) Suppressible() bool { return s != SevError }
