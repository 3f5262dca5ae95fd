package models

// Timing carries the injected scheduling constants the date derivations need.
// Values come from the scheduling section of the application config; the
// model methods never hard-code them.
type Timing struct {
	// MinWeeks is the filler-session threshold: sessions at or below it are
	// skipped when chaining forward and expire on the short offset.
	MinWeeks int
	// MaxWeeks bounds the week index a resource can publish on.
	MaxWeeks int
	// DefaultWeeks and DefaultMaxDayShift fill absent fields on new sessions.
	DefaultWeeks       int
	DefaultMaxDayShift int
	// LongExpireOffset and ShortExpireOffset are days past the final key day
	// before a normal/filler session expires.
	LongExpireOffset  int
	ShortExpireOffset int
	// ResolveMaxIterations caps the overlap-resolution loop.
	ResolveMaxIterations int
}
