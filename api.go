package trytebuffer

// Mode selects how a Buffer reacts to schema and data mismatches.
type Mode uint8

const (
	// Lenient degrades silently: unknown types encode to nothing, unlisted
	// enum values map to the first member, missing or uncoercible values
	// encode as their zero value and out-of-range numbers are clamped.
	// Every substitution is reported to Hooks.Fallback.
	Lenient Mode = iota
	// Strict validates the schema at construction and returns errors
	// wherever Lenient would substitute.
	Strict
)

func (m Mode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	}
	return "unknown"
}

// Options tune a Buffer. The zero value is a lenient buffer with the default
// symbol limit, no logging and no hooks.
type Options struct {
	// SymbolLimit is the advisory encoded length. 0 selects
	// DefaultSymbolLimit, unlike a zero limit in other tryte encoders which
	// disables the check; pass a negative value to disable it here.
	SymbolLimit int
	Mode        Mode   // default Lenient
	Logger      Logger // if nil, NopLogger is used
	Hooks       Hooks  // if nil, NopHooks is used
}

// Result is the outcome of one encode.
type Result struct {
	Symbols   string
	Length    int
	OverLimit bool // advisory; the encoding is never truncated
}

// New compiles schema into a Buffer. A nil schema is an error; an empty one
// is valid and encodes every record to the empty string.
func New(schema Schema, opts Options) (*Buffer, error) {
	return newBuffer(schema, opts)
}

// MustNew is like New but panics on error. Handy for package-level schemas.
func MustNew(schema Schema, opts Options) *Buffer {
	b, err := New(schema, opts)
	if err != nil {
		panic(err)
	}
	return b
}
