package trytebuffer

// Reasons passed to Hooks.Fallback when a lenient buffer substitutes a value.
const (
	ReasonUnknownType  = "unknown_type"
	ReasonMissingField = "missing_field"
	ReasonEnumValue    = "enum_value"
	ReasonEnumIndex    = "enum_index"
	ReasonCoerce       = "coerce"
	ReasonClamp        = "clamp"
	ReasonTruncate     = "truncate"
)

// Hooks receive high-signal buffer events.
// Implementations MUST be cheap and non-blocking; they run inside Encode and Decode.
type Hooks interface {
	// A lenient buffer degraded a field instead of failing.
	// reason is one of the Reason* constants.
	Fallback(field, reason string)

	// An encoding exceeded the configured symbol limit.
	OverLimit(length, limit int)

	// Decode rejected its input at field.
	DecodeRejected(field string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Fallback(string, string)      {}
func (NopHooks) OverLimit(int, int)           {}
func (NopHooks) DecodeRejected(string, error) {}
