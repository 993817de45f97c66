package trytebuffer

// DefaultSymbolLimit is the chunk budget applied when Options.SymbolLimit is 0.
// 2187 = 3^7 symbols.
const DefaultSymbolLimit = 2187

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
