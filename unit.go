package future

// Unit is the value a void-returning callback's result lifts to (spec
// §4.E "a void return lifts to a unit value"), mirroring the role of
// Unit.hpp in the original source.
type Unit struct{}
