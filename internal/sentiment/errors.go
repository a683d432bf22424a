package sentiment

import "errors"

// Fatal input errors. Everything else the engine hits (unparsable cells,
// missing price, unmatched expiry pattern, empty range subsets) is recovered
// with a documented fallback and never reaches the caller.
var (
	// ErrMalformedChain means a table is missing the Strike column, the one
	// structural precondition checked before cell-level coercion.
	ErrMalformedChain = errors.New("option table missing Strike column")

	// ErrEmptyChain means one side of the chain has no rows at all.
	ErrEmptyChain = errors.New("option chain has no rows")

	// ErrInsufficientLiquidity means both sides have a maximum volume of
	// zero: the snapshot is structurally valid but unusable for sentiment.
	ErrInsufficientLiquidity = errors.New("no traded volume on either side of the chain")
)
