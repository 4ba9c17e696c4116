package queenio

import "math"

// Token identifies a registration on a Poll. The value is carried back
// unchanged with every Event for that registration, so callers typically
// use it as an index into their own connection table.
type Token int

// InvalidToken is never assigned by the library and may be used as a
// sentinel for "no registration".
const InvalidToken = Token(math.MaxInt)
