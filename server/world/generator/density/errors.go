package density

import "errors"

// ErrUnresolvedRef is wrapped with the dangling node name it was raised
// for.
var ErrUnresolvedRef = errors.New("density function: unresolved reference")

// ErrCycle is wrapped with the node name the back-edge was detected at
//.
var ErrCycle = errors.New("density function: cyclic reference")
