package metrix

import "errors"

// ErrDuplicateName is returned when a named child collides with one already
// present: a Panel instrument name, a Cockpit panel name, or a
// ProcessorMount processor name. It is a construction/topology error the
// caller can recover from; it never arises from the runtime observation
// path.
var ErrDuplicateName = errors.New("metrix: duplicate name")
