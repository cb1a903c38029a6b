package ports

import "time"

// Clock is the trusted time source of the engine.
type Clock interface {
	Now() time.Time
}
