package assets

import "fmt"

// LoadError reports a model that could not be fetched or decoded.
type LoadError struct {
	Ref string
	Op  string // "fetch" or "decode"
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Ref, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
