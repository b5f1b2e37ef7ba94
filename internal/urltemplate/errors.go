package urltemplate

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTemplate is returned when Resolve is given an empty template.
	ErrEmptyTemplate = errors.New("url template is empty")
	// ErrMissingPathParam matches every *MissingParamError.
	ErrMissingPathParam = errors.New("missing path parameter")
	// ErrUnresolvedPlaceholder matches every *UnresolvedError.
	ErrUnresolvedPlaceholder = errors.New("not all path parameters replaced")
)

// MissingParamError reports a placeholder whose value is absent or nil.
type MissingParamError struct {
	Name     string
	Template string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing path parameter: %s", e.Name)
}

func (e *MissingParamError) Unwrap() error {
	return ErrMissingPathParam
}

// UnresolvedError reports placeholder syntax left over after substitution.
// Partial holds the partially resolved URL.
type UnresolvedError struct {
	Template    string
	Partial     string
	Placeholder string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("not all path parameters replaced: %s", e.Partial)
}

func (e *UnresolvedError) Unwrap() error {
	return ErrUnresolvedPlaceholder
}
