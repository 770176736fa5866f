// Package errkit holds the go-errors helpers shared by the module's packages.
package errkit

import (
	goerrors "github.com/goliatone/go-errors"
)

// Wrap returns a new error with cause as its Source. Unlike goerrors.Wrap it
// never merges into a cause that is already a *goerrors.Error, so the text
// codes of inner errors stay reachable.
func Wrap(cause error, category goerrors.Category, message string) *goerrors.Error {
	e := goerrors.New(message, category)
	e.Source = cause
	return e
}

// HasTextCode reports whether any *goerrors.Error in err's tree carries code.
// Joined errors are searched branch by branch.
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if ge, ok := err.(*goerrors.Error); ok && ge.TextCode == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if HasTextCode(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return HasTextCode(u.Unwrap(), code)
	}
	return false
}
