package di

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-immediate-module/binder"
	"github.com/goliatone/go-immediate-module/internal/errkit"
)

// Text codes for resolution errors.
const (
	TextCodeUnboundKey       = "UNBOUND_KEY"
	TextCodeDependencyCycle  = "DEPENDENCY_CYCLE"
	TextCodeProviderFailed   = "PROVIDER_FAILED"
	TextCodeInjectionFailed  = "INJECTION_FAILED"
	TextCodeContainerInvalid = "CONTAINER_INVALID"
)

func newUnboundKeyError(key binder.Key, reason string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("no binding for %s: %s", key, reason), goerrors.CategoryNotFound).
		WithTextCode(TextCodeUnboundKey).
		WithMetadata(map[string]any{"key": key.String()})
}

func newCycleError(path []binder.Key, key binder.Key) *goerrors.Error {
	names := make([]string, 0, len(path)+1)
	for _, k := range path {
		names = append(names, k.String())
	}
	names = append(names, key.String())
	return goerrors.New("dependency cycle: "+strings.Join(names, " -> "), goerrors.CategoryConflict).
		WithTextCode(TextCodeDependencyCycle).
		WithMetadata(map[string]any{"path": names})
}

func newProviderError(key binder.Key, cause error) *goerrors.Error {
	return errkit.Wrap(cause, goerrors.CategoryOperation, fmt.Sprintf("provider for %s failed", key)).
		WithTextCode(TextCodeProviderFailed).
		WithMetadata(map[string]any{"key": key.String()})
}

func newInjectionError(owner string, field string, cause error) *goerrors.Error {
	msg := fmt.Sprintf("injecting %s.%s", owner, field)
	if cause == nil {
		return goerrors.New(msg+": field is not exported", goerrors.CategoryBadInput).
			WithTextCode(TextCodeInjectionFailed)
	}
	return errkit.Wrap(cause, goerrors.CategoryOperation, msg).
		WithTextCode(TextCodeInjectionFailed).
		WithMetadata(map[string]any{"type": owner, "field": field})
}

// IsUnbound reports whether err was caused by a key with no usable binding.
func IsUnbound(err error) bool { return hasTextCode(err, TextCodeUnboundKey) }

// IsCycle reports whether err was caused by a dependency cycle.
func IsCycle(err error) bool { return hasTextCode(err, TextCodeDependencyCycle) }

func hasTextCode(err error, code string) bool {
	return errkit.HasTextCode(err, code)
}
