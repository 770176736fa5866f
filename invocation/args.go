package invocation

// Arg returns args[index] as T. Executors use it to unpack recorded
// arguments; a missing or mistyped argument yields a bad argument error
// instead of a panic. A nil argument is returned as the zero T.
func Arg[T any](args []any, index int) (T, error) {
	var zero T
	if index < 0 || index >= len(args) {
		return zero, newBadArgumentError(index, typeName[T](), args)
	}
	if args[index] == nil {
		return zero, nil
	}
	v, ok := args[index].(T)
	if !ok {
		return zero, newBadArgumentError(index, typeName[T](), args)
	}
	return v, nil
}
