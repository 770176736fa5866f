package invocation

import "log/slog"

// Option configures a Session.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	serializer CallSerializer
	usageHint  string
}

func defaultOptions() options {
	return options{
		logger:     slog.Default(),
		serializer: defaultSerializer,
	}
}

// WithLogger sets the logger used for recording and replay events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCallSerializer replaces the serializer used to describe calls.
func WithCallSerializer(serializer CallSerializer) Option {
	return func(o *options) {
		if serializer != nil {
			o.serializer = serializer
		}
	}
}

// WithUsageHint sets guidance appended to the empty session error, typically
// an example of the expected recording syntax.
func WithUsageHint(hint string) Option {
	return func(o *options) {
		o.usageHint = hint
	}
}
