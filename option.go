package kvstore

import "log/slog"

type RepositoryOption func(o *option)

type option struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for per-operation debug records.
func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(o *option) {
		o.logger = logger
	}
}

type MutationOption func(o *mutationOption)

type mutationOption struct {
	throwOnNotFound bool
}

// ThrowOnNotFound controls whether Update and Delete fail with
// UpdateNotFoundError when no row matched the key. Update throws by
// default, Delete does not.
func ThrowOnNotFound(throw bool) MutationOption {
	return func(o *mutationOption) {
		o.throwOnNotFound = throw
	}
}

func applyMutationOptions(defaultThrow bool, options []MutationOption) *mutationOption {
	opt := &mutationOption{throwOnNotFound: defaultThrow}
	for _, op := range options {
		op(opt)
	}
	return opt
}
