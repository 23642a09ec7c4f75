// Package plotopt generalizes the teacher's x/options functional-option
// helper (Option func(cfg interface{}), ApplyOptions) with a type
// parameter, since every constructor in this module targets a concrete
// config struct rather than an untyped one.
package plotopt

// Option mutates a configuration value of type T in place.
type Option[T any] func(cfg *T)

// Apply runs every option over cfg, in order.
func Apply[T any](cfg *T, opts ...Option[T]) {
	for _, opt := range opts {
		opt(cfg)
	}
}
