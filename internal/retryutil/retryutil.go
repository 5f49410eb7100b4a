package retryutil

import (
	"github.com/avast/retry-go/v4"
)

// RetryWithoutData runs retryableFunc with three attempts, reporting only the
// last error. Options passed by the caller take precedence.
func RetryWithoutData(retryableFunc retry.RetryableFunc, opts ...retry.Option) error {
	options := append([]retry.Option{retry.Attempts(3), retry.LastErrorOnly(true)}, opts...)
	return retry.Do(retryableFunc, options...)
}
