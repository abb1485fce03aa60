package rop

import (
	"context"
	"errors"
	"reflect"
)

func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// GetErrors splits an errors.Join result back into its parts.
func GetErrors(err error) []error {
	if IsNil(err) {
		return []error{}
	}

	e, ok := err.(interface{ Unwrap() []error })
	if ok {
		return e.Unwrap()
	}

	return []error{err}
}

func IsCancellationError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// Values returns the successful values of results in their original order
// together with the indexes of the slots that did not succeed.
func Values[T any](results []Result[T]) (values []T, failed []int) {
	values = make([]T, 0, len(results))
	for i, r := range results {
		if r.IsSuccess() {
			values = append(values, r.Result())
			continue
		}
		failed = append(failed, i)
	}
	return values, failed
}
