package util

import (
	"fmt"
	"reflect"
)

type ErrorString string

func (this ErrorString) Error() string {
	return string(this)
}

func IsReallyNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch reflectValue := reflect.ValueOf(value); reflectValue.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr,
		reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return reflectValue.IsNil()
	default:
		return false
	}
}

func PanicIfNotNil(value interface{}) bool {
	if !IsReallyNil(value) {
		panic(value)
	}
	return true
}

// PanicError is what a recovered panic turns into when it was not an error already.
type PanicError struct {
	Value interface{}
}

func (self *PanicError) Error() string {
	return fmt.Sprint("panic: ", self.Value)
}

// RecoverTo must be deferred directly. It stores a recovered panic into err_ptr.
func RecoverTo(err_ptr *error) {
	caught := recover()
	if caught == nil {
		return
	}
	if err, is_err := caught.(error); is_err {
		*err_ptr = err
		return
	}
	*err_ptr = &PanicError{caught}
}
