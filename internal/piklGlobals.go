package internal

import (
	"os"
	"time"
)

type nativeFn struct {
	name       string
	arityValue int
	callFn     func(exec *exec, arguments []interface{}) (interface{}, error)
}

func (n *nativeFn) arity() int {
	return n.arityValue
}

func (n *nativeFn) call(exec *exec, arguments []interface{}) (interface{}, error) {
	return n.callFn(exec, arguments)
}

func (n *nativeFn) String() string {
	return "<native fn>"
}

func defineGlobals(e *env, now func() time.Time) {
	natives := []*nativeFn{
		defineClock(now),
		defineType(),
		defineStr(),
		defineEnv(),
	}
	for _, fn := range natives {
		e.define(fn.name, fn)
	}
}

func defineClock(now func() time.Time) *nativeFn {
	return &nativeFn{
		name:       "clock",
		arityValue: 0,
		callFn: func(exec *exec, arguments []interface{}) (interface{}, error) {
			return float64(now().UnixNano()) / float64(time.Second), nil
		},
	}
}

func defineType() *nativeFn {
	return &nativeFn{
		name:       "type",
		arityValue: 1,
		callFn: func(exec *exec, arguments []interface{}) (interface{}, error) {
			return typeName(arguments[0]), nil
		},
	}
}

func defineStr() *nativeFn {
	return &nativeFn{
		name:       "str",
		arityValue: 1,
		callFn: func(exec *exec, arguments []interface{}) (interface{}, error) {
			return stringify(arguments[0]), nil
		},
	}
}

func defineEnv() *nativeFn {
	return &nativeFn{
		name:       "env",
		arityValue: 1,
		callFn: func(exec *exec, arguments []interface{}) (interface{}, error) {
			name, ok := arguments[0].(string)
			if !ok {
				return nil, errExpectedString
			}
			value, ok := os.LookupEnv(name)
			if !ok {
				return nil, nil
			}
			return value, nil
		},
	}
}
