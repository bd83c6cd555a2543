package internal

import "fmt"

type callable interface {
	arity() int
	call(exec *exec, arguments []interface{}) (interface{}, error)
}

type piklFunction struct {
	declaration   *functionStmt
	closure       *env
	isInitializer bool
}

func (f *piklFunction) arity() int {
	return len(f.declaration.params)
}

func (f *piklFunction) call(exec *exec, arguments []interface{}) (interface{}, error) {
	environment := newEnv(f.closure)
	for i, param := range f.declaration.params {
		environment.define(param.lexeme, arguments[i])
	}

	result, err := exec.executeBlock(f.declaration.body, environment)
	if err != nil {
		return nil, err
	}

	// Initializers always hand back the instance, even on a bare return
	if f.isInitializer {
		return f.closure.getAt(0, "this")
	}
	if result.flow == flowReturn {
		return result.value, nil
	}
	return nil, nil
}

// bind wraps the closure in a scope where 'this' is the given instance
func (f *piklFunction) bind(instance *piklInstance) *piklFunction {
	environment := newEnv(f.closure)
	environment.define("this", instance)
	return &piklFunction{
		declaration:   f.declaration,
		closure:       environment,
		isInitializer: f.isInitializer,
	}
}

func (f *piklFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
}
