package internal

import (
	"errors"
	"time"
)

type flow int

const (
	flowNormal flow = iota
	flowReturn
)

// outcome tells how a statement finished. A return unwinds through blocks
// and loops as flowReturn and is only consumed by the function call.
type outcome struct {
	flow  flow
	value interface{}
}

var normal = outcome{flow: flowNormal}

type exec struct {
	state *interpreterState

	globals *env
	env     *env
	locals  map[expr]int

	printer IPrinter
}

func newExec(printer IPrinter, now func() time.Time) *exec {
	globals := newEnv(nil)
	defineGlobals(globals, now)
	return &exec{
		globals: globals,
		env:     globals,
		locals:  make(map[expr]int),
		printer: printer,
	}
}

// interpret runs every statement and stops at the first runtime error
func (e *exec) interpret() bool {
	for _, s := range e.state.stmts {
		if _, err := e.execute(s); err != nil {
			e.state.runtimeError(err)
			return false
		}
	}
	return true
}

func (e *exec) execute(s stmt) (outcome, error) {
	switch s := s.(type) {
	case *blockStmt:
		return e.executeBlock(s.stmts, newEnv(e.env))
	case *classStmt:
		return normal, e.executeClass(s)
	case *expressionStmt:
		_, err := e.evaluate(s.expression)
		return normal, err
	case *functionStmt:
		e.env.define(s.name.lexeme, &piklFunction{
			declaration:   s,
			closure:       e.env,
			isInitializer: false,
		})
		return normal, nil
	case *ifStmt:
		cond, err := e.evaluate(s.condition)
		if err != nil {
			return normal, err
		}
		if truthy(cond) {
			return e.execute(s.thenBranch)
		}
		if s.elseBranch != nil {
			return e.execute(s.elseBranch)
		}
		return normal, nil
	case *printStmt:
		value, err := e.evaluate(s.expression)
		if err != nil {
			return normal, err
		}
		e.printer.Println(stringify(value))
		return normal, nil
	case *returnStmt:
		var value interface{}
		if s.value != nil {
			var err error
			if value, err = e.evaluate(s.value); err != nil {
				return normal, err
			}
		}
		return outcome{flow: flowReturn, value: value}, nil
	case *varStmt:
		var value interface{} = uninitialized{}
		if s.initializer != nil {
			var err error
			if value, err = e.evaluate(s.initializer); err != nil {
				return normal, err
			}
		}
		e.env.define(s.name.lexeme, value)
		return normal, nil
	case *whileStmt:
		for {
			cond, err := e.evaluate(s.condition)
			if err != nil {
				return normal, err
			}
			if !truthy(cond) {
				return normal, nil
			}
			result, err := e.execute(s.body)
			if err != nil || result.flow != flowNormal {
				return result, err
			}
		}
	}
	return normal, nil
}

func (e *exec) executeBlock(stmts []stmt, env *env) (outcome, error) {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = env
	for _, s := range stmts {
		result, err := e.execute(s)
		if err != nil || result.flow != flowNormal {
			return result, err
		}
	}
	return normal, nil
}

func (e *exec) executeClass(s *classStmt) error {
	var superclass *piklClass
	if s.superclass != nil {
		value, err := e.evaluate(s.superclass)
		if err != nil {
			return err
		}
		class, ok := value.(*piklClass)
		if !ok {
			return runtimeErr(errSuperclassNotClass, s.superclass.name)
		}
		superclass = class
	}

	// Bound before the methods exist so they can refer to the class
	e.env.define(s.name.lexeme, nil)

	enclosing := e.env
	defer func() {
		e.env = enclosing
	}()
	if superclass != nil {
		e.env = newEnv(e.env)
		e.env.define("super", superclass)
	}

	methods := make(map[string]*piklFunction, len(s.methods))
	for _, method := range s.methods {
		methods[method.name.lexeme] = &piklFunction{
			declaration:   method,
			closure:       e.env,
			isInitializer: method.name.lexeme == "init",
		}
	}

	class := &piklClass{
		name:       s.name.lexeme,
		superclass: superclass,
		methods:    methods,
	}

	if err := enclosing.assign(s.name.lexeme, class); err != nil {
		return runtimeErr(err, s.name)
	}
	return nil
}

func (e *exec) evaluate(ex expr) (interface{}, error) {
	switch ex := ex.(type) {
	case *assignExpr:
		value, err := e.evaluate(ex.value)
		if err != nil {
			return nil, err
		}
		if distance, ok := e.locals[ex]; ok {
			e.env.assignAt(distance, ex.name.lexeme, value)
		} else if err := e.globals.assign(ex.name.lexeme, value); err != nil {
			return nil, runtimeErr(err, ex.name)
		}
		return value, nil
	case *binaryExpr:
		return e.binary(ex)
	case *callExpr:
		return e.call(ex)
	case *getExpr:
		object, err := e.evaluate(ex.object)
		if err != nil {
			return nil, err
		}
		if instance, ok := object.(*piklInstance); ok {
			return instance.get(ex.name)
		}
		return nil, runtimeErr(errOnlyInstanceProps, ex.name)
	case *groupingExpr:
		return e.evaluate(ex.expression)
	case *literalExpr:
		return ex.value, nil
	case *logicalExpr:
		left, err := e.evaluate(ex.left)
		if err != nil {
			return nil, err
		}
		if ex.operator.token == tkOr {
			if truthy(left) {
				return left, nil
			}
		} else if !truthy(left) {
			return left, nil
		}
		return e.evaluate(ex.right)
	case *setExpr:
		value, err := e.evaluate(ex.value)
		if err != nil {
			return nil, err
		}
		object, err := e.evaluate(ex.object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*piklInstance)
		if !ok {
			return nil, runtimeErr(errOnlyInstanceFields, ex.name)
		}
		instance.set(ex.name, value)
		return value, nil
	case *superExpr:
		return e.super(ex)
	case *thisExpr:
		return e.lookUpVariable(ex.keyword, ex)
	case *unaryExpr:
		return e.unary(ex)
	case *variableExpr:
		return e.lookUpVariable(ex.name, ex)
	}
	return nil, nil
}

func (e *exec) lookUpVariable(name *token, ex expr) (interface{}, error) {
	var value interface{}
	var err error
	if distance, ok := e.locals[ex]; ok {
		value, err = e.env.getAt(distance, name.lexeme)
	} else {
		value, err = e.globals.get(name.lexeme)
	}
	if err != nil {
		return nil, runtimeErr(err, name)
	}
	return value, nil
}

func (e *exec) binary(ex *binaryExpr) (interface{}, error) {
	left, err := e.evaluate(ex.left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluate(ex.right)
	if err != nil {
		return nil, err
	}

	switch ex.operator.token {
	case tkEqualEqual:
		return left == right, nil
	case tkBangEqual:
		return left != right, nil
	case tkPlus:
		_, leftStr := left.(string)
		_, rightStr := right.(string)
		if leftStr || rightStr {
			return stringify(left) + stringify(right), nil
		}
		nums, ok := toNumbers(left, right)
		if !ok {
			return nil, runtimeErr(errNumbersOrStrings, ex.operator)
		}
		return e.applyNumbers(nums, ex.operator)
	}

	nums, ok := toNumbers(left, right)
	if !ok {
		return nil, runtimeErr(errOnlyNumbers, ex.operator)
	}
	return e.applyNumbers(nums, ex.operator)
}

func (e *exec) applyNumbers(nums numbers, operator *token) (interface{}, error) {
	value, err := nums.apply(operator.token)
	if err != nil {
		return nil, runtimeErr(err, operator)
	}
	return value, nil
}

func (e *exec) unary(ex *unaryExpr) (interface{}, error) {
	value, err := e.evaluate(ex.right)
	if err != nil {
		return nil, err
	}
	switch ex.operator.token {
	case tkBang:
		return !truthy(value), nil
	case tkMinus:
		switch n := value.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
	}
	return nil, runtimeErr(errOnlyNumber, ex.operator)
}

func (e *exec) call(ex *callExpr) (interface{}, error) {
	callee, err := e.evaluate(ex.callee)
	if err != nil {
		return nil, err
	}
	arguments := make([]interface{}, len(ex.arguments))
	for i := range ex.arguments {
		if arguments[i], err = e.evaluate(ex.arguments[i]); err != nil {
			return nil, err
		}
	}

	fn, isFn := callee.(callable)
	if !isFn {
		return nil, runtimeErr(errOnlyFunction, ex.paren)
	}

	if len(arguments) != fn.arity() {
		return nil, runtimeErr(withDetail(
			errInvalidNumberArguments,
			"Expected %d arguments but got %d.", fn.arity(), len(arguments),
		), ex.paren)
	}

	value, err := fn.call(e, arguments)
	if err != nil {
		var runErr *runtimeError
		if !errors.As(err, &runErr) {
			err = runtimeErr(err, ex.paren)
		}
		return nil, err
	}
	return value, nil
}

func (e *exec) super(ex *superExpr) (interface{}, error) {
	distance, ok := e.locals[ex]
	if !ok {
		return nil, runtimeErr(withDetail(errUnresolvedVar, "Unresolved local variable 'super'."), ex.keyword)
	}
	superValue, err := e.env.getAt(distance, "super")
	if err != nil {
		return nil, runtimeErr(err, ex.keyword)
	}
	thisValue, err := e.env.getAt(distance-1, "this")
	if err != nil {
		return nil, runtimeErr(err, ex.keyword)
	}

	superclass, ok := superValue.(*piklClass)
	if !ok {
		return nil, runtimeErr(errSuperclassNotClass, ex.keyword)
	}
	instance, ok := thisValue.(*piklInstance)
	if !ok {
		return nil, runtimeErr(errOnlyInstanceProps, ex.keyword)
	}

	method := superclass.findMethod(ex.method.lexeme)
	if method == nil {
		return nil, runtimeErr(
			withDetail(errUndefinedProp, "Undefined property '%s'.", ex.method.lexeme),
			ex.method,
		)
	}
	return method.bind(instance), nil
}
