package internal

// uninitialized marks a variable declared without an initializer, so it
// can be told apart from one explicitly holding nil
type uninitialized struct{}

type env struct {
	enclosing *env
	values    map[string]interface{}
}

func newEnv(enclosing *env) *env {
	return &env{
		enclosing: enclosing,
		values:    make(map[string]interface{}),
	}
}

func (e *env) get(name string) (interface{}, error) {
	for current := e; current != nil; current = current.enclosing {
		if value, ok := current.values[name]; ok {
			return checkInitialized(name, value)
		}
	}
	return nil, withDetail(errUndefinedVar, "Undefined variable '%s'.", name)
}

func (e *env) define(name string, value interface{}) {
	e.values[name] = value
}

func (e *env) assign(name string, value interface{}) error {
	for current := e; current != nil; current = current.enclosing {
		if _, ok := current.values[name]; ok {
			current.values[name] = value
			return nil
		}
	}
	return withDetail(errUndefinedVar, "Undefined variable '%s'.", name)
}

func (e *env) ancestor(distance int) *env {
	current := e
	for i := 0; i < distance; i++ {
		current = current.enclosing
	}
	return current
}

func (e *env) getAt(distance int, name string) (interface{}, error) {
	value, ok := e.ancestor(distance).values[name]
	if !ok {
		return nil, withDetail(errUnresolvedVar, "Unresolved local variable '%s'.", name)
	}
	return checkInitialized(name, value)
}

func (e *env) assignAt(distance int, name string, value interface{}) {
	e.ancestor(distance).values[name] = value
}

func checkInitialized(name string, value interface{}) (interface{}, error) {
	if _, ok := value.(uninitialized); ok {
		return nil, withDetail(errUninitializedVar, "Uninitialised variable '%s'.", name)
	}
	return value, nil
}
