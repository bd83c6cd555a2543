package internal

type piklInstance struct {
	class  *piklClass
	fields map[string]interface{}
}

func newInstance(class *piklClass) *piklInstance {
	return &piklInstance{
		class:  class,
		fields: make(map[string]interface{}),
	}
}

// get looks at fields first, so a field shadows a method with the same name
func (o *piklInstance) get(name *token) (interface{}, error) {
	if val, ok := o.fields[name.lexeme]; ok {
		return val, nil
	}
	if method := o.class.findMethod(name.lexeme); method != nil {
		return method.bind(o), nil
	}
	return nil, runtimeErr(
		withDetail(errUndefinedProp, "Undefined property '%s'.", name.lexeme),
		name,
	)
}

func (o *piklInstance) set(name *token, value interface{}) {
	o.fields[name.lexeme] = value
}

func (o *piklInstance) String() string {
	return o.class.name + " instance"
}
