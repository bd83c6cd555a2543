package internal

type piklClass struct {
	name       string
	superclass *piklClass
	methods    map[string]*piklFunction
}

func (c *piklClass) findMethod(name string) *piklFunction {
	if method, ok := c.methods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *piklClass) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

func (c *piklClass) call(exec *exec, arguments []interface{}) (interface{}, error) {
	instance := newInstance(c)
	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(instance).call(exec, arguments); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *piklClass) String() string {
	return c.name
}
