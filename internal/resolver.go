package internal

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	clsNone classType = iota
	clsClass
	clsSubclass
)

// resolver binds every local variable reference to the number of scopes
// between the reference and its declaration. Globals are left unresolved.
type resolver struct {
	state *interpreterState

	// each scope maps a name to whether its initializer has finished
	scopes          []map[string]bool
	locals          map[expr]int
	currentFunction functionType
	currentClass    classType
}

func newResolver(state *interpreterState, locals map[expr]int) *resolver {
	return &resolver{
		state:  state,
		scopes: make([]map[string]bool, 0),
		locals: locals,
	}
}

func (r *resolver) resolve(stmts []stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s stmt) {
	switch s := s.(type) {
	case *blockStmt:
		r.beginScope()
		r.resolve(s.stmts)
		r.endScope()
	case *classStmt:
		r.resolveClass(s)
	case *expressionStmt:
		r.resolveExpr(s.expression)
	case *functionStmt:
		r.declare(s.name)
		r.define(s.name)
		r.resolveFunction(s, fnFunction)
	case *ifStmt:
		r.resolveExpr(s.condition)
		r.resolveStmt(s.thenBranch)
		if s.elseBranch != nil {
			r.resolveStmt(s.elseBranch)
		}
	case *printStmt:
		r.resolveExpr(s.expression)
	case *returnStmt:
		if r.currentFunction == fnNone {
			r.state.staticError(errTopLevelReturn, s.keyword)
		}
		if s.value != nil {
			if r.currentFunction == fnInitializer {
				r.state.staticError(errInitializerReturn, s.keyword)
			}
			r.resolveExpr(s.value)
		}
	case *varStmt:
		r.declare(s.name)
		if s.initializer != nil {
			r.resolveExpr(s.initializer)
		}
		r.define(s.name)
	case *whileStmt:
		r.resolveExpr(s.condition)
		r.resolveStmt(s.body)
	}
}

func (r *resolver) resolveClass(s *classStmt) {
	enclosingClass := r.currentClass
	r.currentClass = clsClass
	defer func() {
		r.currentClass = enclosingClass
	}()

	r.declare(s.name)

	if s.superclass != nil {
		r.currentClass = clsSubclass
		r.resolveExpr(s.superclass)
	}

	r.define(s.name)

	if s.superclass != nil {
		r.beginScope()
		r.peek()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.peek()["this"] = true

	for _, method := range s.methods {
		declaration := fnMethod
		if method.name.lexeme == "init" {
			declaration = fnInitializer
		}
		r.resolveFunction(method, declaration)
	}

	r.endScope()
}

func (r *resolver) resolveFunction(fn *functionStmt, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.params {
		r.declare(param)
		r.define(param)
	}
	r.resolve(fn.body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *resolver) resolveExpr(e expr) {
	switch e := e.(type) {
	case *assignExpr:
		r.resolveExpr(e.value)
		r.resolveLocal(e, e.name)
	case *binaryExpr:
		r.resolveExpr(e.left)
		r.resolveExpr(e.right)
	case *callExpr:
		r.resolveExpr(e.callee)
		for _, argument := range e.arguments {
			r.resolveExpr(argument)
		}
	case *getExpr:
		r.resolveExpr(e.object)
	case *groupingExpr:
		r.resolveExpr(e.expression)
	case *literalExpr:
	case *logicalExpr:
		r.resolveExpr(e.left)
		r.resolveExpr(e.right)
	case *setExpr:
		r.resolveExpr(e.value)
		r.resolveExpr(e.object)
	case *superExpr:
		if r.currentClass == clsNone {
			r.state.staticError(errSuperOutsideClass, e.keyword)
		} else if r.currentClass != clsSubclass {
			r.state.staticError(errSuperNoSuperclass, e.keyword)
		}
		r.resolveLocal(e, e.keyword)
	case *thisExpr:
		if r.currentClass == clsNone {
			r.state.staticError(errThisOutsideClass, e.keyword)
			return
		}
		r.resolveLocal(e, e.keyword)
	case *unaryExpr:
		r.resolveExpr(e.right)
	case *variableExpr:
		if len(r.scopes) != 0 {
			if defined, declared := r.peek()[e.name.lexeme]; declared && !defined {
				r.state.staticError(errOwnInitializer, e.name)
			}
		}
		r.resolveLocal(e, e.name)
	}
}

func (r *resolver) resolveLocal(e expr, name *token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.lexeme]; ok {
			r.locals[e] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found, assume it is global
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peek() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.peek()
	if _, ok := scope[name.lexeme]; ok {
		r.state.staticError(errAlreadyDeclared, name)
	}
	scope[name.lexeme] = false
}

func (r *resolver) define(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peek()[name.lexeme] = true
}
