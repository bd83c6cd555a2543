package internal

import (
	"fmt"
	"strings"
)

func sprintStmt(s stmt) string {
	switch s := s.(type) {
	case *blockStmt:
		out := "(block"
		for _, st := range s.stmts {
			out += " " + sprintStmt(st)
		}
		return out + ")"
	case *classStmt:
		out := "(class " + s.name.lexeme
		if s.superclass != nil {
			out += " < " + s.superclass.name.lexeme
		}
		for _, method := range s.methods {
			out += " " + sprintStmt(method)
		}
		return out + ")"
	case *expressionStmt:
		return parenthesize(";", s.expression)
	case *functionStmt:
		params := make([]string, len(s.params))
		for i, param := range s.params {
			params[i] = param.lexeme
		}
		out := fmt.Sprintf("(fun %s(%s)", s.name.lexeme, strings.Join(params, " "))
		for _, st := range s.body {
			out += " " + sprintStmt(st)
		}
		return out + ")"
	case *ifStmt:
		if s.elseBranch == nil {
			return fmt.Sprintf("(if %s %s)", sprintExpr(s.condition), sprintStmt(s.thenBranch))
		}
		return fmt.Sprintf(
			"(if-else %s %s %s)",
			sprintExpr(s.condition),
			sprintStmt(s.thenBranch),
			sprintStmt(s.elseBranch),
		)
	case *printStmt:
		return parenthesize("print", s.expression)
	case *returnStmt:
		if s.value == nil {
			return "(return)"
		}
		return parenthesize("return", s.value)
	case *varStmt:
		if s.initializer == nil {
			return "(var " + s.name.lexeme + ")"
		}
		return fmt.Sprintf("(var %s = %s)", s.name.lexeme, sprintExpr(s.initializer))
	case *whileStmt:
		return fmt.Sprintf("(while %s %s)", sprintExpr(s.condition), sprintStmt(s.body))
	}
	return ""
}

func sprintExpr(e expr) string {
	switch e := e.(type) {
	case *assignExpr:
		return fmt.Sprintf("(= %s %s)", e.name.lexeme, sprintExpr(e.value))
	case *binaryExpr:
		return parenthesize(e.operator.lexeme, e.left, e.right)
	case *callExpr:
		return parenthesize("call", append([]expr{e.callee}, e.arguments...)...)
	case *getExpr:
		return fmt.Sprintf("(. %s %s)", sprintExpr(e.object), e.name.lexeme)
	case *groupingExpr:
		return parenthesize("group", e.expression)
	case *literalExpr:
		if s, isString := e.value.(string); isString {
			return "\"" + s + "\""
		}
		return stringify(e.value)
	case *logicalExpr:
		return parenthesize(e.operator.lexeme, e.left, e.right)
	case *setExpr:
		return fmt.Sprintf("(= %s %s %s)", sprintExpr(e.object), e.name.lexeme, sprintExpr(e.value))
	case *superExpr:
		return "(super " + e.method.lexeme + ")"
	case *thisExpr:
		return "this"
	case *unaryExpr:
		return parenthesize(e.operator.lexeme, e.right)
	case *variableExpr:
		return e.name.lexeme
	}
	return ""
}

func parenthesize(name string, exprs ...expr) string {
	out := "(" + name
	for _, e := range exprs {
		out += " " + sprintExpr(e)
	}
	return out + ")"
}
