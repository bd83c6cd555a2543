package main

import (
	"fmt"
	"go/format"
	"os"
	"strings"
)

//go:generate sh -c "go run . Expr > ../../internal/expr.go"
//go:generate sh -c "go run . Stmt > ../../internal/stmt.go"

var nodes = map[string][]string{
	"Stmt": {
		"Block: stmts []stmt",
		"Class: name *token, superclass *variableExpr, methods []*functionStmt",
		"Expression: expression expr",
		"Function: name *token, params []*token, body []stmt",
		"If: condition expr, thenBranch stmt, elseBranch stmt",
		"Print: expression expr",
		"Return: keyword *token, value expr",
		"Var: name *token, initializer expr",
		"While: condition expr, body stmt",
	},
	"Expr": {
		"Assign: name *token, value expr",
		"Binary: left expr, operator *token, right expr",
		"Call: callee expr, paren *token, arguments []expr",
		"Get: object expr, name *token",
		"Grouping: expression expr",
		"Literal: value interface{}",
		"Logical: left expr, operator *token, right expr",
		"Set: object expr, name *token, value expr",
		"Super: keyword *token, method *token",
		"This: keyword *token",
		"Unary: operator *token, right expr",
		"Variable: name *token",
	},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: ast Expr|Stmt")
		os.Exit(64)
	}
	types, ok := nodes[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown node kind %q\n", os.Args[1])
		os.Exit(64)
	}
	out, err := format.Source([]byte(generateAst(os.Args[1], types)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}

func generateAst(baseName string, types []string) string {
	base := strings.ToLower(baseName)
	out := "// Code generated by cmd/ast; DO NOT EDIT.\n\n"
	out += "package internal\n\n"

	// Start base interface
	out += "type " + base + " interface {\n"
	out += "\t" + base + "Node()\n"
	out += "}\n\n"
	// End base interface

	for _, t := range types {
		typeDef := strings.Split(t, ":")
		structName := strings.TrimSpace(typeDef[0])
		structFields := strings.TrimSpace(typeDef[1])
		out += generateType(baseName, structName, structFields)
	}

	return out
}

func generateType(baseName, name, fields string) string {
	// Start Structure Definition
	structName := strings.ToLower(string(name[0])) + name[1:] + baseName
	out := "type " + structName + " struct {\n"
	for _, field := range strings.Split(fields, ",") {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"
	// End Structure Definition

	// Start Marker Method
	out += "func (*" + structName + ") " + strings.ToLower(baseName) + "Node() {}\n\n"
	// End Marker Method

	return out
}
