package internal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// numbers holds two numeric operands after promotion. Two integers stay
// integers, anything else mixing int and float is computed as float.
type numbers struct {
	ints   bool
	li, ri int64
	lf, rf float64
}

func toNumbers(left, right interface{}) (numbers, bool) {
	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt {
		return numbers{ints: true, li: li, ri: ri}, true
	}
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return numbers{}, false
	}
	return numbers{lf: lf, rf: rf}, true
}

func toFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func (n numbers) apply(op tokenType) (interface{}, error) {
	if n.ints {
		switch op {
		case tkPlus:
			return n.li + n.ri, nil
		case tkMinus:
			return n.li - n.ri, nil
		case tkStar:
			return n.li * n.ri, nil
		case tkSlash:
			if n.ri == 0 {
				return nil, errDivideByZero
			}
			return n.li / n.ri, nil
		case tkGreater:
			return n.li > n.ri, nil
		case tkGreaterEqual:
			return n.li >= n.ri, nil
		case tkLess:
			return n.li < n.ri, nil
		case tkLessEqual:
			return n.li <= n.ri, nil
		}
		return nil, errOnlyNumbers
	}
	switch op {
	case tkPlus:
		return n.lf + n.rf, nil
	case tkMinus:
		return n.lf - n.rf, nil
	case tkStar:
		return n.lf * n.rf, nil
	case tkSlash:
		if n.rf == 0 {
			return nil, errDivideByZero
		}
		return n.lf / n.rf, nil
	case tkGreater:
		return n.lf > n.rf, nil
	case tkGreaterEqual:
		return n.lf >= n.rf, nil
	case tkLess:
		return n.lf < n.rf, nil
	case tkLessEqual:
		return n.lf <= n.rf, nil
	}
	return nil, errOnlyNumbers
}

// truthy: nil and false are falsy, everything else is truthy
func truthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case *piklFunction, *nativeFn:
		return "function"
	case *piklClass:
		return "class"
	case *piklInstance:
		return "instance"
	}
	return "unknown"
}
