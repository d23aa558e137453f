package expand

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/puran-water/flownote/internal/template"
)

// ConfigurationError reports a condition outside the closed grammar:
// a bare placeholder interpreted as truthy, or a single ==/!= comparison
// between a substituted expression and a literal. Nothing else evaluates.
type ConfigurationError struct {
	Expr   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unsupported condition %q: %s", e.Expr, e.Reason)
}

// condNode is the tiny condition AST: exactly one of the three shapes the
// grammar allows. A general expression evaluator is deliberately not used;
// the contract is to reject any other shape.
type condNode struct {
	// lhs is the substitutable expression (the whole condition for the
	// truthy shape).
	lhs string
	// op is "", "==", or "!=".
	op string
	// rhs is the literal for comparison shapes.
	rhs string
}

// truthyTokens is the case-insensitive set a bare condition may take to
// mean true. Anything else is false.
var truthyTokens = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true,
}

// parseCondition validates the shape of a condition string.
func parseCondition(cond string) (*condNode, error) {
	for _, bad := range []string{"&&", "||", "<", ">"} {
		if strings.Contains(cond, bad) {
			return nil, &ConfigurationError{Expr: cond, Reason: fmt.Sprintf("operator %q is not supported", bad)}
		}
	}

	eq := strings.Count(cond, "==")
	ne := strings.Count(cond, "!=")
	switch {
	case eq+ne > 1:
		return nil, &ConfigurationError{Expr: cond, Reason: "multiple comparison operators"}
	case eq == 1:
		parts := strings.SplitN(cond, "==", 2)
		return &condNode{lhs: strings.TrimSpace(parts[0]), op: "==", rhs: trimLiteral(parts[1])}, nil
	case ne == 1:
		parts := strings.SplitN(cond, "!=", 2)
		return &condNode{lhs: strings.TrimSpace(parts[0]), op: "!=", rhs: trimLiteral(parts[1])}, nil
	}

	if strings.ContainsAny(cond, " \t") {
		return nil, &ConfigurationError{Expr: cond, Reason: "expected a bare placeholder or a ==/!= comparison"}
	}
	return &condNode{lhs: cond}, nil
}

// EvalCondition evaluates an inclusion condition against effective
// parameters. An empty condition is always true. Placeholders without a
// value or default fail here, at evaluation time.
func EvalCondition(cond string, params map[string]cty.Value) (bool, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true, nil
	}

	node, err := parseCondition(cond)
	if err != nil {
		return false, err
	}

	lhs, err := template.Substitute(node.lhs, params, true)
	if err != nil {
		return false, err
	}
	lhs = trimLiteral(lhs)

	switch node.op {
	case "==":
		return lhs == node.rhs, nil
	case "!=":
		return lhs != node.rhs, nil
	}
	return truthyTokens[strings.ToLower(lhs)], nil
}

// trimLiteral strips surrounding whitespace and quotes from a literal.
func trimLiteral(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
