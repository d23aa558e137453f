package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/puran-water/flownote/internal/model"
)

// placeholderRe matches ${name} and ${name|default} placeholders.
var placeholderRe = regexp.MustCompile(`\$\{([A-Za-z_]\w*)(\|[^}]*)?\}`)

// UnresolvedParameterError reports a ${name} placeholder that had neither a
// supplied value nor a default at evaluation time.
type UnresolvedParameterError struct {
	Name  string
	Field string
}

func (e *UnresolvedParameterError) Error() string {
	return fmt.Sprintf("unresolved parameter %q in %q: no value supplied and no default declared", e.Name, e.Field)
}

// Substitute replaces every placeholder in s with the matching parameter
// value or its inline default. In strict mode a placeholder with neither is
// an UnresolvedParameterError; in lax mode (fragment composition, where
// only call-syntax args apply) it is left untouched for a later pass.
func Substitute(s string, params map[string]cty.Value, strict bool) (string, error) {
	var missing *UnresolvedParameterError

	out := placeholderRe.ReplaceAllStringFunc(s, func(token string) string {
		match := placeholderRe.FindStringSubmatch(token)
		name := match[1]

		if v, ok := params[name]; ok {
			return model.ScalarString(v)
		}
		if match[2] != "" {
			return strings.TrimPrefix(match[2], "|")
		}
		if strict && missing == nil {
			missing = &UnresolvedParameterError{Name: name, Field: s}
		}
		return token
	})

	if missing != nil {
		return "", missing
	}
	return out, nil
}

// substituteSpec applies Substitute to the string fields of an equipment
// spec in place. Conditions are only rewritten in lax mode: in strict mode
// they are left for the condition evaluator, which owns the closed grammar.
func substituteSpec(e *EquipmentSpec, params map[string]cty.Value, strict bool) error {
	var err error
	fields := []*string{&e.TagPrefix, &e.Type}
	if !strict {
		fields = append(fields, &e.Condition)
	}
	for _, field := range fields {
		if *field, err = Substitute(*field, params, strict); err != nil {
			return err
		}
	}
	for k, v := range e.Params {
		if e.Params[k], err = Substitute(v, params, strict); err != nil {
			return err
		}
	}
	return nil
}

// SubstituteAll applies parameter substitution to every string field of the
// template except conditions, which the condition evaluator substitutes
// under its own rules.
func SubstituteAll(t *ProcessTemplate, params map[string]cty.Value) error {
	for _, e := range append(append([]*EquipmentSpec(nil), t.PerTrain...), t.Shared...) {
		if err := substituteSpec(e, params, true); err != nil {
			return err
		}
	}
	for _, c := range t.Connections {
		var err error
		for _, field := range []*string{&c.SrcID, &c.SrcPort, &c.DstID, &c.DstPort} {
			if *field, err = Substitute(*field, params, true); err != nil {
				return err
			}
		}
	}
	return nil
}
