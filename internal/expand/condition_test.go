package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/puran-water/flownote/internal/template"
)

func TestEvalCondition(t *testing.T) {
	params := map[string]cty.Value{
		"flag": cty.True,
		"mode": cty.StringVal("duty"),
	}

	tests := []struct {
		name string
		cond string
		want bool
	}{
		{"empty is always true", "", true},
		{"bare placeholder truthy", "${flag}", true},
		{"default applies", "${other|false}", false},
		{"default truthy tokens", "${other|YES}", true},
		{"unrecognized token is false", "${mode}", false},
		{"equality match", "${mode} == duty", true},
		{"equality mismatch", "${mode} == standby", false},
		{"inequality", "${mode} != standby", true},
		{"quoted literal", `${mode} == "duty"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalCondition(tt.cond, params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalConditionRejectsUnsupportedShapes(t *testing.T) {
	params := map[string]cty.Value{"a": cty.True}

	for _, cond := range []string{
		"${a} && ${a}",
		"${a} || ${a}",
		"${a} < 3",
		"${a} == 1 == 2",
		"some bare words",
	} {
		t.Run(cond, func(t *testing.T) {
			_, err := EvalCondition(cond, params)
			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestEvalConditionUnresolvedPlaceholder(t *testing.T) {
	_, err := EvalCondition("${undeclared}", nil)
	var unresolved *template.UnresolvedParameterError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "undeclared", unresolved.Name)
}
