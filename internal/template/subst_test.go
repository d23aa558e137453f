package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSubstitute(t *testing.T) {
	params := map[string]cty.Value{
		"duty":  cty.StringVal("continuous"),
		"count": cty.NumberIntVal(2),
	}

	t.Run("value wins over default", func(t *testing.T) {
		out, err := Substitute("${duty|standby} pump", params, true)
		require.NoError(t, err)
		assert.Equal(t, "continuous pump", out)
	})

	t.Run("default applies when no value", func(t *testing.T) {
		out, err := Substitute("${mode|auto}", params, true)
		require.NoError(t, err)
		assert.Equal(t, "auto", out)
	})

	t.Run("numbers render as tokens", func(t *testing.T) {
		out, err := Substitute("n=${count}", params, true)
		require.NoError(t, err)
		assert.Equal(t, "n=2", out)
	})

	t.Run("strict fails on unresolved placeholder", func(t *testing.T) {
		_, err := Substitute("${missing}", params, true)
		var unresolved *UnresolvedParameterError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "missing", unresolved.Name)
	})

	t.Run("lax leaves unresolved placeholder untouched", func(t *testing.T) {
		out, err := Substitute("${missing} and ${duty}", params, false)
		require.NoError(t, err)
		assert.Equal(t, "${missing} and continuous", out)
	})

	t.Run("multiple placeholders in one field", func(t *testing.T) {
		out, err := Substitute("${duty}-${count}", params, true)
		require.NoError(t, err)
		assert.Equal(t, "continuous-2", out)
	})
}
