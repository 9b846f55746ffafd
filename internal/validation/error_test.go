package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsKeepFirstMessage(t *testing.T) {
	errs := New()
	errs.Add("email", "email is required")
	errs.Add("email", "provide valid email")

	assert.Equal(t, "email is required", errs["email"])
	assert.True(t, errs.Has("email"))
	assert.False(t, errs.Valid())
}

func TestErrorsErr(t *testing.T) {
	assert.NoError(t, New().Err())

	errs := New()
	errs.Add("b", "second")
	errs.Add("a", "first")

	err := fmt.Errorf("wrapped: %w", errs.Err())

	inputErr := IsInputError(err)
	require.NotNil(t, inputErr)
	assert.Equal(t, Errors{"a": "first", "b": "second"}, inputErr.Fields())
	assert.Equal(t, "[a: first b: second]", inputErr.Error())
}

func TestIsInputErrorNil(t *testing.T) {
	assert.Nil(t, IsInputError(nil))
	assert.Nil(t, IsInputError(fmt.Errorf("plain")))
}
