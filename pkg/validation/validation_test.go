package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

type sample struct {
	Title    string   `json:"title" validate:"required"`
	Summary  string   `json:"summary" validate:"max=5"`
	Kind     string   `json:"kind" validate:"omitempty,oneof=a b"`
	Keywords []string `json:"keywords" validate:"dive,max=3"`
}

func TestStructReportsEveryField(t *testing.T) {
	err := Struct(sample{Summary: "too long", Kind: "c", Keywords: []string{"ok", "toolong"}})
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 4)

	fields := map[string]string{}
	for _, e := range errs {
		var appErr *apperror.AppError
		require.True(t, errors.As(e, &appErr))
		assert.True(t, errors.Is(e, apperror.ErrInvalidInput))
		fields[appErr.Field] = appErr.Message
	}
	assert.Equal(t, "is required", fields["title"])
	assert.Equal(t, "must be at most 5 characters", fields["summary"])
	assert.Equal(t, "must be one of [a b]", fields["kind"])
	assert.Equal(t, "must be at most 3 characters", fields["keywords[1]"])
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(sample{Title: "x", Kind: "a"}))
}

func TestVar(t *testing.T) {
	err := Var("email", "not-an-email", "required,email")
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "email", appErr.Field)
	assert.Equal(t, "must be a valid email", appErr.Message)
	assert.NoError(t, Var("email", "ada@example.com", "required,email"))
}

func TestPrefixAndFirst(t *testing.T) {
	err := multierr.Append(apperror.NewValidation("degree", "is required"), apperror.NewValidation("institution", "is required"))
	prefixed := Prefix("education[1]", err)

	var appErr *apperror.AppError
	require.True(t, errors.As(First(prefixed), &appErr))
	assert.Equal(t, "education[1].degree", appErr.Field)
	assert.Nil(t, First(nil))
}
