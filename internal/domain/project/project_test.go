package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

func TestNormalize(t *testing.T) {
	p := &Project{Title: "  Engine  "}
	p.Normalize()

	assert.Equal(t, "Engine", p.Title)
	assert.NotNil(t, p.TechStack)
	assert.Empty(t, p.TechStack)
}

func TestValidateRequiresTitle(t *testing.T) {
	err := (&Project{Title: "   "}).Validate()
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
	assert.Equal(t, "title", apperror.From(err).Field)

	assert.NoError(t, (&Project{Title: "Engine"}).Validate())
}
