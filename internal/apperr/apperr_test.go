package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := Newf(CodeParse, "неверная дата %q", "2019-13-01")
	err := Wrapf(base, "строка %d", 4)

	assert.True(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrMissingColumn))
	assert.Equal(t, CodeParse, CodeOf(err))
	assert.Equal(t, `строка 4: неверная дата "2019-13-01"`, err.Error())
}

func TestWrapForeignError(t *testing.T) {
	err := Wrap(fmt.Errorf("disk full"), "сохранение")
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Nil(t, Wrap(nil, "ничего"))
}

func TestCodeThroughStdWrapping(t *testing.T) {
	err := fmt.Errorf("конвейер: %w", New(CodeMissingFile, "нет листа Data"))
	assert.ErrorIs(t, err, ErrMissingFile)
	assert.Equal(t, CodeMissingFile, CodeOf(err))
}
