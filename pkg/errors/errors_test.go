package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNil(t *testing.T) {
	assert.Nil(t, New(ErrorTypeExport, "export", "x", nil))
	assert.Nil(t, Classify(ErrorTypeExport, "export", "x", nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"wrapped deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), ErrorTypeTimeout},
		{"plain", stderrors.New("boom"), ErrorTypeNavigation},
		{"already typed", New(ErrorTypeExport, "export", "id", stderrors.New("x")), ErrorTypeExport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(ErrorTypeNavigation, "click", "btn", tt.err)
			assert.Equal(t, tt.want, TypeOf(err))
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(New(ErrorTypeExport, "export", "a", stderrors.New("missing"))))
	assert.True(t, IsRecoverable(fmt.Errorf("outer: %w", New(ErrorTypeExport, "export", "a", stderrors.New("script")))))
	assert.False(t, IsRecoverable(New(ErrorTypeTimeout, "click", "a", context.DeadlineExceeded)))
	assert.False(t, IsRecoverable(stderrors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	err := New(ErrorTypeExport, "read onclick", "cphBody_ExportarBOLink", stderrors.New("not found"))
	assert.Equal(t, "export error during read onclick (cphBody_ExportarBOLink): not found", err.Error())
	assert.True(t, stderrors.Is(err, err.(*Error).Err))

	err = New(ErrorTypeNavigation, "navigate", "", stderrors.New("refused"))
	assert.Equal(t, "navigation error during navigate: refused", err.Error())
}
