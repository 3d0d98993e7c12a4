package docModel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		expected DocumentKind
		ext      string
		wantErr  bool
	}{
		{"policy.pdf", KindPDF, ".pdf", false},
		{"Contract.DOCX", KindDOCX, ".docx", false},
		{"claim.eml", KindEmail, ".eml", false},
		{"claim.MSG", KindEmail, ".msg", false},
		{"notes.txt", "", ".txt", true},
		{"noextension", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ext, err := KindFromFilename(tt.name)
			assert.Equal(t, tt.expected, kind)
			assert.Equal(t, tt.ext, ext)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedType)
				assert.Contains(t, err.Error(), tt.ext)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain(" Insurance ")
	require.NoError(t, err)
	assert.Equal(t, DomainInsurance, d)

	d, err = ParseDomain("")
	require.NoError(t, err)
	assert.Equal(t, Domain(""), d)

	_, err = ParseDomain("finance")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestStageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := StageError(ErrIndex, cause)

	assert.ErrorIs(t, err, ErrIndex)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, ErrStore, StageError(ErrStore, nil))
}

func TestRetrievedResultFilename(t *testing.T) {
	assert.Equal(t, "", RetrievedResult{}.Filename())
	assert.Equal(t, "a.pdf", RetrievedResult{Metadata: map[string]any{"filename": "a.pdf"}}.Filename())
}
