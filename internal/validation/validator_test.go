package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/takuyahirata23/quick-note/internal/errors"
	"github.com/takuyahirata23/quick-note/internal/validation"
)

type serverSettings struct {
	Port   string `yaml:"port" validate:"required"`
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	Burst  int    `json:"burst" validate:"gt=0"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(serverSettings{Port: "8080", Driver: "sqlite", Burst: 5})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		in        serverSettings
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing required field",
			in:        serverSettings{Driver: "sqlite", Burst: 1},
			wantField: "serverSettings.port",
			wantMsg:   "is required",
		},
		{
			name:      "unknown driver",
			in:        serverSettings{Port: "1", Driver: "mysql", Burst: 1},
			wantField: "serverSettings.driver",
			wantMsg:   "must be one of: sqlite postgres",
		},
		{
			name:      "json tag used when yaml is absent",
			in:        serverSettings{Port: "1", Driver: "sqlite"},
			wantField: "serverSettings.burst",
			wantMsg:   "must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

			details, ok := domainErr.Details.(validation.FieldErrors)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}
