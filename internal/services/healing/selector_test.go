package healing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     parsedSelector
	}{
		{
			name:     "data-testid double quoted",
			selector: `[data-testid="instance-row-1"]`,
			want:     parsedSelector{TestID: "instance-row-1"},
		},
		{
			name:     "data-testid unquoted",
			selector: `[data-testid=submit]`,
			want:     parsedSelector{TestID: "submit"},
		},
		{
			name:     "role with name",
			selector: `role=button[name="Save changes"]`,
			want:     parsedSelector{Role: "button", Label: "Save changes"},
		},
		{
			name:     "text equals",
			selector: `text=Sign in`,
			want:     parsedSelector{Text: "Sign in"},
		},
		{
			name:     "has-text",
			selector: `div:has-text("Welcome back")`,
			want:     parsedSelector{Text: "Welcome back"},
		},
		{
			name:     "structural css carries no hints",
			selector: `div.container > ul li:nth-child(3)`,
			want:     parsedSelector{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSelector(tt.selector))
		})
	}
}

func TestIdentifierVariants(t *testing.T) {
	variants := identifierVariants("instance-row-1")

	assert.Contains(t, variants, "instanceRow1")
	assert.Contains(t, variants, "instance-row")
	assert.Contains(t, variants, "test-instance-row-1")
	assert.NotContains(t, variants, "instance-row-1", "original is never a variant")
}

func TestIdentifierVariants_PrefixStripped(t *testing.T) {
	variants := identifierVariants("qa-login-form")
	assert.Contains(t, variants, "login-form")
}

func TestIdentifierVariants_NoDuplicates(t *testing.T) {
	variants := identifierVariants("submitButton")
	seen := map[string]bool{}
	for _, variant := range variants {
		assert.False(t, seen[variant], "duplicate variant %q", variant)
		seen[variant] = true
	}
	assert.Contains(t, variants, "submit-button")
}

func TestKebabCamelConversion(t *testing.T) {
	assert.Equal(t, "instanceRow1", kebabToCamel("instance-row-1"))
	assert.Equal(t, "instance-row1", camelToKebab("instanceRow1"))
	assert.Equal(t, "plain", kebabToCamel("plain"))
}
