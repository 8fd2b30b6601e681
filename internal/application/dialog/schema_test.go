package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSchema(t *testing.T) {
	assert.Equal(t, []Field{FieldName, FieldCard}, ParseSchema([]string{"name", "id_card"}))
	assert.Equal(t, []Field{FieldName, FieldUsername, FieldEmail, FieldPassword},
		ParseSchema([]string{" Name ", "USERNAME", "email", "password"}))
	assert.Nil(t, ParseSchema(nil))
}

func TestParseSchema_DropsUnknownFields(t *testing.T) {
	assert.Equal(t, []Field{FieldLicense}, ParseSchema([]string{"license", "shoe_size"}))
}

func TestFieldSpecs_EveryUniqueFieldHasLookup(t *testing.T) {
	for f, spec := range fieldSpecs {
		if spec.unique {
			assert.NotNil(t, spec.lookup, "unique field %s needs a lookup", f)
			assert.NotEmpty(t, spec.taken, "unique field %s needs a taken message", f)
		}
	}
}
