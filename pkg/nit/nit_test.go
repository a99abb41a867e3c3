package nit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/pkg/nit"
)

func TestVerificationDigit(t *testing.T) {
	dv, err := nit.VerificationDigit("900123456")
	require.NoError(t, err)
	assert.Equal(t, byte('8'), dv)

	_, err = nit.VerificationDigit("1234")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"9001234568":      "900.123.456-8",
		"900123456-8":     "900.123.456-8",
		" 900.123.456-8 ": "900.123.456-8",
		"900123456-7":     "900123456-7",
		"1020304050":      "1020304050",
		"CC 12345":        "CC 12345",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, nit.Format(in), "Format(%q)", in)
	}
}
