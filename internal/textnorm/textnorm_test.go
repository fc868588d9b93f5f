package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAccents(t *testing.T) {
	cases := []struct{ in, want string }{
		{"São Paulo", "Sao Paulo"},
		{"Goiânia", "Goiania"},
		{"Avenida Açaí", "Avenida Acai"},
		{"ÉÈÊË ÍÌ ÓÕ Ú Ç", "EEEE II OO U C"},
		{"sem acento", "sem acento"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripAccents(c.in), c.in)
	}
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "rua da consolacao", NormalizeQuery("  Rua   da CONSOLAÇÃO "))
	assert.Equal(t, "avenida paulista", NormalizeQuery("Avenida\tPaulista"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "01001000", DigitsOnly("01001-000"))
	assert.Equal(t, "", DigitsOnly("abc"))
	assert.Equal(t, "123", DigitsOnly(" 1.2-3 "))
}
