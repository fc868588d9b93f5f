package states

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllHasEveryState(t *testing.T) {
	list := All()
	assert.Len(t, list, 27)
	assert.Equal(t, "AC", list[0].UF)
	assert.Equal(t, "TO", list[len(list)-1].UF)

	for _, s := range list {
		assert.NotEmpty(t, Capital(s.UF), "capital ausente para %s", s.UF)
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	s, ok := Lookup(" sp ")
	assert.True(t, ok)
	assert.Equal(t, "São Paulo", s.Name)

	_, ok = Lookup("XX")
	assert.False(t, ok)
	assert.False(t, Valid(""))
}

func TestPrincipalCities(t *testing.T) {
	assert.Equal(t, []string{"Sao Paulo", "Campinas", "Santos", "Guarulhos", "Osasco"}, PrincipalCities("SP"))
	assert.Equal(t, []string{"Curitiba"}, PrincipalCities("pr"))
	assert.Nil(t, PrincipalCities("XX"))
}

func TestPrincipalCitiesReturnsCopy(t *testing.T) {
	cities := PrincipalCities("RJ")
	cities[0] = "Petropolis"
	assert.Equal(t, "Rio de Janeiro", PrincipalCities("RJ")[0])
}
