// Package textnorm normaliza textos digitados pelo usuário antes de consultar
// as APIs externas, que não aceitam acentos no caminho da URL.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents remove os diacríticos mantendo as letras base (ç -> c, ã -> a)
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeQuery prepara um logradouro para a busca por endereço
func NormalizeQuery(s string) string {
	s = strings.ToLower(StripAccents(s))
	return strings.Join(strings.Fields(s), " ")
}

// DigitsOnly descarta tudo que não for dígito
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
