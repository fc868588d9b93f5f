package states

import "strings"

// State representa uma unidade federativa
type State struct {
	UF   string `json:"uf"`
	Name string `json:"nome"`
}

var all = []State{
	{UF: "AC", Name: "Acre"},
	{UF: "AL", Name: "Alagoas"},
	{UF: "AP", Name: "Amapá"},
	{UF: "AM", Name: "Amazonas"},
	{UF: "BA", Name: "Bahia"},
	{UF: "CE", Name: "Ceará"},
	{UF: "DF", Name: "Distrito Federal"},
	{UF: "ES", Name: "Espírito Santo"},
	{UF: "GO", Name: "Goiás"},
	{UF: "MA", Name: "Maranhão"},
	{UF: "MT", Name: "Mato Grosso"},
	{UF: "MS", Name: "Mato Grosso do Sul"},
	{UF: "MG", Name: "Minas Gerais"},
	{UF: "PA", Name: "Pará"},
	{UF: "PB", Name: "Paraíba"},
	{UF: "PR", Name: "Paraná"},
	{UF: "PE", Name: "Pernambuco"},
	{UF: "PI", Name: "Piauí"},
	{UF: "RJ", Name: "Rio de Janeiro"},
	{UF: "RN", Name: "Rio Grande do Norte"},
	{UF: "RS", Name: "Rio Grande do Sul"},
	{UF: "RO", Name: "Rondônia"},
	{UF: "RR", Name: "Roraima"},
	{UF: "SC", Name: "Santa Catarina"},
	{UF: "SP", Name: "São Paulo"},
	{UF: "SE", Name: "Sergipe"},
	{UF: "TO", Name: "Tocantins"},
}

// Capitais sem acento, no formato aceito pelo ViaCEP
var capitals = map[string]string{
	"AC": "Rio Branco",
	"AL": "Maceio",
	"AP": "Macapa",
	"AM": "Manaus",
	"BA": "Salvador",
	"CE": "Fortaleza",
	"DF": "Brasilia",
	"ES": "Vitoria",
	"GO": "Goiania",
	"MA": "Sao Luis",
	"MT": "Cuiaba",
	"MS": "Campo Grande",
	"MG": "Belo Horizonte",
	"PA": "Belem",
	"PB": "Joao Pessoa",
	"PR": "Curitiba",
	"PE": "Recife",
	"PI": "Teresina",
	"RJ": "Rio de Janeiro",
	"RN": "Natal",
	"RS": "Porto Alegre",
	"RO": "Porto Velho",
	"RR": "Boa Vista",
	"SC": "Florianopolis",
	"SP": "Sao Paulo",
	"SE": "Aracaju",
	"TO": "Palmas",
}

var principalCities = map[string][]string{
	"SP": {"Sao Paulo", "Campinas", "Santos", "Guarulhos", "Osasco"},
	"RJ": {"Rio de Janeiro", "Niteroi", "Sao Goncalo", "Duque de Caxias"},
	"MG": {"Belo Horizonte", "Uberlandia", "Contagem", "Juiz de Fora"},
}

// All retorna todos os estados na ordem do formulário
func All() []State {
	out := make([]State, len(all))
	copy(out, all)
	return out
}

// Lookup encontra um estado pela sigla, sem diferenciar maiúsculas
func Lookup(uf string) (State, bool) {
	uf = strings.ToUpper(strings.TrimSpace(uf))
	for _, s := range all {
		if s.UF == uf {
			return s, true
		}
	}
	return State{}, false
}

// Valid informa se a sigla pertence a um estado conhecido
func Valid(uf string) bool {
	_, ok := Lookup(uf)
	return ok
}

// Capital retorna o nome da capital sem acento, ou "" para UF desconhecida
func Capital(uf string) string {
	return capitals[strings.ToUpper(strings.TrimSpace(uf))]
}

// PrincipalCities retorna as cidades consultadas quando a capital não tem resultado.
// Estados sem lista própria usam apenas a capital.
func PrincipalCities(uf string) []string {
	uf = strings.ToUpper(strings.TrimSpace(uf))
	cities, ok := principalCities[uf]
	if !ok {
		capital := Capital(uf)
		if capital == "" {
			return nil
		}
		return []string{capital}
	}
	out := make([]string, len(cities))
	copy(out, cities)
	return out
}
