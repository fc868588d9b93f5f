package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Modos de busca aceitos pelo formulário
const (
	ModeCEP     = "cep"
	ModeAddress = "address"
)

// Address representa o registro devolvido pelo ViaCEP
type Address struct {
	CEP         string     `json:"cep"`
	Logradouro  string     `json:"logradouro"`
	Complemento string     `json:"complemento,omitempty"`
	Bairro      string     `json:"bairro"`
	Localidade  string     `json:"localidade"`
	UF          string     `json:"uf"`
	IBGE        string     `json:"ibge,omitempty"`
	GIA         string     `json:"gia,omitempty"`
	DDD         string     `json:"ddd,omitempty"`
	SIAFI       string     `json:"siafi,omitempty"`
	Erro        ViaCEPFlag `json:"erro,omitempty"`
}

// Label monta o texto usado para geocodificar o endereço escolhido
func (a Address) Label() string {
	return strings.Join([]string{a.Logradouro, a.Bairro, a.Localidade, a.UF}, ", ")
}

// Key identifica o endereço na remoção de duplicados
func (a Address) Key() string {
	return a.CEP + "|" + a.Logradouro
}

// ViaCEPFlag aceita o campo "erro" tanto como booleano quanto como string
type ViaCEPFlag bool

func (f *ViaCEPFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", `"true"`:
		*f = true
	case "false", `"false"`, "null", `""`:
		*f = false
	default:
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = ViaCEPFlag(b)
	}
	return nil
}

// SearchRequest representa o formulário da tela inicial
type SearchRequest struct {
	Mode   string `json:"mode" binding:"omitempty,oneof=cep address"`
	CEP    string `json:"cep"`
	UF     string `json:"uf"` // validada só no modo address, pelo serviço
	Street string `json:"street"`
}

// AddressQuery representa a busca por logradouro via query string
type AddressQuery struct {
	UF     string `form:"uf" binding:"required,uf"`
	Street string `form:"street" binding:"required"`
}

// SearchResponse lista os endereços candidatos
type SearchResponse struct {
	Count   int       `json:"count"`
	Title   string    `json:"title"`
	Results []Address `json:"results"`
}

// SelectRequest representa o endereço escolhido pelo usuário
type SelectRequest struct {
	Address   Address `json:"address"`
	Draggable bool    `json:"draggable"`
}

// MapRequest é o payload enviado para o serviço de mapa
type MapRequest struct {
	Address   string   `json:"address" binding:"required"`
	Data      *Address `json:"data,omitempty"`
	Draggable bool     `json:"draggable"`
}

// MarkerMoveRequest informa a posição final do marcador arrastado
type MarkerMoveRequest struct {
	Origin   Point `json:"origin"`
	Position Point `json:"position"`
}

// ErrorResponse é o formato padrão de erro
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
