// Package apperr define os erros de domínio compartilhados pelos serviços.
// Os handlers usam o Kind de cada erro para escolher o status HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind representa a categoria do erro
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation indica entrada inválida
	KindValidation
	// KindUnprocessable indica entrada bem formada mas com formato inválido (ex.: CEP)
	KindUnprocessable
	// KindNotFound indica que a API externa não encontrou o recurso
	KindNotFound
	// KindUnavailable indica falha ao falar com uma API externa
	KindUnavailable
	// KindInternal indica um erro inesperado
	KindInternal
)

// Error é um erro de domínio com Kind para mapeamento HTTP
type Error struct {
	Kind    Kind
	Message string
	Op      string      // operação que falhou (opcional)
	Err     error       // erro original (opcional)
	Details interface{} // detalhes extras para a resposta (opcional)
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus retorna o status HTTP correspondente ao Kind
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp define a operação que falhou
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails anexa detalhes à resposta
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Unprocessable(message string) *Error {
	return New(KindUnprocessable, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unavailable(message string, err error) *Error {
	return Wrap(KindUnavailable, message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// GetKind extrai o Kind de qualquer erro da cadeia.
// Retorna KindUnknown se não houver *Error na cadeia.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is informa se err contém um *Error com o Kind informado
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
