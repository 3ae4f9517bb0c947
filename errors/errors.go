package errors

import (
	"errors"
	"net/http"
)

var (
	NotFound            = HttpError{http.StatusNotFound, errors.New("not found")}
	BadRequest          = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Unauthorized        = HttpError{http.StatusUnauthorized, errors.New("unauthorized")}
	Conflict            = HttpError{http.StatusConflict, errors.New("conflict")}
	InternalServerError = HttpError{http.StatusInternalServerError, errors.New("internal server error")}
)

// Session boot failures. Messages are shown to the visitor as is.
var (
	MissingToken          = HttpError{http.StatusBadRequest, errors.New("Link inválido (sem token). Solicite um novo link ao consultório.")}
	InvalidOrExpiredToken = HttpError{http.StatusUnauthorized, errors.New("Token inválido ou expirado.")}
	TokenExpired          = HttpError{http.StatusUnauthorized, &refinedError{message: "Token expirado. Peça um novo link.", parent: InvalidOrExpiredToken}}
	TokenDisabled         = HttpError{http.StatusForbidden, errors.New("Token desativado. Peça um novo link.")}
	UnboundToken          = HttpError{http.StatusUnprocessableEntity, errors.New("Token sem CPF vinculado.")}
	PatientNotFound       = HttpError{http.StatusNotFound, errors.New("Paciente não encontrado.")}
	StoreUnavailable      = HttpError{http.StatusServiceUnavailable, errors.New("Falha ao abrir sua área. Tente novamente mais tarde.")}
	RespondentUnavailable = HttpError{http.StatusBadRequest, errors.New("Não há testes em aberto para este respondente.")}
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}

// refinedError is a more specific variant of parent. errors.Is matches both.
type refinedError struct {
	message string
	parent  error
}

func (r *refinedError) Error() string {
	return r.message
}

func (r *refinedError) Unwrap() error {
	return r.parent
}

// Message returns the visitor facing message of the first HttpError in the chain,
// without the details added by wrapping call sites.
func Message(err error) string {
	e := HttpError{}
	if errors.As(err, &e) {
		return e.Err.Error()
	}
	return StoreUnavailable.Error()
}

// Code returns the status code of the first HttpError in the chain.
func Code(err error) int {
	e := HttpError{}
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}
