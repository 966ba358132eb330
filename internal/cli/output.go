package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"pet-passport/internal/domain/passport"
)

// Exit codes de passportctl.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // rechazo del ledger (not found, unauthorized, capacity...)
	ExitCommandError = 2 // uso incorrecto o ledger inaccesible
)

// ExitError lleva el exit code junto al error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extrae el exit code. Errores sin código => ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// domainError etiqueta el error del servicio con su outcome estable.
func domainError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return WrapExitError(ExitFailure, passport.Outcome(err), err)
}

// Response es el sobre de --format json.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OutputFormatter escribe en text o json según --format.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Success: en json envuelve data; en text delega en render.
func (f *OutputFormatter) Success(data any, render func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	render(f.Writer)
	return nil
}

// Error escribe el error en el formato pedido.
func (f *OutputFormatter) Error(err error) {
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(Response{Status: "error", Error: err.Error()})
		return
	}
	fmt.Fprintf(f.Writer, "Error: %v\n", err)
}
