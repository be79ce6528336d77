package httperr

import (
	"errors"
	"fmt"
)

// Erros de negócio retornados pelos usecases. Todos são detectados antes de
// qualquer escrita: uma operação que falha não deixa estado parcial.

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func Validation(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d não encontrado", e.Entity, e.ID)
}

func NotFoundErr(entity string, id uint) error {
	return NotFoundError{Entity: entity, ID: id}
}

type PermissionError struct {
	Message string
}

func (e PermissionError) Error() string { return e.Message }

func Permission(message string) error {
	return PermissionError{Message: message}
}

// InsufficientStockError identifica o item ofensor e o saldo disponível para
// que o chamador monte uma mensagem precisa.
type InsufficientStockError struct {
	ItemID    uint
	ItemName  string
	Requested int
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"estoque insuficiente para %s: solicitado %d, disponível %d",
		e.ItemName, e.Requested, e.Available,
	)
}

// ConflictError indica que o estado mudou entre a validação e o commit
// (transição concorrente ou estoque movido por outra operação).
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string { return e.Message }

func Conflict(message string) error {
	return ConflictError{Message: message}
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func IsPermission(err error) bool {
	var pe PermissionError
	return errors.As(err, &pe)
}

func IsInsufficientStock(err error) bool {
	var is InsufficientStockError
	return errors.As(err, &is)
}

func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}
