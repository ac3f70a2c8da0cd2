package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Las operaciones los envuelven con
// contexto usando fmt.Errorf("%w: ...") y los llamadores los clasifican con errors.Is.
var (
	ErrValidation          = errors.New("datos inválidos")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrIncompleteInventory = errors.New("inventario incompleto")
	ErrUnsupportedFormat   = errors.New("formato no soportado")
	ErrStorage             = errors.New("fallo de almacenamiento")
)

// ErrInventoryClosed se devuelve al editar o validar un inventario ya terminado.
var ErrInventoryClosed = fmt.Errorf("%w: inventario terminado", ErrConflict)

// Validationf construye un ErrValidation con detalle.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf construye un ErrNotFound con detalle.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf construye un ErrConflict con detalle.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
