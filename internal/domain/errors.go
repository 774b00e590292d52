package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Errores del motor de movimientos entre sucursales.
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidItem       = errors.New("ítem inválido")
	ErrInvalidBranch     = errors.New("sucursal inválida")
	ErrInvalidState      = errors.New("el estado actual no permite la operación")
	ErrNothingApproved   = errors.New("ninguna línea con cantidad aprobada")
	ErrOverApproval      = errors.New("cantidad aprobada excede lo disponible")
)

// ItemError envuelve un error de dominio con el producto ofensor, para que el
// caller pueda corregir esa línea puntual en vez de reenviar toda la solicitud.
type ItemError struct {
	ProductID string
	Err       error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s (producto %s)", e.Err, e.ProductID)
}

func (e *ItemError) Unwrap() error { return e.Err }

// NewItemError construye un ItemError sobre un sentinel de dominio.
func NewItemError(err error, productID string) error {
	return &ItemError{ProductID: productID, Err: err}
}

// OffendingProduct devuelve el producto ofensor si err lleva un ItemError,
// o cadena vacía si no aplica.
func OffendingProduct(err error) string {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie.ProductID
	}
	return ""
}
