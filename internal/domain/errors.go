package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los traducen a códigos de estado; los casos de uso nunca
// devuelven errores de infraestructura sin envolver.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Errores de validación del kardex.
	ErrInvalidQuantity      = errors.New("cantidad inválida")
	ErrUnknownProduct       = errors.New("producto no encontrado")
	ErrUnknownWarehouse     = errors.New("bodega no encontrada")
	ErrUnknownOrderLine     = errors.New("línea de pedido no encontrada")
	ErrInvalidDocumentState = errors.New("estado de documento inválido para la operación")

	// Errores de regla de negocio (conflicto con el estado actual del stock).
	ErrInsufficientStock          = errors.New("stock insuficiente")
	ErrInsufficientAvailableStock = errors.New("stock disponible insuficiente")
	ErrInsufficientReservedStock  = errors.New("stock reservado insuficiente")
	ErrNoOpAdjustment             = errors.New("el ajuste no cambia la cantidad actual")
	ErrOverFulfillment            = errors.New("la cantidad excede lo pendiente de la línea de pedido")
)
