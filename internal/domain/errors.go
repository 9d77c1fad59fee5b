package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicateRecord     = errors.New("ya existe un registro de inventario para ese ítem y sucursal")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto de concurrencia, reintente la operación")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidMovementType = errors.New("tipo de movimiento desconocido")
	ErrInvalidTransition   = errors.New("transición de estado de pedido inválida")
)
