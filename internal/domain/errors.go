package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrValidation     = errors.New("error de validación")
	ErrReportNotFound = errors.New("tipo de reporte no existe")
	ErrQueryTimeout   = errors.New("tiempo de consulta agotado")
)
