package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una empresa.
type Product struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Price       decimal.Decimal // precio unitario, nunca negativo
	Unit        string          // unidad de medida
	Code        string          // código externo opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
