package entity

import "time"

// Company representa una empresa (tenant). Todos los recursos cuelgan de una empresa.
type Company struct {
	ID        string
	Name      string
	NIT       string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
