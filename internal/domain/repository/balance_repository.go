package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// BalanceRepository define el puerto para consultar/actualizar saldos de
// kardex por producto+bodega. Las escrituras siempre ocurren dentro de una
// transacción (TxRunner) para garantizar consistencia.
type BalanceRepository interface {
	Get(productID, warehouseID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE en Postgres).
	// Devuelve nil si el saldo aún no existe para ese producto+bodega.
	GetForUpdate(productID, warehouseID string) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	ListByCompany(companyID string) ([]*entity.StockBalance, error)
}
