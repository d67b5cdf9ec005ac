package kardex

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Prefijos de consecutivo por tipo de transacción.
const (
	seqIN  = "IN"
	seqOUT = "OUT"
	seqADJ = "ADJ"
)

// UseCase es el motor de kardex: entradas, salidas, ajustes, reservas y
// liberaciones sobre el saldo por producto+bodega, con libro append-only.
// Toda mutación corre dentro de TxRunner con bloqueo de fila; nunca se escribe
// estado parcial en un camino de error (validar primero, aplicar después).
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	balanceRepo   repository.BalanceRepository   // lecturas fuera de tx
	txRepo        repository.TransactionRepository // lecturas fuera de tx
}

// NewUseCase construye el motor de kardex.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	balanceRepo repository.BalanceRepository,
	txRepo repository.TransactionRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		balanceRepo:   balanceRepo,
		txRepo:        txRepo,
	}
}

// MovementInput entrada para StockIn/StockOut.
type MovementInput struct {
	ProductID     string
	WarehouseID   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Operator      string
}

// AdjustInput entrada para StockAdjust. NewQuantity es la cantidad absoluta.
type AdjustInput struct {
	ProductID   string
	WarehouseID string
	NewQuantity decimal.Decimal
	UnitPrice   decimal.Decimal
	Operator    string
}

// Movement saldo actualizado + transacción registrada.
type Movement struct {
	Balance     *entity.StockBalance
	Transaction *entity.StockTransaction
}

// StockIn registra una entrada: suma stock, recalcula costo promedio con el
// stock PREVIO como peso y agrega una transacción IN con cantidad positiva.
func (uc *UseCase) StockIn(ctx context.Context, companyID string, in MovementInput) (*Movement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.lookupProduct(companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *Movement
	err = uc.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		txRepo repository.TransactionRepository,
		seqRepo repository.SequenceRepository,
	) error {
		var txErr error
		mov, txErr = uc.StockInTx(balanceRepo, txRepo, seqRepo, product, companyID, in, now)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// StockInTx ejecuta la entrada con los repositorios proporcionados (misma
// transacción del caller). Lo usa la recepción de compras para que N líneas
// y el update del pedido sean un solo commit.
func (uc *UseCase) StockInTx(
	balanceRepo repository.BalanceRepository,
	txRepo repository.TransactionRepository,
	seqRepo repository.SequenceRepository,
	product *entity.Product,
	companyID string,
	in MovementInput,
	now time.Time,
) (*Movement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	bal, err := uc.balanceForUpdate(balanceRepo, product, companyID, in.WarehouseID, now)
	if err != nil {
		return nil, err
	}

	// Costo promedio ponderado con el stock previo como peso
	bal.AvgCost = kardex.AvgCost(bal.CurrentStock, bal.AvgCost, in.Quantity, in.UnitPrice)
	bal.CurrentStock = bal.CurrentStock.Add(in.Quantity)
	bal.AvailableStock = bal.AvailableStock.Add(in.Quantity)
	bal.LastInAt = &now
	bal.UpdatedAt = now
	if err := balanceRepo.Upsert(bal); err != nil {
		return nil, err
	}

	tx, err := uc.appendTransaction(txRepo, seqRepo, companyID, entity.TransactionTypeIN, seqIN, bal, in.Quantity, in.UnitPrice, in, now)
	if err != nil {
		return nil, err
	}
	return &Movement{Balance: bal, Transaction: tx}, nil
}

// StockOut registra una salida: verifica disponible (lo reservado nunca se
// consume por una salida simple), resta stock y agrega una transacción OUT
// con cantidad negativa. El costo promedio no cambia en salidas.
func (uc *UseCase) StockOut(ctx context.Context, companyID string, in MovementInput) (*Movement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.lookupProduct(companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *Movement
	err = uc.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		txRepo repository.TransactionRepository,
		seqRepo repository.SequenceRepository,
	) error {
		var txErr error
		mov, txErr = uc.StockOutTx(balanceRepo, txRepo, seqRepo, product, companyID, in, now)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// StockOutTx ejecuta la salida con los repositorios proporcionados (misma
// transacción del caller). Lo usa el despacho de ventas.
func (uc *UseCase) StockOutTx(
	balanceRepo repository.BalanceRepository,
	txRepo repository.TransactionRepository,
	seqRepo repository.SequenceRepository,
	product *entity.Product,
	companyID string,
	in MovementInput,
	now time.Time,
) (*Movement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	bal, err := uc.balanceForUpdate(balanceRepo, product, companyID, in.WarehouseID, now)
	if err != nil {
		return nil, err
	}
	if bal.AvailableStock.LessThan(in.Quantity) {
		return nil, domain.ErrInsufficientStock
	}

	bal.CurrentStock = bal.CurrentStock.Sub(in.Quantity)
	bal.AvailableStock = bal.AvailableStock.Sub(in.Quantity)
	bal.LastOutAt = &now
	bal.UpdatedAt = now
	if err := balanceRepo.Upsert(bal); err != nil {
		return nil, err
	}

	unitPrice := in.UnitPrice
	if unitPrice.IsZero() {
		unitPrice = bal.AvgCost // salida valorada al costo promedio vigente
	}
	tx, err := uc.appendTransaction(txRepo, seqRepo, companyID, entity.TransactionTypeOUT, seqOUT, bal, in.Quantity.Neg(), unitPrice, in, now)
	if err != nil {
		return nil, err
	}
	return &Movement{Balance: bal, Transaction: tx}, nil
}

// StockAdjust lleva el saldo a una cantidad absoluta. El delta (con signo) se
// aplica simétrico a CurrentStock y AvailableStock; un delta positivo
// recalcula el costo promedio como una entrada, uno negativo no lo toca.
// Ajustar por debajo de lo reservado se rechaza: dejaría disponible negativo.
func (uc *UseCase) StockAdjust(ctx context.Context, companyID string, in AdjustInput) (*Movement, error) {
	if in.NewQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.lookupProduct(companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *Movement
	err = uc.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		txRepo repository.TransactionRepository,
		seqRepo repository.SequenceRepository,
	) error {
		bal, err := uc.balanceForUpdate(balanceRepo, product, companyID, in.WarehouseID, now)
		if err != nil {
			return err
		}
		delta := in.NewQuantity.Sub(bal.CurrentStock)
		if delta.IsZero() {
			return domain.ErrNoOpAdjustment
		}
		if in.NewQuantity.LessThan(bal.ReservedStock) {
			return domain.ErrInsufficientAvailableStock
		}

		unitPrice := in.UnitPrice
		if delta.GreaterThan(decimal.Zero) {
			bal.AvgCost = kardex.AvgCost(bal.CurrentStock, bal.AvgCost, delta, in.UnitPrice)
			bal.LastInAt = &now
		} else {
			// Ajuste hacia abajo: sale al costo promedio vigente
			unitPrice = bal.AvgCost
			bal.LastOutAt = &now
		}
		bal.CurrentStock = in.NewQuantity
		bal.AvailableStock = in.NewQuantity.Sub(bal.ReservedStock)
		bal.UpdatedAt = now
		if err := balanceRepo.Upsert(bal); err != nil {
			return err
		}

		movIn := MovementInput{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			ReferenceType: entity.ReferenceTypeAdjustment,
			Operator:      in.Operator,
		}
		tx, err := uc.appendTransaction(txRepo, seqRepo, companyID, entity.TransactionTypeADJUST, seqADJ, bal, delta, unitPrice, movIn, now)
		if err != nil {
			return err
		}
		mov = &Movement{Balance: bal, Transaction: tx}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Reserve aparta cantidad del disponible para un pedido en curso. No mueve
// CurrentStock ni agrega transacción: la mercancía no salió de la bodega.
func (uc *UseCase) Reserve(ctx context.Context, companyID, productID, warehouseID string, quantity decimal.Decimal) (*entity.StockBalance, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := uc.lookupProduct(companyID, productID); err != nil {
		return nil, err
	}
	if err := uc.checkWarehouse(companyID, warehouseID); err != nil {
		return nil, err
	}

	var result *entity.StockBalance
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		var txErr error
		result, txErr = uc.ReserveTx(balanceRepo, productID, warehouseID, quantity)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReserveTx ejecuta la reserva dentro de la transacción del caller.
func (uc *UseCase) ReserveTx(balanceRepo repository.BalanceRepository, productID, warehouseID string, quantity decimal.Decimal) (*entity.StockBalance, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	bal, err := balanceRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if bal == nil || bal.AvailableStock.LessThan(quantity) {
		return nil, domain.ErrInsufficientAvailableStock
	}
	bal.AvailableStock = bal.AvailableStock.Sub(quantity)
	bal.ReservedStock = bal.ReservedStock.Add(quantity)
	bal.UpdatedAt = time.Now()
	if err := balanceRepo.Upsert(bal); err != nil {
		return nil, err
	}
	return bal, nil
}

// Release devuelve cantidad reservada al disponible.
func (uc *UseCase) Release(ctx context.Context, companyID, productID, warehouseID string, quantity decimal.Decimal) (*entity.StockBalance, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := uc.lookupProduct(companyID, productID); err != nil {
		return nil, err
	}
	if err := uc.checkWarehouse(companyID, warehouseID); err != nil {
		return nil, err
	}

	var result *entity.StockBalance
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		var txErr error
		result, txErr = uc.ReleaseTx(balanceRepo, productID, warehouseID, quantity)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReleaseTx ejecuta la liberación dentro de la transacción del caller.
func (uc *UseCase) ReleaseTx(balanceRepo repository.BalanceRepository, productID, warehouseID string, quantity decimal.Decimal) (*entity.StockBalance, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	bal, err := balanceRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if bal == nil || bal.ReservedStock.LessThan(quantity) {
		return nil, domain.ErrInsufficientReservedStock
	}
	bal.ReservedStock = bal.ReservedStock.Sub(quantity)
	bal.AvailableStock = bal.AvailableStock.Add(quantity)
	bal.UpdatedAt = time.Now()
	if err := balanceRepo.Upsert(bal); err != nil {
		return nil, err
	}
	return bal, nil
}

// ReleaseUpToTx libera hasta quantity de lo reservado (lo que haya). Lo usa el
// despacho de pedidos con reserva: la salida debe consumir lo apartado.
// Devuelve cuánto se liberó realmente.
func (uc *UseCase) ReleaseUpToTx(balanceRepo repository.BalanceRepository, productID, warehouseID string, quantity decimal.Decimal) (decimal.Decimal, error) {
	bal, err := balanceRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	if bal == nil || !bal.ReservedStock.GreaterThan(decimal.Zero) || !quantity.GreaterThan(decimal.Zero) {
		return decimal.Zero, nil
	}
	release := decimal.Min(quantity, bal.ReservedStock)
	bal.ReservedStock = bal.ReservedStock.Sub(release)
	bal.AvailableStock = bal.AvailableStock.Add(release)
	bal.UpdatedAt = time.Now()
	if err := balanceRepo.Upsert(bal); err != nil {
		return decimal.Zero, err
	}
	return release, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (uc *UseCase) lookupProduct(companyID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return nil, domain.ErrUnknownProduct
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func (uc *UseCase) checkWarehouse(companyID, warehouseID string) error {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil || wh == nil {
		return domain.ErrUnknownWarehouse
	}
	if wh.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

// balanceForUpdate bloquea la fila del saldo; si no existe la crea en cero
// copiando los umbrales del producto (creación perezosa en el primer movimiento).
func (uc *UseCase) balanceForUpdate(
	balanceRepo repository.BalanceRepository,
	product *entity.Product,
	companyID, warehouseID string,
	now time.Time,
) (*entity.StockBalance, error) {
	bal, err := balanceRepo.GetForUpdate(product.ID, warehouseID)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		bal = entity.NewStockBalance(companyID, product.ID, warehouseID, product.MinStock, product.MaxStock, now)
	}
	return bal, nil
}

// appendTransaction pide el consecutivo y agrega la línea al libro de kardex.
// quantity llega ya con signo (negativa en salidas y ajustes hacia abajo).
func (uc *UseCase) appendTransaction(
	txRepo repository.TransactionRepository,
	seqRepo repository.SequenceRepository,
	companyID, txType, seqName string,
	bal *entity.StockBalance,
	quantity, unitPrice decimal.Decimal,
	in MovementInput,
	now time.Time,
) (*entity.StockTransaction, error) {
	n, err := seqRepo.Next(companyID, seqName)
	if err != nil {
		return nil, err
	}
	tx := &entity.StockTransaction{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		TransactionNo: fmt.Sprintf("%s-%06d", seqName, n),
		ProductID:     bal.ProductID,
		WarehouseID:   bal.WarehouseID,
		Type:          txType,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TotalAmount:   quantity.Mul(unitPrice),
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Operator:      in.Operator,
		CreatedAt:     now,
	}
	if err := txRepo.Append(tx); err != nil {
		return nil, err
	}
	return tx, nil
}
