// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Se usa cuando no hay DATABASE_URL configurado: útil para demos,
// desarrollo local y tests de integración sin PostgreSQL.
package memory

import (
	"sync"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Store guarda todo el estado en memoria. Los repositorios comparten el mismo
// Store y sincronizan con su RWMutex. Las entidades se guardan por valor: cada
// lectura devuelve una copia, de modo que el caller no puede mutar el estado
// sin pasar por un repositorio.
type Store struct {
	mu sync.RWMutex

	companies  map[string]entity.Company
	users      map[string]entity.User
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse

	// Estado de kardex y cumplimiento: solo muta dentro de TxRunner.
	balances     map[string]entity.StockBalance // productID|warehouseID
	transactions []entity.StockTransaction      // append-only
	orders       map[string]entity.Order
	orderLines   map[string]entity.OrderLine
	lineOrder    []string // IDs de líneas de pedido en orden de inserción
	documents    map[string]entity.FulfillmentDocument
	docLines     map[string]entity.DocumentLine
	docLineOrder []string // IDs de líneas de documento en orden de inserción
	sequences    map[string]int64 // companyID|name → último consecutivo
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		companies:  make(map[string]entity.Company),
		users:      make(map[string]entity.User),
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		balances:   make(map[string]entity.StockBalance),
		orders:     make(map[string]entity.Order),
		orderLines: make(map[string]entity.OrderLine),
		documents:  make(map[string]entity.FulfillmentDocument),
		docLines:   make(map[string]entity.DocumentLine),
		sequences:  make(map[string]int64),
	}
}

func balanceKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func sequenceKey(companyID, name string) string {
	return companyID + "|" + name
}

// ledgerSnapshot es una copia del estado que muta dentro de transacciones.
// TxRunner lo toma antes de ejecutar el closure y lo restaura si falla.
type ledgerSnapshot struct {
	balances     map[string]entity.StockBalance
	transactions []entity.StockTransaction
	orders       map[string]entity.Order
	orderLines   map[string]entity.OrderLine
	lineOrder    []string
	documents    map[string]entity.FulfillmentDocument
	docLines     map[string]entity.DocumentLine
	docLineOrder []string
	sequences    map[string]int64
}

func (s *Store) snapshotLedger() *ledgerSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := &ledgerSnapshot{
		balances:     make(map[string]entity.StockBalance, len(s.balances)),
		transactions: make([]entity.StockTransaction, len(s.transactions)),
		orders:       make(map[string]entity.Order, len(s.orders)),
		orderLines:   make(map[string]entity.OrderLine, len(s.orderLines)),
		lineOrder:    make([]string, len(s.lineOrder)),
		documents:    make(map[string]entity.FulfillmentDocument, len(s.documents)),
		docLines:     make(map[string]entity.DocumentLine, len(s.docLines)),
		docLineOrder: make([]string, len(s.docLineOrder)),
		sequences:    make(map[string]int64, len(s.sequences)),
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	copy(snap.transactions, s.transactions)
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.orderLines {
		snap.orderLines[k] = v
	}
	copy(snap.lineOrder, s.lineOrder)
	for k, v := range s.documents {
		snap.documents[k] = v
	}
	for k, v := range s.docLines {
		snap.docLines[k] = v
	}
	copy(snap.docLineOrder, s.docLineOrder)
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	return snap
}

func (s *Store) restoreLedger(snap *ledgerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = snap.balances
	s.transactions = snap.transactions
	s.orders = snap.orders
	s.orderLines = snap.orderLines
	s.lineOrder = snap.lineOrder
	s.documents = snap.documents
	s.docLines = snap.docLines
	s.docLineOrder = snap.docLineOrder
	s.sequences = snap.sequences
}
