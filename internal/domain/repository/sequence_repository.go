package repository

// SequenceRepository entrega consecutivos monotónicos por empresa y nombre de
// secuencia (IN, OUT, ADJ, REC, DES, OC, PV). Debe usarse dentro de la misma
// transacción que el registro que consume el número.
type SequenceRepository interface {
	Next(companyID, name string) (int64, error)
}
