package workflow

import "github.com/shopspring/decimal"

// Totales are the derived monetary fields recomputed from a document's child
// lines. Pure data — computing them never touches storage.
type Totales struct {
	Acumulado  decimal.Decimal // suma de líneas (monto gastado / cobrado)
	Saldo      decimal.Decimal // base - acumulado
	Porcentaje decimal.Decimal // acumulado / base * 100, redondeado a 2
}

// CalcularTotales derives the aggregates from the monto base and the current
// line amounts. Called on every line mutation while the document is editable
// and again at totals-bearing transitions, so stale aggregates cannot leak
// into a closed document.
func CalcularTotales(base decimal.Decimal, lineas []decimal.Decimal) Totales {
	acumulado := decimal.Zero
	for _, m := range lineas {
		acumulado = acumulado.Add(m)
	}
	t := Totales{Acumulado: acumulado, Saldo: base.Sub(acumulado)}
	if base.IsPositive() {
		t.Porcentaje = acumulado.Div(base).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return t
}
