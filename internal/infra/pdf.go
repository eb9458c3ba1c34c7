package infra

// pdf.go — Rendición PDF generation using go-pdf/fpdf.
// Generates an A4 expense-sheet report with:
//   - Company header and sheet code
//   - Deposit / spent / balance summary
//   - Expense line table (date, category, description, amount)
//   - Bold totals row
//
// The output file is saved to storagePath/rendicion_{codigo}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"gyscontrol/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarRendicionPDF writes the printable rendición for a hoja de gastos.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerarRendicionPDF(hoja *model.HojaGastos, solicitanteNombre, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("rendicion_%s.pdf", hoja.Codigo)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "GYS Control", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Rendición de gastos", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Sheet info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW/2, 6, fmt.Sprintf("Hoja %s", hoja.Codigo), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 6, hoja.CreatedAt.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Solicitante: %s", solicitanteNombre), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, hoja.Descripcion, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Summary ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	resumen := [][2]string{
		{"Monto depositado:", "S/ " + hoja.MontoDepositado.StringFixed(2)},
		{"Monto gastado:", "S/ " + hoja.MontoGastado.StringFixed(2)},
		{"Saldo:", "S/ " + hoja.Saldo.StringFixed(2)},
		{"Porcentaje rendido:", hoja.PorcentajeRendido.StringFixed(2) + " %"},
	}
	for _, fila := range resumen {
		pdf.CellFormat(contentW*0.35, 5, fila[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.25, 5, fila[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Line table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.14 // fecha
	col2 := contentW * 0.20 // categoria
	col3 := contentW * 0.48 // descripcion
	col4 := contentW * 0.18 // monto

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Fecha", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Categoría", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Descripción", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, "Monto", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, l := range hoja.Lineas {
		descripcion := l.Descripcion
		if len(descripcion) > 48 {
			descripcion = descripcion[:47] + "…"
		}
		pdf.CellFormat(col1, 6, l.Fecha.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, l.Categoria, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, descripcion, "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 6, l.Moneda+" "+l.Monto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3, 7, "TOTAL GASTADO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 7, "S/ "+hoja.MontoGastado.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
