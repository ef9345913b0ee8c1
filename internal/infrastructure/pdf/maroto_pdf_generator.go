// Package pdf genera el comprobante imprimible de una operación de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de operación   │  Referencia + Estado + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  UBICACIONES: Origen → Destino / Socio                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | SKU | Producto | Demanda | Hecho | Unidad       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MOVIMIENTOS (solo done): Seq | Producto | Cantidad         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de la referencia + firma                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var typeTitles = map[entity.OperationType]string{
	entity.OperationReceipt:    "RECEPCIÓN",
	entity.OperationDelivery:   "ENTREGA",
	entity.OperationInternal:   "TRASLADO INTERNO",
	entity.OperationAdjustment: "AJUSTE DE INVENTARIO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.SlipGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.SlipGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
}

// NewMarotoPDFGenerator construye el generador; company aparece como autor del documento.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: company}
}

// GenerateOperationSlip genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateOperationSlip(_ context.Context, data inventory.SlipData) ([]byte, error) {
	op := data.Operation
	if op == nil {
		return nil, fmt.Errorf("pdf: operación nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(op.Reference, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(op))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(locationsRow(op, data.SourceName, data.DestName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(lineRows(data.Lines)...)

	if len(data.Moves) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(movesRows(data.Moves, data.Lines)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(op))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo (izq) y referencia + estado + fecha (der).
func headerRow(op *entity.Operation) core.Row {
	date := op.CreatedAt
	if op.ScheduledDate != nil {
		date = *op.ScheduledDate
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(typeTitles[op.Type], props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Creada por: "+nonEmpty(op.CreatedBy, "—"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(op.Reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+strings.ToUpper(string(op.Status)), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorPrimary,
			}),
			text.New("Fecha: "+date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func locationsRow(op *entity.Operation, source, dest string) core.Row {
	partner := "—"
	if op.PartnerID != nil {
		partner = *op.PartnerID
	}
	return row.New(14).Add(
		col.New(5).Add(
			text.New("ORIGEN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(source, "—"), props.Text{Size: 10, Top: 6}),
		),
		col.New(5).Add(
			text.New("DESTINO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(dest, "—"), props.Text{Size: 10, Top: 6}),
		),
		col.New(2).Add(
			text.New("SOCIO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right}),
			text.New(partner, props.Text{Size: 8, Top: 6, Align: align.Right}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("#", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Demanda", 2, align.Right),
		h("Hecho", 2, align.Right),
		h("Unidad", 1, align.Center),
	)
}

// lineRows: una fila por línea; Hecho vacío si done_qty no está fijado.
func lineRows(lines []inventory.SlipLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		done := ""
		if l.Line.DoneQty != nil {
			done = l.Line.DoneQty.String()
		}
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Line.Position), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Line.DemandQty.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(done, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(nonEmpty(l.UnitMeasure, "—"), props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return out
}

func movesRows(moves []*entity.Move, lines []inventory.SlipLine) []core.Row {
	names := make(map[string]string, len(lines))
	for _, l := range lines {
		names[l.Line.ProductID] = l.ProductName
	}
	out := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("MOVIMIENTOS DE STOCK", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, mv := range moves {
		out = append(out, row.New(5).Add(
			col.New(1).Add(text.New(fmt.Sprint(mv.Sequence), props.Text{Size: 7.5, Align: align.Center, Top: 0.5})),
			col.New(5).Add(text.New(nonEmpty(names[mv.ProductID], mv.ProductID), props.Text{Size: 7.5, Top: 0.5, Left: 1})),
			col.New(4).Add(text.New(legLabel(mv), props.Text{Size: 7.5, Top: 0.5, Color: colorGray})),
			col.New(2).Add(text.New(mv.Quantity.String(), props.Text{Size: 7.5, Align: align.Right, Top: 0.5, Right: 1})),
		))
	}
	return out
}

// footerRow: QR con la referencia + firma de recepción.
func footerRow(op *entity.Operation) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(op.Reference, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Escanee el código para abrir "+op.Reference+".", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Firma: ______________________________", props.Text{
				Size: 9, Top: 24, Left: 3,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func legLabel(mv *entity.Move) string {
	src, dst := "—", "—"
	if mv.SourceLocationID != nil {
		src = *mv.SourceLocationID
	}
	if mv.DestLocationID != nil {
		dst = *mv.DestLocationID
	}
	return src + " → " + dst
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
