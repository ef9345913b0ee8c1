package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

// SlipLine línea del documento impreso con el nombre del producto ya resuelto.
type SlipLine struct {
	Line        entity.OperationLine
	SKU         string
	ProductName string
	UnitMeasure string
}

// SlipData todo lo que necesita el generador para imprimir un documento.
type SlipData struct {
	Operation  *entity.Operation
	Lines      []SlipLine
	SourceName string
	DestName   string
	Moves      []*entity.Move // vacío si aún no está done
}

// SlipGenerator renderiza el documento (PDF) de una operación.
type SlipGenerator interface {
	GenerateOperationSlip(ctx context.Context, data SlipData) ([]byte, error)
}

// SlipUseCase genera el comprobante imprimible de una operación en cualquier estado.
type SlipUseCase struct {
	ops       repository.OperationRepository
	moves     repository.MoveRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	generator SlipGenerator
}

// NewSlipUseCase construye el caso de uso.
func NewSlipUseCase(
	ops repository.OperationRepository,
	moves repository.MoveRepository,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	generator SlipGenerator,
) *SlipUseCase {
	return &SlipUseCase{ops: ops, moves: moves, products: products, locations: locations, generator: generator}
}

// Download devuelve (pdfBytes, filename). Las operaciones done incluyen sus movimientos.
func (uc *SlipUseCase) Download(ctx context.Context, id string) ([]byte, string, error) {
	op, err := uc.ops.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("slip: obtener operación: %w", err)
	}
	if op == nil {
		return nil, "", domain.ErrNotFound
	}

	data := SlipData{Operation: op, Lines: make([]SlipLine, 0, len(op.Lines))}
	for _, l := range op.Lines {
		sl := SlipLine{Line: l, SKU: l.ProductID, ProductName: l.ProductID}
		p, err := uc.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("slip: producto %s: %w", l.ProductID, err)
		}
		if p != nil {
			sl.SKU, sl.ProductName, sl.UnitMeasure = p.SKU, p.Name, p.UnitMeasure
		}
		data.Lines = append(data.Lines, sl)
	}
	if data.SourceName, err = uc.locationName(ctx, op.SourceLocationID); err != nil {
		return nil, "", err
	}
	if data.DestName, err = uc.locationName(ctx, op.DestLocationID); err != nil {
		return nil, "", err
	}
	if op.Status == entity.StatusDone {
		if data.Moves, err = uc.moves.ListByReference(ctx, op.Reference); err != nil {
			return nil, "", fmt.Errorf("slip: movimientos: %w", err)
		}
	}

	pdf, err := uc.generator.GenerateOperationSlip(ctx, data)
	if err != nil {
		return nil, "", err
	}
	return pdf, SlipFilename(op.Reference), nil
}

// SlipFilename "receipt/0001" → "receipt-0001.pdf".
func SlipFilename(reference string) string {
	return strings.ReplaceAll(reference, "/", "-") + ".pdf"
}

func (uc *SlipUseCase) locationName(ctx context.Context, id *string) (string, error) {
	if id == nil {
		return "", nil
	}
	loc, err := uc.locations.GetByID(ctx, *id)
	if err != nil {
		return "", fmt.Errorf("slip: ubicación %s: %w", *id, err)
	}
	if loc == nil {
		return *id, nil
	}
	return loc.Name, nil
}
