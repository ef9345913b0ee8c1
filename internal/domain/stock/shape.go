package stock

import (
	"fmt"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// ValidateShape reglas de ubicaciones por tipo y de líneas, antes de cualquier cambio de estado:
//
//	receipt:    destino obligatorio, sin origen
//	delivery:   origen obligatorio, sin destino
//	internal:   origen y destino distintos
//	adjustment: exactamente una ubicación (destino = aumento, origen = disminución)
func ValidateShape(op *entity.Operation) error {
	if !op.Type.Valid() {
		return fmt.Errorf("%w: operation_type desconocido %q", domain.ErrInvalidInput, op.Type)
	}
	src, dst := op.SourceLocationID, op.DestLocationID
	switch op.Type {
	case entity.OperationReceipt:
		if dst == nil || src != nil {
			return fmt.Errorf("%w: receipt requiere dest_location_id y no admite source_location_id", domain.ErrInvalidInput)
		}
	case entity.OperationDelivery:
		if src == nil || dst != nil {
			return fmt.Errorf("%w: delivery requiere source_location_id y no admite dest_location_id", domain.ErrInvalidInput)
		}
	case entity.OperationInternal:
		if src == nil || dst == nil {
			return fmt.Errorf("%w: internal requiere source_location_id y dest_location_id", domain.ErrInvalidInput)
		}
		if *src == *dst {
			return fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
		}
	case entity.OperationAdjustment:
		if (src == nil) == (dst == nil) {
			return fmt.Errorf("%w: adjustment requiere exactamente una ubicación", domain.ErrInvalidInput)
		}
	}
	if len(op.Lines) == 0 {
		return fmt.Errorf("%w: la operación no tiene líneas", domain.ErrInvalidInput)
	}
	return ValidateLines(op.Lines)
}

// ValidateLines producto obligatorio y demand_qty >= 0.
func ValidateLines(lines []entity.OperationLine) error {
	for i, l := range lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin product_id", domain.ErrInvalidInput, i+1)
		}
		if l.DemandQty.IsNegative() {
			return fmt.Errorf("%w: línea %d con demand_qty negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}
