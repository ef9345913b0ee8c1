package stock

import (
	"fmt"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// OverDeliveryPolicy decide si done_qty puede superar demand_qty.
type OverDeliveryPolicy string

const (
	OverDeliveryAllow  OverDeliveryPolicy = "allow"
	OverDeliveryReject OverDeliveryPolicy = "reject"
)

// ParseOverDeliveryPolicy valor desconocido o vacío → allow.
func ParseOverDeliveryPolicy(s string) OverDeliveryPolicy {
	if OverDeliveryPolicy(s) == OverDeliveryReject {
		return OverDeliveryReject
	}
	return OverDeliveryAllow
}

// CheckLine valida done_qty de una línea contra la política.
func (p OverDeliveryPolicy) CheckLine(l entity.OperationLine) error {
	if l.DoneQty == nil {
		return nil
	}
	if l.DoneQty.IsNegative() {
		return fmt.Errorf("%w: done_qty negativo en línea %s", domain.ErrInvalidInput, l.ID)
	}
	if p == OverDeliveryReject && l.DoneQty.GreaterThan(l.DemandQty) {
		return fmt.Errorf("%w: done_qty %s supera demand_qty %s en línea %s",
			domain.ErrInvalidInput, l.DoneQty, l.DemandQty, l.ID)
	}
	return nil
}

// CheckOperation aplica CheckLine a todas las líneas.
func (p OverDeliveryPolicy) CheckOperation(op *entity.Operation) error {
	for _, l := range op.Lines {
		if err := p.CheckLine(l); err != nil {
			return err
		}
	}
	return nil
}
