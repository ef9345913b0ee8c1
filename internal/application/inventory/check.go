package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
)

// Check compara la demanda con el stock libre del origen y deja la operación en ready o waiting.
// Fija done_qty = demand_qty en las líneas que aún no lo tienen. No modifica el ledger ni reserva.
// Bloquea la fila de la operación para no cruzarse con un Validate concurrente.
func (uc *OperationUseCase) Check(ctx context.Context, id string) (*dto.CheckResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.CheckOperation")
	defer span.End()

	var (
		result stock.CheckResult
		status entity.OperationStatus
	)
	err := uc.tx.Run(ctx, func(quants repository.QuantRepository, ops repository.OperationRepository, _ repository.MoveRepository) error {
		op, err := lockOperation(ctx, ops, id)
		if err != nil {
			return err
		}
		if err := terminalError(op.Status); err != nil {
			return err
		}
		for i := range op.Lines {
			if op.Lines[i].DoneQty == nil {
				d := op.Lines[i].DemandQty
				op.Lines[i].DoneQty = &d
			}
		}
		reqs := stock.Requirements(op, stock.ByDemand)
		free := make(map[string]decimal.Decimal, len(reqs))
		for _, r := range reqs {
			q, err := quants.Get(ctx, r.ProductID, r.LocationID)
			if err != nil {
				return err
			}
			free[r.ProductID] = q.Free()
		}
		result = stock.Evaluate(reqs, free)
		if result.Ready {
			op.Status = entity.StatusReady
		} else {
			op.Status = entity.StatusWaiting
		}
		status = op.Status
		op.UpdatedAt = uc.now()
		return ops.Update(ctx, op)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.invalidate(ctx)
	uc.log.Debug().Str("operation_id", id).Bool("ready", result.Ready).Msg("chequeo de disponibilidad")
	return &dto.CheckResponse{
		Ready:      result.Ready,
		Message:    result.Message(),
		Status:     string(status),
		Shortfalls: ToShortfallResponses(result.Shortfalls),
	}, nil
}
