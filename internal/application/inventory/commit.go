package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
)

// CommitResult operación ya en done y los movimientos escritos.
type CommitResult struct {
	Operation *entity.Operation
	Moves     []*entity.Move
}

// Message "Created N stock moves".
func (r CommitResult) Message() string {
	return fmt.Sprintf("Created %d stock moves", len(r.Moves))
}

// Commit aplica la operación al ledger en una sola transacción:
// bloquea la operación y las filas de stock (orden producto, ubicación), re-valida el stock libre con
// las cantidades done, aplica los deltas de la estrategia del tipo, escribe un movimiento por línea
// y deja la operación en done. Cualquier error deshace todo.
// Con faltantes devuelve *domain.ShortfallError y la operación vuelve de ready a waiting.
func (uc *OperationUseCase) Commit(ctx context.Context, id, userID string) (*CommitResult, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.ValidateOperation")
	defer span.End()
	span.SetAttributes(attribute.String("operation.id", id))

	var result CommitResult
	err := uc.tx.Run(ctx, func(quants repository.QuantRepository, ops repository.OperationRepository, moves repository.MoveRepository) error {
		op, err := lockOperation(ctx, ops, id)
		if err != nil {
			return err
		}
		switch op.Status {
		case entity.StatusReady:
		case entity.StatusDone:
			return domain.ErrAlreadyValidated
		case entity.StatusCancelled:
			return domain.ErrCancelled
		default:
			return fmt.Errorf("%w: estado %s, ejecutar check primero", domain.ErrNotReady, op.Status)
		}
		if err := uc.policy.CheckOperation(op); err != nil {
			return err
		}

		plan, err := stock.BuildPlan(op)
		if err != nil {
			return err
		}
		locked := make(map[[2]string]entity.Quant, len(plan.Deltas))
		for _, k := range plan.Keys() {
			q, err := quants.GetForUpdate(ctx, k[0], k[1])
			if err != nil {
				return err
			}
			locked[k] = q
		}

		reqs := stock.Requirements(op, stock.ByQtyToMove)
		free := make(map[string]decimal.Decimal, len(reqs))
		for _, r := range reqs {
			free[r.ProductID] = locked[[2]string{r.ProductID, r.LocationID}].Free()
		}
		if res := stock.Evaluate(reqs, free); !res.Ready {
			return res.Err()
		}

		for _, d := range plan.Deltas {
			if _, err := quants.ApplyDelta(ctx, d.ProductID, d.LocationID, d.OnHand, decimal.Zero); err != nil {
				return err
			}
		}

		now := uc.now()
		written := make([]*entity.Move, 0, len(plan.Legs))
		for i, leg := range plan.Legs {
			m := &entity.Move{
				ID:               uuid.New().String(),
				OperationID:      op.ID,
				Reference:        op.Reference,
				Sequence:         i + 1,
				ProductID:        leg.Line.ProductID,
				SourceLocationID: leg.Source,
				DestLocationID:   leg.Dest,
				Quantity:         leg.Qty,
				CommittedAt:      now,
				CommittedBy:      userID,
			}
			if err := moves.Append(ctx, m); err != nil {
				return err
			}
			written = append(written, m)
		}

		for i := range op.Lines {
			q := op.Lines[i].QtyToMove()
			op.Lines[i].DoneQty = &q
		}
		op.Status = entity.StatusDone
		op.UpdatedAt = now
		if err := ops.Update(ctx, op); err != nil {
			return err
		}
		result = CommitResult{Operation: op, Moves: written}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var se *domain.ShortfallError
		if errors.As(err, &se) {
			uc.demoteToWaiting(ctx, id)
			uc.log.Warn().Str("operation_id", id).Str("shortfalls", se.Error()).Msg("validación rechazada por stock insuficiente")
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("operation.reference", result.Operation.Reference),
		attribute.Int("operation.moves", len(result.Moves)),
	)
	uc.log.Info().
		Str("operation_id", result.Operation.ID).
		Str("reference", result.Operation.Reference).
		Int("moves", len(result.Moves)).
		Msg("operación validada")

	evt := newValidatedEvent(result.Operation, result.Moves, userID, result.Operation.UpdatedAt)
	if err := uc.publisher.PublishOperationValidated(ctx, evt); err != nil {
		uc.log.Warn().Err(err).Str("reference", evt.Reference).Msg("no se pudo publicar el evento de validación")
	}
	uc.invalidate(ctx)
	return &result, nil
}

// Validate Commit expresado en DTOs para la capa HTTP.
func (uc *OperationUseCase) Validate(ctx context.Context, id, userID string) (*dto.ValidateResponse, error) {
	res, err := uc.Commit(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ValidateResponse{
		Message:   res.Message(),
		Operation: *toOperationResponse(res.Operation),
		Moves:     toMoveResponses(res.Moves),
	}, nil
}

// demoteToWaiting fuera de la tx ya revertida; solo aplica si sigue en ready.
func (uc *OperationUseCase) demoteToWaiting(ctx context.Context, id string) {
	ok, err := uc.ops.CompareAndSetStatus(ctx, id, []entity.OperationStatus{entity.StatusReady}, entity.StatusWaiting)
	if err != nil {
		uc.log.Error().Err(err).Str("operation_id", id).Msg("no se pudo pasar la operación a waiting")
		return
	}
	if ok {
		uc.invalidate(ctx)
	}
}
