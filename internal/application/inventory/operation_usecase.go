// Package inventory contiene los casos de uso del ciclo de vida de operaciones:
// creación y edición, chequeo de disponibilidad, commit al ledger y consultas de movimientos.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
	"github.com/jhoicas/Stockmaster-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/Stockmaster-api/internal/application/inventory"

// OperationDeps dependencias de OperationUseCase. Publisher, Cache, Logger y Tracer son opcionales.
type OperationDeps struct {
	TxRunner     TxRunner
	Operations   repository.OperationRepository
	Products     repository.ProductRepository
	Locations    repository.LocationRepository
	Publisher    EventPublisher
	Cache        CacheInvalidator
	OverDelivery stock.OverDeliveryPolicy
	Logger       *logger.Logger
	Tracer       trace.Tracer
	Now          func() time.Time
}

// OperationUseCase ciclo de vida de operaciones: draft → waiting ⇄ ready → done, cancelled.
type OperationUseCase struct {
	tx        TxRunner
	ops       repository.OperationRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	publisher EventPublisher
	cache     CacheInvalidator
	policy    stock.OverDeliveryPolicy
	log       *logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewOperationUseCase construye el caso de uso.
func NewOperationUseCase(d OperationDeps) *OperationUseCase {
	uc := &OperationUseCase{
		tx:        d.TxRunner,
		ops:       d.Operations,
		products:  d.Products,
		locations: d.Locations,
		publisher: d.Publisher,
		cache:     d.Cache,
		policy:    d.OverDelivery,
		log:       d.Logger,
		tracer:    d.Tracer,
		now:       d.Now,
	}
	if uc.publisher == nil {
		uc.publisher = noopPublisher{}
	}
	if uc.cache == nil {
		uc.cache = noopInvalidator{}
	}
	if uc.policy == "" {
		uc.policy = stock.OverDeliveryAllow
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.tracer == nil {
		uc.tracer = otel.Tracer(tracerName)
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// Create valida la forma, reserva la referencia y persiste la operación en draft.
func (uc *OperationUseCase) Create(ctx context.Context, userID string, in dto.CreateOperationRequest) (*dto.OperationResponse, error) {
	now := uc.now()
	op := &entity.Operation{
		ID:               uuid.New().String(),
		Type:             entity.OperationType(in.OperationType),
		SourceLocationID: normalizeID(in.SourceLocationID),
		DestLocationID:   normalizeID(in.DestLocationID),
		PartnerID:        normalizeID(in.PartnerID),
		ScheduledDate:    in.ScheduledDate,
		Status:           entity.StatusDraft,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	op.Lines = newLines(op.ID, in.Lines, 0)
	if err := stock.ValidateShape(op); err != nil {
		return nil, err
	}
	if err := uc.ensureLocations(ctx, op.SourceLocationID, op.DestLocationID); err != nil {
		return nil, err
	}
	if err := uc.ensureProducts(ctx, op.Lines); err != nil {
		return nil, err
	}

	err := uc.tx.Run(ctx, func(_ repository.QuantRepository, ops repository.OperationRepository, _ repository.MoveRepository) error {
		ref, err := ops.NextReference(ctx, op.Type)
		if err != nil {
			return err
		}
		op.Reference = ref
		return ops.Create(ctx, op)
	})
	if err != nil {
		return nil, fmt.Errorf("crear operación: %w", err)
	}
	uc.invalidate(ctx)
	uc.log.Info().Str("operation_id", op.ID).Str("reference", op.Reference).Int("lines", len(op.Lines)).Msg("operación creada")
	return toOperationResponse(op), nil
}

// Get devuelve la operación con sus líneas; domain.ErrNotFound si no existe.
func (uc *OperationUseCase) Get(ctx context.Context, id string) (*dto.OperationResponse, error) {
	op, err := uc.ops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	return toOperationResponse(op), nil
}

// List filtra por tipo, estado y referencia.
func (uc *OperationUseCase) List(ctx context.Context, in dto.OperationFilterRequest) (*dto.OperationListResponse, error) {
	in.DefaultPage()
	filter := repository.OperationFilter{
		Type:   entity.OperationType(in.OperationType),
		Status: entity.OperationStatus(in.Status),
		Search: in.Search,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: type %q", domain.ErrInvalidInput, in.OperationType)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, in.Status)
	}
	ops, err := uc.ops.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.OperationListResponse{
		Items: make([]dto.OperationResponse, 0, len(ops)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, op := range ops {
		out.Items = append(out.Items, *toOperationResponse(op))
	}
	return out, nil
}

// Patch edita partner, fecha programada y done_qty de líneas; status solo admite "cancelled".
// Rechazado una vez que la operación está done o cancelled.
func (uc *OperationUseCase) Patch(ctx context.Context, id string, in dto.PatchOperationRequest) (*dto.OperationResponse, error) {
	if in.Status != nil && *in.Status != string(entity.StatusCancelled) {
		return nil, fmt.Errorf("%w: solo se puede fijar status=cancelled; usar check/validate", domain.ErrInvalidInput)
	}
	var updated *entity.Operation
	err := uc.tx.Run(ctx, func(_ repository.QuantRepository, ops repository.OperationRepository, _ repository.MoveRepository) error {
		op, err := lockOperation(ctx, ops, id)
		if err != nil {
			return err
		}
		if err := terminalError(op.Status); err != nil {
			return err
		}
		if in.PartnerID != nil {
			op.PartnerID = normalizeID(in.PartnerID)
		}
		if in.ScheduledDate != nil {
			op.ScheduledDate = in.ScheduledDate
		}
		for _, p := range in.Lines {
			line := op.Line(p.ID)
			if line == nil {
				return fmt.Errorf("%w: línea %s no pertenece a la operación", domain.ErrInvalidInput, p.ID)
			}
			done := p.DoneQty
			line.DoneQty = &done
			if err := uc.policy.CheckLine(*line); err != nil {
				return err
			}
		}
		if in.Status != nil {
			op.Status = entity.StatusCancelled
		}
		op.UpdatedAt = uc.now()
		if err := ops.Update(ctx, op); err != nil {
			return err
		}
		updated = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toOperationResponse(updated), nil
}

// AppendLines agrega líneas mientras la operación esté en draft o waiting.
func (uc *OperationUseCase) AppendLines(ctx context.Context, id string, in dto.AppendLinesRequest) (*dto.OperationResponse, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: sin líneas", domain.ErrInvalidInput)
	}
	candidate := newLines(id, in.Lines, 0)
	if err := stock.ValidateLines(candidate); err != nil {
		return nil, err
	}
	if err := uc.ensureProducts(ctx, candidate); err != nil {
		return nil, err
	}
	var updated *entity.Operation
	err := uc.tx.Run(ctx, func(_ repository.QuantRepository, ops repository.OperationRepository, _ repository.MoveRepository) error {
		op, err := lockOperation(ctx, ops, id)
		if err != nil {
			return err
		}
		if err := terminalError(op.Status); err != nil {
			return err
		}
		if !op.Status.CanEditLines() {
			return fmt.Errorf("%w: solo se agregan líneas en draft o waiting (estado %s)", domain.ErrInvalidInput, op.Status)
		}
		lines := newLines(op.ID, in.Lines, maxPosition(op.Lines))
		if err := ops.AppendLines(ctx, op.ID, lines); err != nil {
			return err
		}
		updated, err = ops.GetByID(ctx, op.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOperationResponse(updated), nil
}

// Cancel pasa a cancelled desde draft, waiting o ready. No toca el ledger.
func (uc *OperationUseCase) Cancel(ctx context.Context, id string) (*dto.OperationResponse, error) {
	ok, err := uc.ops.CompareAndSetStatus(ctx, id,
		[]entity.OperationStatus{entity.StatusDraft, entity.StatusWaiting, entity.StatusReady},
		entity.StatusCancelled)
	if err != nil {
		return nil, err
	}
	op, err := uc.ops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	if !ok {
		if err := terminalError(op.Status); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: no se pudo cancelar en estado %s", domain.ErrInvalidInput, op.Status)
	}
	uc.invalidate(ctx)
	uc.log.Info().Str("operation_id", op.ID).Str("reference", op.Reference).Msg("operación cancelada")
	return toOperationResponse(op), nil
}

func (uc *OperationUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de KPIs")
	}
}

func (uc *OperationUseCase) ensureLocations(ctx context.Context, ids ...*string) error {
	for _, id := range ids {
		if id == nil {
			continue
		}
		loc, err := uc.locations.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s inexistente", domain.ErrInvalidInput, *id)
		}
	}
	return nil
}

func (uc *OperationUseCase) ensureProducts(ctx context.Context, lines []entity.OperationLine) error {
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		p, err := uc.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s inexistente", domain.ErrInvalidInput, l.ProductID)
		}
	}
	return nil
}

// lockOperation GetForUpdate con ErrNotFound si no existe.
func lockOperation(ctx context.Context, ops repository.OperationRepository, id string) (*entity.Operation, error) {
	op, err := ops.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	return op, nil
}

// terminalError error de transición para estados finales; nil si la operación sigue abierta.
func terminalError(s entity.OperationStatus) error {
	switch s {
	case entity.StatusDone:
		return domain.ErrAlreadyValidated
	case entity.StatusCancelled:
		return domain.ErrCancelled
	}
	return nil
}

func newLines(operationID string, in []dto.OperationLineRequest, startPos int) []entity.OperationLine {
	lines := make([]entity.OperationLine, 0, len(in))
	for i, l := range in {
		lines = append(lines, entity.OperationLine{
			ID:          uuid.New().String(),
			OperationID: operationID,
			Position:    startPos + i + 1,
			ProductID:   l.ProductID,
			DemandQty:   l.DemandQty,
		})
	}
	return lines
}

func maxPosition(lines []entity.OperationLine) int {
	max := 0
	for _, l := range lines {
		if l.Position > max {
			max = l.Position
		}
	}
	return max
}

func normalizeID(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
