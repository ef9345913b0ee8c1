package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

// LedgerUseCase consultas de solo lectura sobre el ledger y el log de movimientos.
type LedgerUseCase struct {
	quants repository.QuantRepository
	moves  repository.MoveRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(quants repository.QuantRepository, moves repository.MoveRepository) *LedgerUseCase {
	return &LedgerUseCase{quants: quants, moves: moves}
}

// ListMoves historial plano filtrado.
func (uc *LedgerUseCase) ListMoves(ctx context.Context, in dto.MoveFilterRequest) (*dto.MoveListResponse, error) {
	filter, err := moveFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.moves.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.MoveListResponse{
		Items: toMoveResponses(list),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// History movimientos agrupados por documento.
func (uc *LedgerUseCase) History(ctx context.Context, in dto.MoveFilterRequest) (*dto.MoveHistoryResponse, error) {
	filter, err := moveFilter(in)
	if err != nil {
		return nil, err
	}
	groups, err := uc.moves.GroupByReference(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.MoveHistoryResponse{
		Items: make([]dto.MoveGroupResponse, 0, len(groups)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, g := range groups {
		out.Items = append(out.Items, dto.MoveGroupResponse{
			Reference:        g.Reference,
			OperationID:      g.OperationID,
			LineCount:        g.LineCount,
			FirstCommittedAt: g.FirstCommittedAt,
		})
	}
	return out, nil
}

// ByReference movimientos de un documento en orden de commit.
func (uc *LedgerUseCase) ByReference(ctx context.Context, reference string) ([]dto.MoveResponse, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: reference vacía", domain.ErrInvalidInput)
	}
	list, err := uc.moves.ListByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return toMoveResponses(list), nil
}

// ListQuants snapshot del ledger.
func (uc *LedgerUseCase) ListQuants(ctx context.Context, in dto.QuantFilterRequest) (*dto.QuantListResponse, error) {
	in.DefaultPage()
	list, err := uc.quants.List(ctx, repository.QuantFilter{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.QuantListResponse{
		Items: make([]dto.QuantResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, q := range list {
		out.Items = append(out.Items, toQuantResponse(q))
	}
	return out, nil
}

// Reconcile suma el efecto neto de los movimientos sobre (producto, ubicación) y lo compara con on_hand.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, productID, locationID string) (*dto.ReconcileResponse, error) {
	if productID == "" || locationID == "" {
		return nil, fmt.Errorf("%w: product_id y location_id son obligatorios", domain.ErrInvalidInput)
	}
	list, err := uc.moves.ListByProductLocation(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	q, err := uc.quants.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	net := decimal.Zero
	for _, m := range list {
		net = net.Add(m.NetFor(locationID))
	}
	return &dto.ReconcileResponse{
		ProductID:  productID,
		LocationID: locationID,
		OnHand:     q.OnHand,
		MovesNet:   net,
		MoveCount:  len(list),
		Consistent: net.Equal(q.OnHand),
	}, nil
}

func moveFilter(in dto.MoveFilterRequest) (repository.MoveFilter, error) {
	in.DefaultPage()
	f := repository.MoveFilter{
		ProductID:     in.ProductID,
		LocationID:    in.LocationID,
		Reference:     in.Reference,
		OperationType: entity.OperationType(in.OperationType),
		From:          in.From,
		To:            in.To,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if f.OperationType != "" && !f.OperationType.Valid() {
		return f, fmt.Errorf("%w: document_type %q", domain.ErrInvalidInput, in.OperationType)
	}
	return f, nil
}
