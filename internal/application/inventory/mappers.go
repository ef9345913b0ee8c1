package inventory

import (
	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

func toOperationResponse(op *entity.Operation) *dto.OperationResponse {
	if op == nil {
		return nil
	}
	out := &dto.OperationResponse{
		ID:               op.ID,
		OperationType:    string(op.Type),
		Reference:        op.Reference,
		Status:           string(op.Status),
		SourceLocationID: op.SourceLocationID,
		DestLocationID:   op.DestLocationID,
		PartnerID:        op.PartnerID,
		ScheduledDate:    op.ScheduledDate,
		CreatedBy:        op.CreatedBy,
		CreatedAt:        op.CreatedAt,
		UpdatedAt:        op.UpdatedAt,
		Lines:            make([]dto.OperationLineResponse, 0, len(op.Lines)),
	}
	for _, l := range op.Lines {
		out.Lines = append(out.Lines, dto.OperationLineResponse{
			ID:        l.ID,
			Position:  l.Position,
			ProductID: l.ProductID,
			DemandQty: l.DemandQty,
			DoneQty:   l.DoneQty,
		})
	}
	return out
}

func toMoveResponse(m *entity.Move) dto.MoveResponse {
	return dto.MoveResponse{
		ID:               m.ID,
		OperationID:      m.OperationID,
		Reference:        m.Reference,
		Sequence:         m.Sequence,
		ProductID:        m.ProductID,
		SourceLocationID: m.SourceLocationID,
		DestLocationID:   m.DestLocationID,
		Quantity:         m.Quantity,
		CommittedAt:      m.CommittedAt,
		CommittedBy:      m.CommittedBy,
	}
}

func toMoveResponses(moves []*entity.Move) []dto.MoveResponse {
	out := make([]dto.MoveResponse, 0, len(moves))
	for _, m := range moves {
		out = append(out, toMoveResponse(m))
	}
	return out
}

func toQuantResponse(q entity.Quant) dto.QuantResponse {
	return dto.QuantResponse{
		ProductID:  q.ProductID,
		LocationID: q.LocationID,
		OnHand:     q.OnHand,
		Reserved:   q.Reserved,
		Free:       q.Free(),
		UpdatedAt:  q.UpdatedAt,
	}
}

// ToShortfallResponses exportado para el mapeo de errores en la capa HTTP.
func ToShortfallResponses(list []domain.Shortfall) []dto.ShortfallResponse {
	out := make([]dto.ShortfallResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ShortfallResponse{ProductID: s.ProductID, Available: s.Available, Demand: s.Demand})
	}
	return out
}
