package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType tipo de documento de inventario.
type OperationType string

const (
	OperationReceipt    OperationType = "receipt"    // entrada desde proveedor
	OperationDelivery   OperationType = "delivery"   // salida a cliente
	OperationInternal   OperationType = "internal"   // traslado entre ubicaciones
	OperationAdjustment OperationType = "adjustment" // ajuste de inventario en una sola ubicación
)

// Valid informa si el tipo pertenece al conjunto cerrado.
func (t OperationType) Valid() bool {
	switch t {
	case OperationReceipt, OperationDelivery, OperationInternal, OperationAdjustment:
		return true
	}
	return false
}

// OperationStatus estado del ciclo de vida: draft → waiting ⇄ ready → done; draft|waiting|ready → cancelled.
type OperationStatus string

const (
	StatusDraft     OperationStatus = "draft"
	StatusWaiting   OperationStatus = "waiting"
	StatusReady     OperationStatus = "ready"
	StatusDone      OperationStatus = "done"
	StatusCancelled OperationStatus = "cancelled"
)

// AllStatuses en orden del ciclo de vida.
var AllStatuses = []OperationStatus{StatusDraft, StatusWaiting, StatusReady, StatusDone, StatusCancelled}

// Valid informa si el estado pertenece al conjunto cerrado.
func (s OperationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusWaiting, StatusReady, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal done y cancelled no admiten más transiciones.
func (s OperationStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanEditLines solo en draft/waiting se agregan líneas.
func (s OperationStatus) CanEditLines() bool {
	return s == StatusDraft || s == StatusWaiting
}

// CanCheck el chequeo se permite en draft, waiting y ready (puede degradar ready a waiting).
func (s OperationStatus) CanCheck() bool {
	return s == StatusDraft || s == StatusWaiting || s == StatusReady
}

// CanCancel cualquier estado no terminal.
func (s OperationStatus) CanCancel() bool {
	return !s.IsTerminal()
}

// Operation documento que mueve cantidades entre ubicaciones.
// SourceLocationID es nil en recepciones y ajustes de aumento; DestLocationID es nil en entregas y ajustes de disminución.
type Operation struct {
	ID               string
	Type             OperationType
	SourceLocationID *string
	DestLocationID   *string
	PartnerID        *string
	ScheduledDate    *time.Time
	Status           OperationStatus
	Reference        string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Lines            []OperationLine
}

// OperationLine línea de producto. DoneQty nil significa "aún no fijada" (se toma DemandQty en el chequeo).
type OperationLine struct {
	ID          string
	OperationID string
	Position    int
	ProductID   string
	DemandQty   decimal.Decimal
	DoneQty     *decimal.Decimal
}

// QtyToMove cantidad que se moverá al validar: DoneQty si está fijada, si no DemandQty.
func (l OperationLine) QtyToMove() decimal.Decimal {
	if l.DoneQty != nil {
		return *l.DoneQty
	}
	return l.DemandQty
}

// Line busca una línea por ID.
func (o *Operation) Line(id string) *OperationLine {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			return &o.Lines[i]
		}
	}
	return nil
}

// Clone copia profunda (las líneas y punteros no se comparten).
func (o *Operation) Clone() *Operation {
	if o == nil {
		return nil
	}
	c := *o
	c.SourceLocationID = cloneString(o.SourceLocationID)
	c.DestLocationID = cloneString(o.DestLocationID)
	c.PartnerID = cloneString(o.PartnerID)
	if o.ScheduledDate != nil {
		t := *o.ScheduledDate
		c.ScheduledDate = &t
	}
	c.Lines = make([]OperationLine, len(o.Lines))
	for i, l := range o.Lines {
		c.Lines[i] = l
		if l.DoneQty != nil {
			d := *l.DoneQty
			c.Lines[i].DoneQty = &d
		}
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
