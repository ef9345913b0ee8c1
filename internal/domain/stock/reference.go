package stock

import (
	"fmt"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// FormatReference referencia legible "<tipo>/NNNN", ej: "receipt/0001".
func FormatReference(t entity.OperationType, seq int64) string {
	return fmt.Sprintf("%s/%04d", t, seq)
}
