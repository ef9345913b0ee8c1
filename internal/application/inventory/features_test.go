package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
	"github.com/jhoicas/Stockmaster-api/internal/infrastructure/memory"
)

// stockFeature estado de un escenario; se reinicia en cada Before.
type stockFeature struct {
	ctx     context.Context
	store   *memory.Store
	uc      *inventory.OperationUseCase
	ledger  *inventory.LedgerUseCase
	current *dto.OperationResponse
	check   *dto.CheckResponse
	result  *dto.ValidateResponse
	lastErr error
}

func (s *stockFeature) reset() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.uc = inventory.NewOperationUseCase(inventory.OperationDeps{
		TxRunner:     memory.NewTxRunner(s.store),
		Operations:   s.store.Operations(),
		Products:     s.store.Products(),
		Locations:    s.store.Locations(),
		OverDelivery: stock.OverDeliveryAllow,
	})
	s.ledger = inventory.NewLedgerUseCase(s.store.Quants(), s.store.Moves())
	s.current, s.check, s.result, s.lastErr = nil, nil, nil, nil
}

func (s *stockFeature) theLocations(a, b string) error {
	now := time.Now()
	for _, id := range []string{a, b} {
		if err := s.store.Locations().Create(s.ctx, &entity.Location{ID: id, Name: id, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
	}
	return nil
}

func (s *stockFeature) theProducts(a, b string) error {
	now := time.Now()
	for _, id := range []string{a, b} {
		if err := s.store.Products().Create(s.ctx, &entity.Product{ID: id, SKU: id, Name: id, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
	}
	return nil
}

func (s *stockFeature) create(opType entity.OperationType, src, dst *string, qty int, productID string) error {
	op, err := s.uc.Create(s.ctx, testUser, dto.CreateOperationRequest{
		OperationType:    string(opType),
		SourceLocationID: src,
		DestLocationID:   dst,
		Lines:            []dto.OperationLineRequest{{ProductID: productID, DemandQty: decimal.NewFromInt(int64(qty))}},
	})
	if err != nil {
		return err
	}
	s.current = op
	return nil
}

func (s *stockFeature) received(qty int, productID, location string) error {
	if err := s.create(entity.OperationReceipt, nil, &location, qty, productID); err != nil {
		return err
	}
	if err := s.iCheck(); err != nil {
		return err
	}
	if err := s.iValidate(); err != nil {
		return err
	}
	return s.lastErr
}

func (s *stockFeature) createReceipt(location string, qty int, productID string) error {
	return s.create(entity.OperationReceipt, nil, &location, qty, productID)
}

func (s *stockFeature) createDelivery(location string, qty int, productID string) error {
	return s.create(entity.OperationDelivery, &location, nil, qty, productID)
}

func (s *stockFeature) createInternal(src, dst string, qty int, productID string) error {
	return s.create(entity.OperationInternal, &src, &dst, qty, productID)
}

func (s *stockFeature) iCheck() error {
	res, err := s.uc.Check(s.ctx, s.current.ID)
	if err != nil {
		return err
	}
	s.check = res
	return nil
}

// iValidate guarda el error para que un paso posterior lo evalúe.
func (s *stockFeature) iValidate() error {
	s.result, s.lastErr = s.uc.Validate(s.ctx, s.current.ID, testUser)
	return nil
}

func (s *stockFeature) iCancel() error {
	_, err := s.uc.Cancel(s.ctx, s.current.ID)
	return err
}

func (s *stockFeature) referenceIs(ref string) error {
	if s.current.Reference != ref {
		return fmt.Errorf("referencia %q, se esperaba %q", s.current.Reference, ref)
	}
	return nil
}

func (s *stockFeature) statusIs(status string) error {
	op, err := s.uc.Get(s.ctx, s.current.ID)
	if err != nil {
		return err
	}
	if op.Status != status {
		return fmt.Errorf("estado %q, se esperaba %q", op.Status, status)
	}
	return nil
}

func (s *stockFeature) checkMessageIs(msg string) error {
	if s.check == nil || s.check.Message != msg {
		return fmt.Errorf("mensaje de chequeo %+v, se esperaba %q", s.check, msg)
	}
	return nil
}

func (s *stockFeature) validationMessageIs(msg string) error {
	if s.lastErr != nil {
		return s.lastErr
	}
	if s.result.Message != msg {
		return fmt.Errorf("mensaje %q, se esperaba %q", s.result.Message, msg)
	}
	return nil
}

func (s *stockFeature) validationFailsWith(kind string) error {
	want := map[string]error{
		"not ready":          domain.ErrNotReady,
		"cancelled":          domain.ErrCancelled,
		"already validated":  domain.ErrAlreadyValidated,
		"insufficient stock": domain.ErrInsufficientStock,
	}[kind]
	if want == nil {
		return fmt.Errorf("tipo de error desconocido %q", kind)
	}
	if !errors.Is(s.lastErr, want) {
		return fmt.Errorf("error %v, se esperaba %v", s.lastErr, want)
	}
	return nil
}

func (s *stockFeature) onHandIs(productID, location string, qty int) error {
	q, err := s.store.Quants().Get(s.ctx, productID, location)
	if err != nil {
		return err
	}
	if !q.OnHand.Equal(decimal.NewFromInt(int64(qty))) {
		return fmt.Errorf("on_hand %s, se esperaba %d", q.OnHand, qty)
	}
	return nil
}

func (s *stockFeature) movesReconcile(productID, location string) error {
	rec, err := s.ledger.Reconcile(s.ctx, productID, location)
	if err != nil {
		return err
	}
	if !rec.Consistent {
		return fmt.Errorf("movimientos %s != on_hand %s", rec.MovesNet, rec.OnHand)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	s := &stockFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		s.reset()
		return ctx, nil
	})

	ctx.Step(`^the locations "([^"]*)" and "([^"]*)"$`, s.theLocations)
	ctx.Step(`^the products "([^"]*)" and "([^"]*)"$`, s.theProducts)
	ctx.Step(`^(\d+) of "([^"]*)" received into "([^"]*)"$`, s.received)
	ctx.Step(`^I create a receipt into "([^"]*)" with (\d+) of "([^"]*)"$`, s.createReceipt)
	ctx.Step(`^I create a delivery from "([^"]*)" with (\d+) of "([^"]*)"$`, s.createDelivery)
	ctx.Step(`^I create an internal transfer from "([^"]*)" to "([^"]*)" with (\d+) of "([^"]*)"$`, s.createInternal)
	ctx.Step(`^I check the operation$`, s.iCheck)
	ctx.Step(`^I validate the operation$`, s.iValidate)
	ctx.Step(`^I cancel the operation$`, s.iCancel)
	ctx.Step(`^the operation reference is "([^"]*)"$`, s.referenceIs)
	ctx.Step(`^the operation status is "([^"]*)"$`, s.statusIs)
	ctx.Step(`^the check message is "([^"]*)"$`, s.checkMessageIs)
	ctx.Step(`^the validation message is "([^"]*)"$`, s.validationMessageIs)
	ctx.Step(`^the validation fails with "([^"]*)"$`, s.validationFailsWith)
	ctx.Step(`^on hand of "([^"]*)" at "([^"]*)" is (\d+)$`, s.onHandIs)
	ctx.Step(`^the moves of "([^"]*)" at "([^"]*)" reconcile with on hand$`, s.movesReconcile)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
