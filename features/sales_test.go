package features

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"tokopos/internal/config"
	"tokopos/internal/models"
	"tokopos/internal/repositories"
	"tokopos/internal/server"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type salesTestContext struct {
	store    *repositories.MemoryStore
	app      *server.App
	products map[string]uint
	sale     *models.Sale
	err      error
}

func (c *salesTestContext) reset() error {
	cfg, err := config.FromViper(config.New())
	if err != nil {
		return err
	}
	cfg.AppEnv = "test"
	cfg.JWTSecret = "features"

	c.store = repositories.NewMemoryStore()
	c.app, err = server.New(cfg, c.store, nil, zap.NewNop())
	if err != nil {
		return err
	}
	c.products = make(map[string]uint)
	c.sale = nil
	c.err = nil
	return nil
}

func (c *salesTestContext) aProductPricedWithInStock(name string, price, stock int) error {
	p := &models.Product{
		Name:     name,
		Barcode:  fmt.Sprintf("BC-%d", len(c.products)+1),
		Price:    decimal.NewFromInt(int64(price)),
		StockQty: decimal.NewFromInt(int64(stock)),
		Category: "grocery",
		IsActive: true,
	}
	if err := c.store.Products().Create(context.Background(), p); err != nil {
		return err
	}
	c.products[name] = p.ID
	return nil
}

func (c *salesTestContext) line(name string, quantity, price string) (models.SaleLine, error) {
	id, ok := c.products[name]
	if !ok {
		return models.SaleLine{}, fmt.Errorf("unknown product %q", name)
	}
	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return models.SaleLine{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return models.SaleLine{}, err
	}
	return models.SaleLine{ProductID: id, Quantity: qty, Price: p}, nil
}

func (c *salesTestContext) sell(paid int, lines []models.SaleLine) {
	c.sale, c.err = c.app.Sales.CreateSale(context.Background(), models.CreateSaleRequest{
		SaleDate:   time.Now().UTC(),
		PaidAmount: decimal.NewFromInt(int64(paid)),
		Lines:      lines,
	})
}

func (c *salesTestContext) iSellOfAtWithPaid(quantity int, name string, price, paid int) error {
	l, err := c.line(name, fmt.Sprint(quantity), fmt.Sprint(price))
	if err != nil {
		return err
	}
	c.sell(paid, []models.SaleLine{l})
	return nil
}

func (c *salesTestContext) iSellTheseLinesWithPaid(paid int, table *godog.Table) error {
	var lines []models.SaleLine
	for _, row := range table.Rows[1:] {
		l, err := c.line(row.Cells[0].Value, row.Cells[1].Value, row.Cells[2].Value)
		if err != nil {
			return err
		}
		lines = append(lines, l)
	}
	c.sell(paid, lines)
	return nil
}

func (c *salesTestContext) theSaleIsRecorded() error {
	if c.err != nil {
		return fmt.Errorf("expected sale but got error: %v", c.err)
	}
	if c.sale == nil || c.sale.ID == 0 {
		return errors.New("expected a stored sale")
	}
	return nil
}

func (c *salesTestContext) theSaleTotalIs(total string) error {
	return c.expectAmount("total", total, func(s *models.Sale) decimal.Decimal { return s.TotalAmount })
}

func (c *salesTestContext) theAmountDueIs(due string) error {
	return c.expectAmount("due", due, func(s *models.Sale) decimal.Decimal { return s.DueAmount })
}

func (c *salesTestContext) expectAmount(field, want string, get func(*models.Sale) decimal.Decimal) error {
	if c.sale == nil {
		return errors.New("no sale recorded")
	}
	expected, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if got := get(c.sale); !got.Equal(expected) {
		return fmt.Errorf("expected %s %s, got %s", field, expected, got)
	}
	return nil
}

func (c *salesTestContext) theSaleFailsWith(substring string) error {
	if c.err == nil {
		return errors.New("expected sale to fail but it succeeded")
	}
	if !strings.Contains(strings.ToLower(c.err.Error()), strings.ToLower(substring)) {
		return fmt.Errorf("expected error message to contain %q, got %q", substring, c.err.Error())
	}
	return nil
}

func (c *salesTestContext) productHasInStock(name string, stock string) error {
	id, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	p, err := c.store.Products().GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	expected, err := decimal.NewFromString(stock)
	if err != nil {
		return err
	}
	if !p.StockQty.Equal(expected) {
		return fmt.Errorf("expected %s in stock for %q, got %s", expected, name, p.StockQty)
	}
	return nil
}

func (c *salesTestContext) salesAreRecorded(count int) error {
	_, total, err := c.store.Sales().List(context.Background(), repositories.SaleQuery{})
	if err != nil {
		return err
	}
	if total != int64(count) {
		return fmt.Errorf("expected %d sales, got %d", count, total)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &salesTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	// Given steps
	ctx.Step(`^a product "([^"]*)" priced (\d+) with (\d+) in stock$`, tc.aProductPricedWithInStock)

	// When steps
	ctx.Step(`^I sell (\d+) of "([^"]*)" at (\d+) with (\d+) paid$`, tc.iSellOfAtWithPaid)
	ctx.Step(`^I sell these lines with (\d+) paid:$`, tc.iSellTheseLinesWithPaid)

	// Then steps
	ctx.Step(`^the sale is recorded$`, tc.theSaleIsRecorded)
	ctx.Step(`^the sale total is ([\d.]+)$`, tc.theSaleTotalIs)
	ctx.Step(`^the amount due is ([\d.]+)$`, tc.theAmountDueIs)
	ctx.Step(`^the sale fails with "([^"]*)"$`, tc.theSaleFailsWith)
	ctx.Step(`^"([^"]*)" has ([\d.]+) in stock$`, tc.productHasInStock)
	ctx.Step(`^(\d+) sales are recorded$`, tc.salesAreRecorded)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"sales.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
