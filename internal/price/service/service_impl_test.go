package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/cloudbill/internal/clock"
	pricedomain "github.com/smallbiznis/cloudbill/internal/price/domain"
	pricerepository "github.com/smallbiznis/cloudbill/internal/price/repository"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) pricedomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&pricedomain.Price{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(testNow),
		Repo:  pricerepository.Provide(),
	})
}

func TestCreateAndGetByID(t *testing.T) {
	svc := newService(t)

	created, err := svc.Create(context.Background(), pricedomain.CreateRequest{
		ResourceType: "volume",
		Name:         "standard block storage",
		UnitPrice:    "0.04",
	})
	require.NoError(t, err)
	assert.Zero(t, created.UnitPrice.Cmp(decimal.MustNew("0.04")))
	assert.True(t, created.EffectiveFrom.Equal(testNow))

	found, err := svc.GetByID(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "volume", found.ResourceType)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), pricedomain.CreateRequest{
		ResourceType: "  ",
		UnitPrice:    "1",
	})
	assert.ErrorIs(t, err, pricedomain.ErrInvalidResourceType)

	_, err = svc.Create(context.Background(), pricedomain.CreateRequest{
		ResourceType: "volume",
		UnitPrice:    "free",
	})
	assert.ErrorIs(t, err, pricedomain.ErrInvalidUnitPrice)

	_, err = svc.Create(context.Background(), pricedomain.CreateRequest{
		ResourceType: "volume",
		UnitPrice:    "-0.5",
	})
	assert.ErrorIs(t, err, pricedomain.ErrInvalidUnitPrice)
}

func TestGetByIDErrors(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetByID(context.Background(), "not-a-snowflake")
	assert.ErrorIs(t, err, pricedomain.ErrInvalidPriceID)

	_, err = svc.GetByID(context.Background(), "1234567890123456789")
	assert.ErrorIs(t, err, pricedomain.ErrPriceNotFound)
}

func TestGetUnitPricePicksLatestEffective(t *testing.T) {
	svc := newService(t)

	oldFrom := testNow.AddDate(0, -6, 0)
	newFrom := testNow.AddDate(0, -1, 0)

	_, err := svc.Create(context.Background(), pricedomain.CreateRequest{
		ResourceType:  "router",
		UnitPrice:     "1",
		EffectiveFrom: &oldFrom,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), pricedomain.CreateRequest{
		ResourceType:  "router",
		UnitPrice:     "2",
		EffectiveFrom: &newFrom,
	})
	require.NoError(t, err)

	// Between the two effective dates the old price applies.
	price, err := svc.GetUnitPrice(context.Background(), "router", testNow.AddDate(0, -3, 0))
	require.NoError(t, err)
	assert.Zero(t, price.Cmp(decimal.MustNew("1")))

	// After the second effective date the new price wins.
	price, err = svc.GetUnitPrice(context.Background(), "router", testNow)
	require.NoError(t, err)
	assert.Zero(t, price.Cmp(decimal.MustNew("2")))

	// Before any effective date there is no price.
	_, err = svc.GetUnitPrice(context.Background(), "router", testNow.AddDate(-1, 0, 0))
	assert.ErrorIs(t, err, pricedomain.ErrPriceNotFound)

	_, err = svc.GetUnitPrice(context.Background(), "volume", testNow)
	assert.ErrorIs(t, err, pricedomain.ErrPriceNotFound)
}

func TestList(t *testing.T) {
	svc := newService(t)

	for _, rt := range []string{"volume", "router"} {
		_, err := svc.Create(context.Background(), pricedomain.CreateRequest{
			ResourceType: rt,
			UnitPrice:    "1",
		})
		require.NoError(t, err)
	}

	prices, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, prices, 2)
}
