package sanction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/database"
	"github.com/sanctionwatch/app-server/internal/metrics"
	"github.com/sanctionwatch/app-server/internal/models"
	"github.com/sanctionwatch/app-server/internal/services/platform"
)

// Screener classifies a customer against the sanctions lists
type Screener interface {
	Check(ctx context.Context, customer models.Customer) (*models.ScreeningResult, error)
}

// ShopAPI is the part of the shop Admin API the flow uses
type ShopAPI interface {
	Notify(ctx context.Context, status, message string) error
	SearchOrders(ctx context.Context, ids []string) ([]models.Order, error)
}

// ShopAPIFactory returns an Admin API client for a shop
type ShopAPIFactory interface {
	ForShop(shop *models.Shop) (ShopAPI, error)
}

// PlatformFactory adapts *platform.ClientFactory to ShopAPIFactory
type PlatformFactory struct {
	*platform.ClientFactory
}

func (f PlatformFactory) ForShop(shop *models.Shop) (ShopAPI, error) {
	client, err := f.ClientFactory.ForShop(shop)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Service screens order customers and records sanction hits
type Service struct {
	screener Screener
	shops    ShopAPIFactory
	reports  database.ReportStore
	metrics  *metrics.Metrics
	log      *logrus.Logger
	now      func() time.Time
}

// NewService wires the flow. m may be nil.
func NewService(screener Screener, shops ShopAPIFactory, reports database.ReportStore, m *metrics.Metrics, log *logrus.Logger) *Service {
	return &Service{
		screener: screener,
		shops:    shops,
		reports:  reports,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// WarningMessage is the notification text shown to the shop for a hit.
func WarningMessage(customer models.Customer, orderNumber string) string {
	return fmt.Sprintf("The customer %s %s associated with this order %s appears on a sanctions list.",
		customer.FirstName, customer.LastName, orderNumber)
}

// OnOrderPlaced screens the customer of a freshly placed order and returns
// the order exactly as it was received.
func (s *Service) OnOrderPlaced(ctx context.Context, shop *models.Shop, evt *models.OrderPlacedEvent) (json.RawMessage, error) {
	result, err := s.screen(ctx, &evt.Order)
	if err != nil {
		return nil, err
	}

	if result.Hit {
		api, err := s.shops.ForShop(shop)
		if err != nil {
			return nil, err
		}
		if err := s.flag(ctx, api, evt.Source.ShopID, &evt.Order); err != nil {
			return nil, err
		}
	}

	return evt.RawOrder(), nil
}

// OnCheckSanctionRequest looks up the first requested order, screens its
// customer and returns the raw screening result.
func (s *Service) OnCheckSanctionRequest(ctx context.Context, shop *models.Shop, evt *models.CheckSanctionEvent) (json.RawMessage, error) {
	api, err := s.shops.ForShop(shop)
	if err != nil {
		return nil, err
	}

	orders, err := api.SearchOrders(ctx, evt.Data.IDs)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("no order found for ids %v", evt.Data.IDs))
	}

	order := orders[0]
	if err := models.ValidateOrder(&order); err != nil {
		return nil, err
	}

	result, err := s.screen(ctx, &order)
	if err != nil {
		return nil, err
	}

	if result.Hit {
		if err := s.flag(ctx, api, evt.Source.ShopID, &order); err != nil {
			return nil, err
		}
	}

	return result.Raw, nil
}

func (s *Service) screen(ctx context.Context, order *models.Order) (*models.ScreeningResult, error) {
	start := time.Now()
	result, err := s.screener.Check(ctx, *order.OrderCustomer)
	if err != nil {
		s.metrics.ObserveScreening(start, metrics.OutcomeError)
		return nil, err
	}

	outcome := metrics.OutcomeClear
	if result.Hit {
		outcome = metrics.OutcomeHit
	}
	s.metrics.ObserveScreening(start, outcome)

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"hit":          result.Hit,
	}).Info("Screened order customer")

	return result, nil
}

// flag warns the shop and records the hit, in that order. The two steps are
// not atomic: a failed insert leaves a sent notification without a row.
func (s *Service) flag(ctx context.Context, api ShopAPI, shopID string, order *models.Order) error {
	customer := *order.OrderCustomer
	fields := logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"shop_id":      shopID,
	}

	if err := api.Notify(ctx, platform.StatusWarning, WarningMessage(customer, order.OrderNumber)); err != nil {
		s.log.WithFields(fields).WithError(err).Error("Failed to send sanction warning")
		return err
	}
	s.metrics.IncrementNotificationsSent()

	report := &models.SanctionReport{
		OrderID:      order.ID,
		ShopID:       shopID,
		CustomerName: customer.FullName(),
		CreatedAt:    s.now(),
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		s.log.WithFields(fields).WithError(err).Error("Sanction warning sent but report was not recorded")
		return apperrors.Storage("failed to record sanction report", err)
	}
	s.metrics.IncrementReportsRecorded()

	s.log.WithFields(fields).Warn("Sanctions hit recorded")
	return nil
}
