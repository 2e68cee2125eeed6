package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	checkoutdomain "github.com/pedidohub/pedidohub/internal/checkout/domain"
	"github.com/pedidohub/pedidohub/internal/clock"
	companydomain "github.com/pedidohub/pedidohub/internal/company/domain"
	"github.com/pedidohub/pedidohub/internal/gateway/cakto"
	identitydomain "github.com/pedidohub/pedidohub/internal/identity/domain"
	"github.com/pedidohub/pedidohub/internal/metrics"
	"github.com/pedidohub/pedidohub/internal/notifier"
	plandomain "github.com/pedidohub/pedidohub/internal/plan/domain"
	subscriptiondomain "github.com/pedidohub/pedidohub/internal/subscription/domain"
	"github.com/pedidohub/pedidohub/internal/webhook/classifier"
	"github.com/pedidohub/pedidohub/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          domain.Repository
	Plans         plandomain.Repository
	Checkouts     checkoutdomain.Repository
	Companies     companydomain.Repository
	CompanySvc    companydomain.Service
	Subscriptions subscriptiondomain.Repository
	Identity      identitydomain.Provider
	Roles         identitydomain.RoleStore
	Offers        cakto.OfferClient `optional:"true"`
	Notifier      *notifier.Notifier
	Metrics       *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clk        clock.Clock
	repo       domain.Repository
	plans      plandomain.Repository
	checkouts  checkoutdomain.Repository
	companies  companydomain.Repository
	companySvc companydomain.Service
	subs       subscriptiondomain.Repository
	identity   identitydomain.Provider
	roles      identitydomain.RoleStore
	offers     cakto.OfferClient
	notifier   *notifier.Notifier
	metrics    *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("webhook.service"),
		genID:      p.GenID,
		clk:        p.Clock,
		repo:       p.Repo,
		plans:      p.Plans,
		checkouts:  p.Checkouts,
		companies:  p.Companies,
		companySvc: p.CompanySvc,
		subs:       p.Subscriptions,
		identity:   p.Identity,
		roles:      p.Roles,
		offers:     p.Offers,
		notifier:   p.Notifier,
		metrics:    p.Metrics,
	}
}

// Process turns one gateway delivery into durable side effects. Every
// step re-resolves entities by lookup rather than blind insert, so a
// retry after a partial failure converges instead of duplicating.
func (s *Service) Process(ctx context.Context, delivery domain.Delivery) (domain.Result, error) {
	ev, payload, err := parseEvent(delivery.Payload)
	if err != nil {
		return domain.Result{}, err
	}

	eventID := resolveEventID(payload, delivery.Headers, delivery.Payload)
	log := s.log.With(
		zap.String("gateway", delivery.Gateway),
		zap.String("event_id", eventID),
		zap.String("event_type", ev.Name),
	)

	record := &domain.WebhookEvent{
		ID:         s.genID.Generate(),
		Gateway:    delivery.Gateway,
		EventID:    eventID,
		EventType:  ev.Name,
		Payload:    datatypes.JSON(delivery.Payload),
		ReceivedAt: s.clk.Now(),
	}

	inserted, err := s.repo.InsertIfNew(ctx, s.db, record)
	if err != nil {
		return domain.Result{}, err
	}
	if !inserted {
		stored, err := s.repo.FindByEventID(ctx, s.db, delivery.Gateway, eventID)
		if err != nil {
			return domain.Result{}, err
		}
		if stored == nil {
			return domain.Result{}, domain.ErrInvalidPayload
		}
		if stored.ProcessedAt != nil {
			log.Info("duplicate delivery short-circuited")
			return s.finish(domain.Result{Outcome: domain.OutcomeDuplicate}, delivery.Gateway)
		}
		// Unprocessed row from a crashed or concurrent attempt: resume.
		record = stored
	}

	if classifier.Classify(ev.Name, ev.Status) != classifier.OutcomeActive {
		if err := s.markProcessed(ctx, record.ID, domain.OutcomeIgnored); err != nil {
			return domain.Result{}, err
		}
		log.Info("event ignored", zap.String("status", ev.Status))
		return s.finish(domain.Result{Outcome: domain.OutcomeIgnored}, delivery.Gateway)
	}

	outcome, err := s.provision(ctx, log, delivery.Gateway, record, ev)
	if err != nil {
		return domain.Result{}, err
	}
	return s.finish(domain.Result{Outcome: outcome}, delivery.Gateway)
}

func (s *Service) GetEvent(ctx context.Context, gateway, eventID string) (*domain.WebhookEvent, error) {
	return s.repo.FindByEventID(ctx, s.db, gateway, eventID)
}

func (s *Service) markProcessed(ctx context.Context, id snowflake.ID, outcome string) error {
	return s.repo.MarkProcessed(ctx, s.db, id, s.clk.Now(), outcome)
}

func (s *Service) finish(result domain.Result, gateway string) (domain.Result, error) {
	if s.metrics != nil {
		s.metrics.RecordWebhookEvent(gateway, result.Outcome)
	}
	return result, nil
}

const recentTerminalWindow = 24 * time.Hour
