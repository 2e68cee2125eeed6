package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	checkoutdomain "github.com/pedidohub/pedidohub/internal/checkout/domain"
	companydomain "github.com/pedidohub/pedidohub/internal/company/domain"
	identitydomain "github.com/pedidohub/pedidohub/internal/identity/domain"
	"github.com/pedidohub/pedidohub/internal/notifier"
	subscriptiondomain "github.com/pedidohub/pedidohub/internal/subscription/domain"
	"github.com/pedidohub/pedidohub/internal/webhook/domain"
	"go.uber.org/zap"
)

// provision performs the full activation for one deduplicated event:
// resolve or create every entity, compute the validity window, apply
// the writes in order, then close the ledger row. Each write is safe
// to repeat, so a crash mid-way converges on retry.
func (s *Service) provision(ctx context.Context, log *zap.Logger, gateway string, record *domain.WebhookEvent, ev *gatewayEvent) (string, error) {
	if ev.Email == "" || ev.SubscriptionID == "" {
		if err := s.markProcessed(ctx, record.ID, domain.OutcomeSkipped); err != nil {
			return "", err
		}
		log.Warn("event skipped, missing customer email or subscription id")
		return domain.OutcomeSkipped, nil
	}

	// Token first, then the plan, then the email fallbacks with the
	// plan in hand: email+plan runs before email alone, and a tokenless
	// event resolves its plan from its own offer id rather than from
	// whatever session the email happens to match.
	checkout, err := s.findCheckoutByToken(ctx, ev)
	if err != nil {
		return "", err
	}
	plan, err := s.resolvePlan(ctx, checkout, ev)
	if err != nil {
		return "", err
	}
	if checkout == nil {
		checkout, err = s.findCheckoutByEmail(ctx, ev, plan)
		if err != nil {
			return "", err
		}
	}

	// The session's stored email wins over the payload's, so a retry
	// carrying a different customer email converges on one identity.
	email := ev.Email
	if checkout != nil && checkout.Email != "" {
		email = checkout.Email
	}

	if checkout != nil && checkout.Status.Terminal() {
		if err := s.markProcessed(ctx, record.ID, domain.OutcomeDuplicate); err != nil {
			return "", err
		}
		log.Info("checkout already completed, treating as duplicate",
			zap.String("checkout_token", checkout.Token),
		)
		return domain.OutcomeDuplicate, nil
	}

	if plan == nil {
		if err := s.markProcessed(ctx, record.ID, domain.OutcomeSkipped); err != nil {
			return "", err
		}
		log.Warn("event skipped, no plan could be resolved", zap.String("offer_id", ev.OfferID))
		return domain.OutcomeSkipped, nil
	}

	fullName := firstNonEmpty(deref(checkoutFullName(checkout)), ev.CustomerName)
	user, tempPassword, newAccount, err := s.resolveUser(ctx, email, fullName)
	if err != nil {
		return "", err
	}

	company, companyCreated, source, err := s.resolveCompany(ctx, gateway, checkout, ev, user, email)
	if err != nil {
		return "", err
	}
	log.Info("entities resolved",
		zap.Int64("user_id", int64(user.ID)),
		zap.Int64("company_id", int64(company.ID)),
		zap.String("company_source", source),
		zap.Bool("new_account", newAccount),
		zap.Bool("company_created", companyCreated),
	)

	now := s.clk.Now().UTC()

	// Invariants computed once, before any write mutates the state they
	// are derived from.
	priorWindowActive := company.CurrentPeriodEndsAt != nil && company.CurrentPeriodEndsAt.After(now)
	paidCount, err := s.subs.CountPaidByCompany(ctx, s.db, company.ID)
	if err != nil {
		return "", err
	}
	hadPaidSubscription := paidCount > 0

	periodStart, periodEnd := resolvePeriod(now, periodInput{
		companyCreated:    companyCreated,
		priorWindowActive: priorWindowActive,
		trialEndsAt:       company.TrialEndsAt,
		periodEndsAt:      company.CurrentPeriodEndsAt,
		planPeriodDays:    plan.PeriodDays,
		eventPeriodStart:  ev.PeriodStart,
		intervalType:      ev.IntervalType,
		intervalCount:     ev.IntervalCount,
	})

	metadata := identitydomain.Metadata{CompanyID: &company.ID}
	if newAccount {
		mustChange := true
		metadata.MustChangePassword = &mustChange
	}
	if !company.OnboardingCompleted {
		mustComplete := true
		metadata.MustCompleteCompany = &mustComplete
	}
	if err := s.identity.UpdateMetadata(ctx, user.ID, metadata); err != nil {
		return "", err
	}

	role := companydomain.RoleMember
	if company.OwnerUserID == nil || *company.OwnerUserID == user.ID {
		role = companydomain.RoleOwner
	}
	if err := s.roles.Grant(ctx, user.ID, role); err != nil {
		return "", err
	}
	if err := s.companies.AddMember(ctx, s.db, &companydomain.Member{
		ID:        s.genID.Generate(),
		CompanyID: company.ID,
		UserID:    user.ID,
		Role:      role,
		CreatedAt: now,
	}); err != nil {
		return "", err
	}

	if err := s.upsertSubscription(ctx, gateway, ev, email, user.ID, company.ID, plan.ID, periodStart, periodEnd, now); err != nil {
		return "", err
	}

	update := companydomain.BillingUpdate{
		PlanID:             plan.ID,
		SubscriptionStatus: companydomain.SubscriptionStatusActive,
		PeriodEndsAt:       periodEnd,
		Email:              email,
		Phone:              ev.CustomerPhone,
	}
	if companyCreated || !priorWindowActive {
		update.PeriodStartsAt = &periodStart
	}
	if err := s.companies.UpdateBilling(ctx, s.db, company.ID, update); err != nil {
		return "", err
	}

	// The access email goes out once, on the first true activation.
	// Consumed checkouts were already short-circuited above.
	if !hadPaidSubscription {
		sent := s.notifier.SendAccess(ctx, notifier.AccessEmail{
			To:           email,
			FullName:     fullName,
			CompanyName:  company.Name,
			PlanName:     plan.Name,
			TempPassword: tempPassword,
			NewAccount:   newAccount,
		})
		log.Info("access email attempted", zap.Bool("sent", sent))
	}

	if checkout != nil {
		if err := s.checkouts.Complete(ctx, s.db, checkout.ID, user.ID, company.ID, now); err != nil {
			return "", err
		}
	}

	if err := s.markProcessed(ctx, record.ID, domain.OutcomeActivated); err != nil {
		return "", err
	}
	log.Info("subscription activated",
		zap.Int64("plan_id", int64(plan.ID)),
		zap.Time("period_start", periodStart),
		zap.Time("period_end", periodEnd),
	)
	return domain.OutcomeActivated, nil
}

// upsertSubscription keeps one current row per company: matched by the
// gateway's subscription id first, then by the company's active row,
// inserting only when neither exists.
func (s *Service) upsertSubscription(
	ctx context.Context,
	gateway string,
	ev *gatewayEvent,
	email string,
	userID, companyID, planID snowflake.ID,
	periodStart, periodEnd, now time.Time,
) error {
	existing, err := s.subs.FindByGatewayID(ctx, s.db, gateway, ev.SubscriptionID)
	if err != nil {
		return err
	}
	if existing == nil {
		existing, err = s.subs.FindActiveByCompany(ctx, s.db, companyID)
		if err != nil {
			return err
		}
	}

	if existing != nil {
		existing.UserID = userID
		existing.CompanyID = companyID
		existing.PlanID = planID
		existing.Status = subscriptiondomain.StatusActive
		existing.Gateway = gateway
		existing.GatewaySubscriptionID = ev.SubscriptionID
		existing.CurrentPeriodStartsAt = &periodStart
		existing.CurrentPeriodEndsAt = &periodEnd
		existing.CustomerName = firstNonEmpty(ev.CustomerName, existing.CustomerName)
		existing.CustomerEmail = email
		existing.CustomerPhone = firstNonEmpty(ev.CustomerPhone, existing.CustomerPhone)
		existing.CustomerDocument = firstNonEmpty(ev.CustomerDocument, existing.CustomerDocument)
		existing.UpdatedAt = now
		return s.subs.Update(ctx, s.db, existing)
	}

	return s.subs.Insert(ctx, s.db, &subscriptiondomain.Subscription{
		ID:                    s.genID.Generate(),
		UserID:                userID,
		CompanyID:             companyID,
		PlanID:                planID,
		Status:                subscriptiondomain.StatusActive,
		Gateway:               gateway,
		GatewaySubscriptionID: ev.SubscriptionID,
		CurrentPeriodStartsAt: &periodStart,
		CurrentPeriodEndsAt:   &periodEnd,
		CustomerName:          ev.CustomerName,
		CustomerEmail:         email,
		CustomerPhone:         ev.CustomerPhone,
		CustomerDocument:      ev.CustomerDocument,
		CreatedAt:             now,
		UpdatedAt:             now,
	})
}

func checkoutFullName(checkout *checkoutdomain.CheckoutSession) *string {
	if checkout == nil {
		return nil
	}
	return checkout.FullName
}
