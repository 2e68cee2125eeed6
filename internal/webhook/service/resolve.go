package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	checkoutdomain "github.com/pedidohub/pedidohub/internal/checkout/domain"
	companydomain "github.com/pedidohub/pedidohub/internal/company/domain"
	identitydomain "github.com/pedidohub/pedidohub/internal/identity/domain"
	"github.com/pedidohub/pedidohub/internal/identity/local"
	plandomain "github.com/pedidohub/pedidohub/internal/plan/domain"
	"github.com/pedidohub/pedidohub/pkg/db"
	"go.uber.org/zap"
)

// Offer ids sometimes arrive as the bare id and are sometimes stored as
// the conventional checkout URL form.
const checkoutURLPrefix = "https://pay.cakto.com.br/"

// resolvePlan finds the plan for this event: the checkout's bound plan,
// then a lookup by external offer id (bare and URL form), then lazy
// creation from the event's embedded offer metadata.
func (s *Service) resolvePlan(ctx context.Context, checkout *checkoutdomain.CheckoutSession, ev *gatewayEvent) (*plandomain.Plan, error) {
	if checkout != nil && checkout.PlanID != nil {
		plan, err := s.plans.FindByID(ctx, s.db, *checkout.PlanID)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			return plan, nil
		}
	}

	offerID := strings.TrimSpace(ev.OfferID)
	if offerID == "" {
		return nil, nil
	}

	for _, candidate := range []string{offerID, checkoutURLPrefix + offerID} {
		plan, err := s.plans.FindByCaktoID(ctx, s.db, candidate)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			return plan, nil
		}
	}

	return s.createPlan(ctx, offerID, ev)
}

func (s *Service) createPlan(ctx context.Context, offerID string, ev *gatewayEvent) (*plandomain.Plan, error) {
	name := ev.OfferName
	price := ev.OfferPrice
	intervalType := ev.IntervalType
	intervalCount := ev.IntervalCount

	if name == "" && s.offers != nil {
		offer, err := s.offers.Offer(ctx, offerID)
		if err != nil {
			s.log.Warn("offer lookup failed", zap.String("offer_id", offerID), zap.Error(err))
		} else if offer != nil {
			name = offer.Name
			price = int64(offer.Price)
			intervalType = offer.IntervalType
			intervalCount = offer.Interval
		}
	}
	if name == "" {
		name = offerID
	}

	billingPeriod := plandomain.BillingPeriodMonthly
	if strings.Contains(strings.ToLower(intervalType), "year") {
		billingPeriod = plandomain.BillingPeriodYearly
	}

	plan := &plandomain.Plan{
		ID:            s.genID.Generate(),
		CaktoPlanID:   offerID,
		Name:          name,
		Price:         price,
		BillingPeriod: billingPeriod,
		PeriodDays:    inferPeriodDays(intervalType, intervalCount),
		CreatedAt:     s.clk.Now(),
	}
	if err := s.plans.Insert(ctx, s.db, plan); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// A concurrent delivery materialized the plan first.
			return s.plans.FindByCaktoID(ctx, s.db, offerID)
		}
		return nil, err
	}
	s.log.Info("plan materialized from offer",
		zap.String("offer_id", offerID),
		zap.String("billing_period", string(billingPeriod)),
	)
	return plan, nil
}

// findCheckoutByToken resolves an explicitly referenced session. The
// email fallbacks run separately once the plan is known, so a tokenless
// event never adopts a session bound to a different plan.
func (s *Service) findCheckoutByToken(ctx context.Context, ev *gatewayEvent) (*checkoutdomain.CheckoutSession, error) {
	token := strings.TrimSpace(ev.CheckoutToken)
	if token == "" {
		return nil, nil
	}
	return s.checkouts.FindByToken(ctx, s.db, token)
}

// findCheckoutByEmail applies the remaining fallback chain: the most
// recent open session for email+plan, then the most recent session for
// the email alone (including sessions that became terminal very
// recently, so the duplicate-completion guard can fire).
func (s *Service) findCheckoutByEmail(ctx context.Context, ev *gatewayEvent, plan *plandomain.Plan) (*checkoutdomain.CheckoutSession, error) {
	if ev.Email == "" {
		return nil, nil
	}

	if plan != nil {
		session, err := s.checkouts.FindLatestOpenByEmailAndPlan(ctx, s.db, ev.Email, plan.ID)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
	}

	return s.checkouts.FindLatestByEmail(ctx, s.db, ev.Email, s.clk.Now().Add(-recentTerminalWindow))
}

// resolveUser looks the identity up by email or creates it with a
// generated temporary password. Returns the user, the plaintext temp
// password when one was generated, and whether the account is new.
func (s *Service) resolveUser(ctx context.Context, email, fullName string) (*identitydomain.User, string, bool, error) {
	user, err := s.identity.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", false, err
	}
	if user != nil {
		return user, "", false, nil
	}

	tempPassword, err := local.GenerateTempPassword()
	if err != nil {
		return nil, "", false, err
	}

	user, err = s.identity.CreateUser(ctx, identitydomain.CreateUserRequest{
		Email:    email,
		FullName: fullName,
		Password: tempPassword,
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Lost the race against a concurrent delivery; adopt its user.
			user, err = s.identity.FindByEmail(ctx, email)
			if err != nil {
				return nil, "", false, err
			}
			if user != nil {
				return user, "", false, nil
			}
		}
		return nil, "", false, err
	}
	return user, tempPassword, true, nil
}

// companyResolver is one rule of the resolution chain. Returning
// (nil, nil) means "no match, try the next rule".
type companyResolver struct {
	name    string
	resolve func(ctx context.Context) (*companydomain.Company, error)
}

// resolveCompany walks the ordered fallback chain and creates the
// company only when every rule misses.
func (s *Service) resolveCompany(
	ctx context.Context,
	gateway string,
	checkout *checkoutdomain.CheckoutSession,
	ev *gatewayEvent,
	user *identitydomain.User,
	email string,
) (*companydomain.Company, bool, string, error) {
	resolvers := []companyResolver{
		{"checkout", func(ctx context.Context) (*companydomain.Company, error) {
			if checkout == nil || checkout.CompanyID == nil {
				return nil, nil
			}
			return s.companies.FindByID(ctx, s.db, *checkout.CompanyID)
		}},
		{"payload_company_id", func(ctx context.Context) (*companydomain.Company, error) {
			id, err := snowflake.ParseString(strings.TrimSpace(ev.CompanyID))
			if ev.CompanyID == "" || err != nil {
				return nil, nil
			}
			return s.companies.FindByID(ctx, s.db, id)
		}},
		{"gateway_subscription", func(ctx context.Context) (*companydomain.Company, error) {
			if ev.SubscriptionID == "" {
				return nil, nil
			}
			sub, err := s.subs.FindByGatewayID(ctx, s.db, gateway, ev.SubscriptionID)
			if err != nil || sub == nil {
				return nil, err
			}
			return s.companies.FindByID(ctx, s.db, sub.CompanyID)
		}},
		{"profile", func(ctx context.Context) (*companydomain.Company, error) {
			if user.CompanyID == nil {
				return nil, nil
			}
			return s.companies.FindByID(ctx, s.db, *user.CompanyID)
		}},
		{"email", func(ctx context.Context) (*companydomain.Company, error) {
			return s.companies.FindByEmail(ctx, s.db, email)
		}},
		{"ownership", func(ctx context.Context) (*companydomain.Company, error) {
			return s.companies.FindByOwner(ctx, s.db, user.ID)
		}},
		{"membership", func(ctx context.Context) (*companydomain.Company, error) {
			return s.companies.FindByMembership(ctx, s.db, user.ID)
		}},
	}

	for _, r := range resolvers {
		company, err := r.resolve(ctx)
		if err != nil {
			return nil, false, "", err
		}
		if company != nil {
			return company, false, r.name, nil
		}
	}

	nameCandidate := firstNonEmpty(
		deref(checkoutCompanyName(checkout)),
		ev.CompanyName,
		ev.CustomerName,
		emailLocalPart(email),
		"Empresa",
	)
	company, err := s.companySvc.CreateWithUniqueSlug(ctx, companydomain.CreateRequest{
		NameCandidate: nameCandidate,
		Email:         email,
		Phone:         ev.CustomerPhone,
		OwnerUserID:   &user.ID,
	})
	if err != nil {
		return nil, false, "", err
	}
	return company, true, "created", nil
}

func checkoutCompanyName(checkout *checkoutdomain.CheckoutSession) *string {
	if checkout == nil {
		return nil
	}
	return checkout.CompanyName
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func emailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return local
}
