package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"portal-resolver-service/internal/config"
	"portal-resolver-service/internal/models"
	"portal-resolver-service/internal/services"
)

// Event subjects that invalidate cached resolutions
const (
	SubjectTenantBrandingUpdated = "tenant.branding.updated"
	SubjectTenantDomainPrefix    = "tenant.domain." // registered, verified, removed
	SubjectLandingPrefix         = "landing."       // published, unpublished, updated

	TenantStreamName  = "TENANT_EVENTS"
	LandingStreamName = "LANDING_EVENTS"
)

// Subscriber listens for tenant and landing configuration changes over
// NATS JetStream and invalidates the resolver cache. This is the async
// counterpart of the HTTP cache-administration endpoints: upstream
// services that cannot call them synchronously publish events instead.
type Subscriber struct {
	conn     *nats.Conn
	js       nats.JetStreamContext
	resolver *services.ResolverService
	config   *config.Config
	subs     []*nats.Subscription
}

// NewSubscriber connects to NATS and ensures the event streams exist
func NewSubscriber(cfg *config.Config, resolver *services.ResolverService) (*Subscriber, error) {
	log.Info().Str("url", cfg.NATS.URL).Msg("Connecting to NATS")

	opts := []nats.Option{
		nats.Name("portal-resolver-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	conn, err := nats.Connect(cfg.NATS.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream(nats.MaxWait(30 * time.Second))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Ensure streams exist so startup order relative to the publishing
	// services does not matter.
	streams := []struct {
		name     string
		subjects []string
	}{
		{TenantStreamName, []string{"tenant.>"}},
		{LandingStreamName, []string{"landing.>"}},
	}
	for _, stream := range streams {
		_, err := js.AddStream(&nats.StreamConfig{
			Name:      stream.name,
			Subjects:  stream.subjects,
			Storage:   nats.FileStorage,
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Discard:   nats.DiscardOld,
		})
		if err != nil && err != nats.ErrStreamNameAlreadyInUse {
			log.Warn().Err(err).Str("stream", stream.name).Msg("Could not ensure stream (will subscribe anyway)")
		}
	}

	return &Subscriber{
		conn:     conn,
		js:       js,
		resolver: resolver,
		config:   cfg,
		subs:     make([]*nats.Subscription, 0),
	}, nil
}

// Start begins subscribing to invalidation events
func (s *Subscriber) Start(ctx context.Context) error {
	subscriptions := []struct {
		subject string
		stream  string
		durable string
		handler nats.MsgHandler
	}{
		{"tenant.>", TenantStreamName, "portal-resolver-tenant", s.handleTenantEvent},
		{"landing.>", LandingStreamName, "portal-resolver-landing", s.handleLandingEvent},
	}

	for _, binding := range subscriptions {
		sub, err := s.js.QueueSubscribe(
			binding.subject,
			"portal-resolver-workers",
			binding.handler,
			nats.Durable(binding.durable),
			nats.DeliverNew(),
			nats.ManualAck(),
			nats.AckWait(30*time.Second),
			nats.MaxDeliver(5),
			nats.BindStream(binding.stream),
		)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", binding.subject, err)
		}
		s.subs = append(s.subs, sub)
		log.Info().Str("subject", binding.subject).Str("stream", binding.stream).Msg("Subscribed to invalidation events")
	}

	return nil
}

// handleTenantEvent invalidates portal cache entries for a tenant's
// domain configuration change.
func (s *Subscriber) handleTenantEvent(msg *nats.Msg) {
	subject := msg.Subject
	if subject != SubjectTenantBrandingUpdated && !strings.HasPrefix(subject, SubjectTenantDomainPrefix) {
		msg.Ack()
		return
	}

	var event models.TenantDomainEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to unmarshal tenant event")
		// Ack anyway to prevent infinite retries for malformed messages
		msg.Ack()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if event.Domain != "" {
		s.resolver.ClearPortalCache(ctx, event.Domain)
	}
	if tenantID, err := uuid.Parse(event.TenantID); err == nil {
		if err := s.resolver.ClearTenantPortalCache(ctx, tenantID); err != nil {
			log.Error().Err(err).Str("tenant_id", event.TenantID).Msg("Failed to clear tenant portal cache")
			msg.Nak()
			return
		}
	}

	log.Info().Str("subject", subject).Str("tenant_id", event.TenantID).Msg("Invalidated portal cache from event")
	msg.Ack()
}

// handleLandingEvent invalidates landing cache entries for a landing
// publish/unpublish/domain change.
func (s *Subscriber) handleLandingEvent(msg *nats.Msg) {
	var event models.LandingEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to unmarshal landing event")
		msg.Ack()
		return
	}

	s.resolver.ClearAgencyLandingCache(event.Subdomain, event.CustomDomain)
	log.Info().
		Str("subject", msg.Subject).
		Str("subdomain", event.Subdomain).
		Str("custom_domain", event.CustomDomain).
		Msg("Invalidated landing cache from event")
	msg.Ack()
}

// Stop drains all subscriptions and closes the connection
func (s *Subscriber) Stop() error {
	for _, sub := range s.subs {
		if sub.IsValid() {
			if err := sub.Drain(); err != nil {
				log.Warn().Err(err).Msg("Failed to drain subscription")
			}
		}
	}
	if s.conn != nil && !s.conn.IsClosed() {
		if err := s.conn.Drain(); err != nil {
			log.Warn().Err(err).Msg("Failed to drain NATS connection")
		}
	}
	return nil
}

// IsConnected returns true if connected to NATS
func (s *Subscriber) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}
