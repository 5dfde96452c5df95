package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"dukapos/backend/internal/cache"
	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/settings"
	"dukapos/backend/internal/store"
	"dukapos/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo     store.Repository
	settings *settings.Manager
	cache    cache.Cache
}

func New(repo store.Repository, settingsMgr *settings.Manager, c cache.Cache) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	if settingsMgr == nil {
		settingsMgr = settings.NewManager(repo, c)
	}

	return &Service{
		repo:     repo,
		settings: settingsMgr,
		cache:    c,
	}
}

func (s *Service) Settings() *settings.Manager {
	return s.settings
}

func (s *Service) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	return s.settings.All(ctx)
}

func (s *Service) UpdateSetting(ctx context.Context, key, value string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	if err := s.settings.Update(ctx, key, value); err != nil {
		return err
	}
	s.logAudit(ctx, "setting_update", "setting", key, fmt.Sprintf("value=%s", value))
	s.invalidateDashboard(ctx)
	return nil
}

func (s *Service) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin role required")
	}
	if limit < 1 {
		limit = 100
	}
	return s.repo.ListAuditLogs(ctx, limit)
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:         xid.New("audit"),
		Username:   actor.Username,
		Role:       actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}

func (s *Service) appendHistory(ctx context.Context, productID string, action string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system"}
	}

	if err := s.repo.AppendProductHistory(ctx, domain.ProductHistory{
		ID:        xid.New("hist"),
		ProductID: productID,
		Action:    action,
		Detail:    detail,
		Actor:     actor.Username,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		log.Printf("[service] WARN: failed to append product history product=%s action=%s: %v", productID, action, err)
	}
}
