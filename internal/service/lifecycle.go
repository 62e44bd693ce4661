// Package service holds the resource use cases sitting between the HTTP
// actions and the repositories.
package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"horti-admin/internal/domain"
)

var lifecycleTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lifecycle_transitions_total",
		Help: "Soft-delete transitions applied, by entity and transition",
	},
	[]string{"entity", "transition"},
)

func init() { prometheus.MustRegister(lifecycleTransitions) }

const (
	transitionRemove      = "remove"
	transitionCancel      = "cancel"
	transitionAdminRemove = "admin_remove"
)

// lifecycle applies the soft-delete state machine on behalf of an actor.
type lifecycle struct {
	entity  string
	repo    domain.Lifecycle
	now     func() time.Time
	changed func(ctx context.Context)
}

func newLifecycle(entity string, repo domain.Lifecycle, changed func(context.Context)) lifecycle {
	return lifecycle{entity: entity, repo: repo, now: time.Now, changed: changed}
}

func (l lifecycle) done(ctx context.Context, transition string) {
	lifecycleTransitions.WithLabelValues(l.entity, transition).Inc()
	if l.changed != nil {
		l.changed(ctx)
	}
}

// Delete is the role-dependent removal: admins tombstone, users mark pending.
func (l lifecycle) Delete(ctx context.Context, id uint, a domain.Actor) error {
	if a.IsAdmin() {
		return l.AdminRemove(ctx, id, a)
	}
	return l.Remove(ctx, id, a)
}

func (l lifecycle) Remove(ctx context.Context, id uint, a domain.Actor) error {
	if err := l.repo.Remove(ctx, id, a.ID, l.now()); err != nil {
		return err
	}
	l.done(ctx, transitionRemove)
	return nil
}

func (l lifecycle) Cancel(ctx context.Context, id uint, a domain.Actor) error {
	if err := l.repo.Cancel(ctx, id, domain.CancelPredicateFor(a)); err != nil {
		return err
	}
	l.done(ctx, transitionCancel)
	return nil
}

func (l lifecycle) AdminRemove(ctx context.Context, id uint, a domain.Actor) error {
	if !a.IsAdmin() {
		return domain.Forbidden()
	}
	if err := l.repo.AdminRemove(ctx, id, a.ID, l.now()); err != nil {
		return err
	}
	l.done(ctx, transitionAdminRemove)
	return nil
}
