package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// SoftDelete is embedded by every primary entity.
// Deleted is the authoritative tombstone; DeletedAt/DeletedBy only record who
// asked for the removal and when.
type SoftDelete struct {
	Deleted   bool       `gorm:"not null;default:false;index"`
	DeletedAt *time.Time `gorm:"index"`
	DeletedBy *uint
}

type LifecycleState int

const (
	StateActive LifecycleState = iota
	StatePendingDeletion
	StateDeleted
)

func (s LifecycleState) String() string {
	switch s {
	case StatePendingDeletion:
		return "pending_deletion"
	case StateDeleted:
		return "deleted"
	default:
		return "active"
	}
}

func (s SoftDelete) State() LifecycleState {
	switch {
	case s.Deleted:
		return StateDeleted
	case s.DeletedAt != nil:
		return StatePendingDeletion
	default:
		return StateActive
	}
}

// Tombstone returns the columns written by an admin removal.
// A pending deletion keeps its original timestamp and actor (first actor wins).
func (s SoftDelete) Tombstone(adminID uint, now time.Time) SoftDelete {
	out := SoftDelete{Deleted: true, DeletedAt: s.DeletedAt, DeletedBy: s.DeletedBy}
	if out.DeletedAt == nil {
		at := now
		out.DeletedAt = &at
	}
	if out.DeletedBy == nil {
		by := adminID
		out.DeletedBy = &by
	}
	return out
}

// NameMaxLen is the width of every unique name column, in characters.
const NameMaxLen = 191

// TombstoneName frees a unique name slot: "<name>_<unix millis>". The name is
// cut, on a rune boundary, so the result still fits NameMaxLen.
func TombstoneName(name string, now time.Time) string {
	suffix := fmt.Sprintf("_%d", now.UnixMilli())
	if keep := NameMaxLen - len(suffix); utf8.RuneCountInString(name) > keep {
		name = string([]rune(name)[:keep])
	}
	return name + suffix
}

// CancelPredicate restricts which pending deletions an actor may revert.
// A nil OwnerID means any non-tombstoned row.
type CancelPredicate struct {
	OwnerID *uint
}

func CancelPredicateFor(a Actor) CancelPredicate {
	if a.IsAdmin() {
		return CancelPredicate{}
	}
	id := a.ID
	return CancelPredicate{OwnerID: &id}
}
