// Package membership stores (owner, member) pair rows for any table whose
// row type names its two key columns.
package membership

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

// Row describes the pair columns of a membership table.
type Row interface {
	OwnerColumn() string
	MemberColumn() string
}

// RowPtr is satisfied by *T for a membership row type T.
type RowPtr[T any] interface {
	*T
	Row
	SetMembership(owner, member uuid.UUID)
}

type Repo[T any, P RowPtr[T]] struct {
	db     *gorm.DB
	log    *logger.Logger
	owner  string
	member string
}

func NewRepo[T any, P RowPtr[T]](db *gorm.DB, baseLog *logger.Logger, name string) *Repo[T, P] {
	var zero T
	row := P(&zero)
	return &Repo[T, P]{
		db:     db,
		log:    baseLog.With("repo", name),
		owner:  row.OwnerColumn(),
		member: row.MemberColumn(),
	}
}

func (r *Repo[T, P]) tx(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(r.db)
}

func (r *Repo[T, P]) pairClause() string {
	return fmt.Sprintf("%s = ? AND %s = ?", r.owner, r.member)
}

func (r *Repo[T, P]) Exists(dbc dbctx.Context, owner, member uuid.UUID) (bool, error) {
	var count int64
	if err := r.tx(dbc).
		Model(new(T)).
		Where(r.pairClause(), owner, member).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repo[T, P]) Create(dbc dbctx.Context, owner, member uuid.UUID) (*T, error) {
	row := new(T)
	P(row).SetMembership(owner, member)
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes the pair and reports how many rows went away.
func (r *Repo[T, P]) Delete(dbc dbctx.Context, owner, member uuid.UUID) (int64, error) {
	res := r.tx(dbc).Where(r.pairClause(), owner, member).Delete(new(T))
	return res.RowsAffected, res.Error
}

// DeleteByMember drops every pair pointing at member.
func (r *Repo[T, P]) DeleteByMember(dbc dbctx.Context, member uuid.UUID) error {
	return r.tx(dbc).Where(r.member+" = ?", member).Delete(new(T)).Error
}

// MembersOf lists the member ids of owner, oldest first.
func (r *Repo[T, P]) MembersOf(dbc dbctx.Context, owner uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.tx(dbc).
		Model(new(T)).
		Where(r.owner+" = ?", owner).
		Order("created_at ASC").
		Pluck(r.member, &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ContainsAny returns the subset of members that owner holds.
func (r *Repo[T, P]) ContainsAny(dbc dbctx.Context, owner uuid.UUID, members []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(members))
	if owner == uuid.Nil || len(members) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := r.tx(dbc).
		Model(new(T)).
		Where(r.owner+" = ? AND "+r.member+" IN ?", owner, members).
		Pluck(r.member, &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
