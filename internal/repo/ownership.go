package repo

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"gorm.io/gorm"

	"posgate/internal/models"
)

// Resource описывает таблицу и то, как из неё добраться до владельца.
type Resource struct {
	name   string
	model  any
	direct bool // owner_id в самой таблице; иначе через organization_id
}

func (r Resource) String() string { return r.name }

var (
	Organizations  = Resource{name: "organizations", model: &models.Organization{}, direct: true}
	Operations     = Resource{name: "operations", model: &models.Operation{}, direct: true}
	TerminalGroups = Resource{name: "terminal_groups", model: &models.TerminalGroup{}}
	Orders         = Resource{name: "orders", model: &models.Order{}}
	PaymentTypes   = Resource{name: "payment_types", model: &models.PaymentType{}}
	OrderTypes     = Resource{name: "order_types", model: &models.OrderType{}}
)

// maxInParams — сколько id уходит в один "IN (...)". Лимит переменных у
// SQLite 32766, у Postgres 65535; берём с запасом.
const maxInParams = 1000

// IDSet — множество id, прошедших проверку владения.
type IDSet map[uint]struct{}

func NewIDSet(ids ...uint) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int { return len(s) }

// Slice — id по возрастанию.
func (s IDSet) Slice() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Ownership сужает запрошенные id до тех, что принадлежат пользователю.
// Состояния не держит, кэша нет: каждый вызов идёт в БД.
type Ownership struct{ db *gorm.DB }

func NewOwnership(db *gorm.DB) *Ownership { return &Ownership{db: db} }

// Scope возвращает подмножество requested из res, принадлежащее ownerID.
// Отсутствие пересечения — пустое множество, а не ошибка. Длинные списки
// уходят в БД пачками по maxInParams.
func (o *Ownership) Scope(ctx context.Context, ownerID uint, requested []uint, res Resource) (IDSet, error) {
	return o.scope(ctx, ownerID, 0, requested, res)
}

// ScopeIn — Scope для ресурсов организации, суженный до orgID: чужие и
// лежащие в другой организации того же владельца id отсекаются.
func (o *Ownership) ScopeIn(ctx context.Context, ownerID, orgID uint, requested []uint, res Resource) (IDSet, error) {
	if res.direct {
		return nil, fmt.Errorf("%s: not an organization resource", res)
	}
	if orgID == 0 {
		return IDSet{}, nil
	}
	return o.scope(ctx, ownerID, orgID, requested, res)
}

func (o *Ownership) scope(ctx context.Context, ownerID, orgID uint, requested []uint, res Resource) (IDSet, error) {
	out := IDSet{}
	if len(requested) == 0 || ownerID == 0 {
		return out, nil
	}
	for part := range batches(uniq(requested)) {
		q := o.db.WithContext(ctx).Model(res.model).Where("id IN ?", part)
		if res.direct {
			q = q.Where("owner_id = ?", ownerID)
		} else {
			owned := o.db.Model(&models.Organization{}).Select("id").Where("owner_id = ?", ownerID)
			q = q.Where("organization_id IN (?)", owned)
			if orgID != 0 {
				q = q.Where("organization_id = ?", orgID)
			}
		}

		var ids []uint
		if err := q.Pluck("id", &ids).Error; err != nil {
			return nil, dbErr(err)
		}
		for _, id := range ids {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

// Owns — Scope для одного id.
func (o *Ownership) Owns(ctx context.Context, ownerID, id uint, res Resource) (bool, error) {
	set, err := o.Scope(ctx, ownerID, []uint{id}, res)
	if err != nil {
		return false, err
	}
	return set.Has(id), nil
}

// batches режет ids на части не длиннее maxInParams.
func batches(ids []uint) iter.Seq[[]uint] {
	return slices.Chunk(ids, maxInParams)
}

func uniq(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
