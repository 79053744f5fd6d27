// Package datastore assembles every sub-API over a single medium. One Store
// is one session: its Auth pointer is shared by everything built from it.
package datastore

import (
	"github.com/sirupsen/logrus"

	"github.com/forkthecity/microsite-store/internal/app/categories"
	"github.com/forkthecity/microsite-store/internal/app/entities"
	"github.com/forkthecity/microsite-store/internal/app/members"
	"github.com/forkthecity/microsite-store/internal/app/posts"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/app/responses"
	"github.com/forkthecity/microsite-store/internal/app/snapshot"
	"github.com/forkthecity/microsite-store/internal/app/volunteers"
	platformclock "github.com/forkthecity/microsite-store/internal/platform/clock"
	"github.com/forkthecity/microsite-store/internal/platform/idgen"
	"github.com/forkthecity/microsite-store/internal/platform/logging"
	clockport "github.com/forkthecity/microsite-store/internal/ports/out/clock"
	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

type Options struct {
	// Clock defaults to the system clock.
	Clock clockport.Clock
	// IDs defaults to idgen.Local over Clock.
	IDs idgen.Func
	Log logrus.FieldLogger

	VerifyPasswords bool
	// HashCost overrides the bcrypt cost when non-zero.
	HashCost int
	// CapacityBytes is what storage usage is reported against.
	CapacityBytes int
}

type Store struct {
	Records       *records.Store
	Members       *members.Service
	Auth          *members.Auth
	Volunteers    *volunteers.Service
	Organizations *entities.Organizations
	Businesses    *entities.Businesses
	Categories    *categories.Service
	Posts         *posts.Service
	Responses     *responses.Service
	Snapshot      *snapshot.Service
}

func New(kv kvstore.Store, opts Options) *Store {
	clk := opts.Clock
	if clk == nil {
		clk = platformclock.NewSystemClock()
	}
	ids := opts.IDs
	if ids == nil {
		ids = idgen.Local(clk)
	}
	log := logging.OrDiscard(opts.Log)

	rec := records.New(kv, log)
	auth := members.NewAuth(rec)
	auth.VerifyPasswords = opts.VerifyPasswords
	ms := members.NewService(rec, clk, ids, auth)
	if opts.HashCost != 0 {
		ms.HashCost = opts.HashCost
	}
	orgs := entities.NewOrganizations(rec, clk, ids)
	biz := entities.NewBusinesses(rec, clk, ids)
	cats := categories.NewService(rec, clk, ids, log)

	return &Store{
		Records:       rec,
		Members:       ms,
		Auth:          auth,
		Volunteers:    volunteers.NewService(rec, clk, ids),
		Organizations: orgs,
		Businesses:    biz,
		Categories:    cats,
		Posts: posts.NewService(rec, clk, ids, posts.Deps{
			Categories:    cats,
			Members:       ms,
			Organizations: orgs,
			Businesses:    biz,
		}, log),
		Responses: responses.NewService(rec, clk, ids, ms),
		Snapshot:  snapshot.NewService(rec, opts.CapacityBytes, log),
	}
}
