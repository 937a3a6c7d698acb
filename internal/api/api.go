// Package api binds the entity kinds to their remote endpoints.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pthm/hxdash/internal/entity"
	"golang.org/x/sync/errgroup"
)

// Doer is the part of apiclient.Client the resources use.
type Doer interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Service is the CRUD surface of one entity kind.
type Service[E any] interface {
	Create(ctx context.Context, e E) (E, error)
	GetByID(ctx context.Context, id int64) (E, error)
	GetAll(ctx context.Context) ([]E, error)
	GetByOrganization(ctx context.Context, orgID int64) ([]E, error)
	Update(ctx context.Context, id int64, e E) (E, error)
	Delete(ctx context.Context, id int64) error
}

// Resource implements Service over a REST collection at Path.
type Resource[E any] struct {
	client Doer
	Path   string
}

// NewResource binds path, e.g. "organizations", to client.
func NewResource[E any](client Doer, path string) *Resource[E] {
	return &Resource[E]{client: client, Path: path}
}

func (r *Resource[E]) item(id int64) string {
	return r.Path + "/" + strconv.FormatInt(id, 10)
}

func (r *Resource[E]) Create(ctx context.Context, e E) (E, error) {
	var out E
	err := r.client.Post(ctx, r.Path+"/", e, &out)
	return out, err
}

func (r *Resource[E]) GetByID(ctx context.Context, id int64) (E, error) {
	var out E
	err := r.client.Get(ctx, r.item(id), &out)
	return out, err
}

func (r *Resource[E]) GetAll(ctx context.Context) ([]E, error) {
	out := []E{}
	err := r.client.Get(ctx, r.Path+"/", &out)
	return out, err
}

func (r *Resource[E]) GetByOrganization(ctx context.Context, orgID int64) ([]E, error) {
	q := url.Values{"organization_id": {strconv.FormatInt(orgID, 10)}}
	out := []E{}
	err := r.client.Get(ctx, r.Path+"/?"+q.Encode(), &out)
	return out, err
}

func (r *Resource[E]) Update(ctx context.Context, id int64, e E) (E, error) {
	var out E
	err := r.client.Put(ctx, r.item(id), e, &out)
	return out, err
}

func (r *Resource[E]) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, r.item(id), nil)
}

// API holds one resource per entity kind.
type API struct {
	client                Doer
	Organizations         Service[entity.Organization]
	CostMultipliers       Service[entity.CostMultiplier]
	Categories            Service[entity.Category]
	Autopostings          Service[entity.Autoposting]
	AutopostingCategories Service[entity.AutopostingCategory]
	Employees             Service[entity.Employee]
}

// New binds every resource to client.
func New(client Doer) *API {
	return &API{
		client:                client,
		Organizations:         NewResource[entity.Organization](client, "organizations"),
		CostMultipliers:       NewResource[entity.CostMultiplier](client, "cost-multipliers"),
		Categories:            NewResource[entity.Category](client, "categories"),
		Autopostings:          NewResource[entity.Autoposting](client, "autopostings"),
		AutopostingCategories: NewResource[entity.AutopostingCategory](client, "autoposting-categories"),
		Employees:             NewResource[entity.Employee](client, "employees"),
	}
}

// CostFor returns the cost multiplier of an organization.
func (a *API) CostFor(ctx context.Context, orgID int64) (entity.CostMultiplier, error) {
	var out entity.CostMultiplier
	err := a.client.Get(ctx, fmt.Sprintf("organizations/%d/cost-multiplier", orgID), &out)
	return out, err
}

// SetCost updates the cost multiplier of an organization.
func (a *API) SetCost(ctx context.Context, orgID int64, c entity.CostMultiplier) (entity.CostMultiplier, error) {
	c.OrganizationID = orgID
	var out entity.CostMultiplier
	err := a.client.Put(ctx, fmt.Sprintf("organizations/%d/cost-multiplier", orgID), c, &out)
	return out, err
}

// OrganizationWithCost loads an organization and its cost multiplier
// concurrently. Either failure fails the whole call.
func (a *API) OrganizationWithCost(ctx context.Context, id int64) (entity.OrganizationWithCost, error) {
	var (
		org  entity.Organization
		cost entity.CostMultiplier
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		org, err = a.Organizations.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		cost, err = a.CostFor(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.OrganizationWithCost{}, err
	}
	return entity.OrganizationWithCost{Organization: org, Cost: cost}, nil
}
