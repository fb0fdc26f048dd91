// Package aggregate turns the raw category, service and submission lists into the
// statistics shown on the dashboards. Everything here is a pure function of its
// inputs: nothing is cached, nothing is mutated and no I/O happens, so the same
// Dataset always yields the same Dashboard.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
)

// Dataset is the full working set. Slices are read, never written.
type Dataset struct {
	Categories  []*domain.Category
	Services    []*domain.Service
	Submissions []*domain.Submission
}

type ServiceStats struct {
	ServiceID    int64  `json:"service_id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Total        int64  `json:"total"`
	Verified     int64  `json:"verified"`
	Unverified   int64  `json:"unverified"`
	IsExcluded   bool   `json:"is_excluded"`
}

type CategoryTotal struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type StatusKey string

const (
	StatusKeyVerified    StatusKey = "verified"
	StatusKeyUnverified  StatusKey = "unverified"
	StatusKeyPlaceholder StatusKey = "placeholder"
)

type StatusBucket struct {
	Key         StatusKey       `json:"key"`
	Label       string          `json:"label"`
	Value       int64           `json:"value"`
	Percent     decimal.Decimal `json:"percent"`
	Placeholder bool            `json:"placeholder,omitempty"`
}

type Dashboard struct {
	GlobalTotal int64 `json:"global_total"`
	// Unattributed is the part of GlobalTotal whose service or category no longer exists.
	Unattributed int64           `json:"unattributed"`
	Categories   []CategoryTotal `json:"categories"`
	Status       []StatusBucket  `json:"status"`
	Services     []ServiceStats  `json:"services"`
}

type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// countOf coerces a submission's count to a non-negative value.
func countOf(s *domain.Submission) int64 {
	if s == nil || s.Count < 0 {
		return 0
	}
	return s.Count
}

type lookup struct {
	services   map[int64]*domain.Service
	categories map[int64]*domain.Category
}

func newLookup(ds Dataset) lookup {
	l := lookup{
		services:   make(map[int64]*domain.Service, len(ds.Services)),
		categories: make(map[int64]*domain.Category, len(ds.Categories)),
	}
	// a repeated id resolves to its first listing
	for _, s := range ds.Services {
		if s == nil {
			continue
		}
		if _, seen := l.services[s.ID]; !seen {
			l.services[s.ID] = s
		}
	}
	for _, c := range ds.Categories {
		if c != nil {
			l.categories[c.ID] = c
		}
	}
	return l
}

// categoryOf resolves the category that owns serviceID.
func (l lookup) categoryOf(serviceID int64) (*domain.Category, bool) {
	svc, ok := l.services[serviceID]
	if !ok {
		return nil, false
	}
	cat, ok := l.categories[svc.CategoryID]
	return cat, ok
}

func (e *Engine) stats(l lookup, svc *domain.Service, name string) ServiceStats {
	st := ServiceStats{Name: name, CategoryName: e.cfg.Unresolved}
	categoryName := ""
	if svc != nil {
		st.ServiceID = svc.ID
		st.CategoryID = svc.CategoryID
		if cat, ok := l.categories[svc.CategoryID]; ok {
			categoryName = cat.Name
			st.CategoryName = cat.Name
		}
	}
	st.IsExcluded = e.cfg.Excluded(name, categoryName)
	return st
}

func (st *ServiceStats) add(s *domain.Submission) {
	n := countOf(s)
	st.Total += n
	if s.Verified {
		st.Verified += n
	} else {
		st.Unverified += n
	}
}

func (st *ServiceStats) finish() {
	if st.IsExcluded {
		st.Verified, st.Unverified = 0, 0
	}
}

// ServiceStats computes the totals of one service, joined by identifier.
// An unknown serviceID yields zero sums under an unresolved name, even when
// submissions still reference it.
func (e *Engine) ServiceStats(ds Dataset, serviceID int64) ServiceStats {
	l := newLookup(ds)

	svc, ok := l.services[serviceID]
	name := e.cfg.Unresolved
	if ok {
		name = svc.Name
	}
	st := e.stats(l, svc, name)
	st.ServiceID = serviceID
	if !ok {
		return st
	}

	for _, s := range ds.Submissions {
		if s != nil && s.ServiceID == serviceID {
			st.add(s)
		}
	}
	st.finish()
	return st
}

// ServiceStatsByName computes the totals of every service carrying the display name.
// Services sharing a name are merged; the first one listed decides the category.
func (e *Engine) ServiceStatsByName(ds Dataset, name string) ServiceStats {
	l := newLookup(ds)

	ids := make(map[int64]struct{})
	var first *domain.Service
	for _, svc := range ds.Services {
		if svc == nil || svc.Name != name {
			continue
		}
		if first == nil {
			first = svc
		}
		ids[svc.ID] = struct{}{}
	}

	st := e.stats(l, first, name)
	for _, s := range ds.Submissions {
		if s == nil {
			continue
		}
		if _, ok := ids[s.ServiceID]; ok {
			st.add(s)
		}
	}
	st.finish()
	return st
}

// CategoryTotal sums every submission whose service belongs to categoryID.
// No exclusion applies at this level.
func (e *Engine) CategoryTotal(ds Dataset, categoryID int64) int64 {
	l := newLookup(ds)

	var total int64
	for _, s := range ds.Submissions {
		if s == nil {
			continue
		}
		if cat, ok := l.categoryOf(s.ServiceID); ok && cat.ID == categoryID {
			total += countOf(s)
		}
	}
	return total
}

func GlobalTotal(submissions []*domain.Submission) int64 {
	var total int64
	for _, s := range submissions {
		total += countOf(s)
	}
	return total
}

// StatusBreakdown splits all submissions by verification flag. The placeholder
// bucket, when configured, models a status the data does not carry and stays zero.
func (e *Engine) StatusBreakdown(submissions []*domain.Submission) []StatusBucket {
	var verified, unverified int64
	for _, s := range submissions {
		if s == nil {
			continue
		}
		if s.Verified {
			verified += countOf(s)
		} else {
			unverified += countOf(s)
		}
	}

	total := verified + unverified
	buckets := []StatusBucket{
		{Key: StatusKeyVerified, Label: e.cfg.Labels.Verified, Value: verified, Percent: percent(verified, total)},
		{Key: StatusKeyUnverified, Label: e.cfg.Labels.Unverified, Value: unverified, Percent: percent(unverified, total)},
	}
	if e.cfg.Labels.Placeholder != "" {
		buckets = append(buckets, StatusBucket{
			Key:         StatusKeyPlaceholder,
			Label:       e.cfg.Labels.Placeholder,
			Percent:     decimal.Zero,
			Placeholder: true,
		})
	}
	return buckets
}

func percent(part, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(1)
}

func (e *Engine) rank(categoryName string, resolved bool) int {
	if !resolved {
		return e.cfg.DefaultRank
	}
	if r, ok := e.cfg.Priority[categoryName]; ok {
		return r
	}
	return e.cfg.DefaultRank
}

// OrderServices returns a copy of the services sorted by category priority.
// Services of equal rank keep their input order.
func (e *Engine) OrderServices(ds Dataset) []*domain.Service {
	l := newLookup(ds)

	out := make([]*domain.Service, 0, len(ds.Services))
	ranks := make(map[*domain.Service]int, len(ds.Services))
	for _, svc := range ds.Services {
		if svc == nil {
			continue
		}
		cat, ok := l.categories[svc.CategoryID]
		name := ""
		if ok {
			name = cat.Name
		}
		ranks[svc] = e.rank(name, ok)
		out = append(out, svc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return ranks[out[i]] < ranks[out[j]]
	})
	return out
}

// Assemble builds every derived view in one pass over the submissions.
func (e *Engine) Assemble(ds Dataset) Dashboard {
	l := newLookup(ds)

	ordered := e.OrderServices(ds)
	perService := make(map[int64]*ServiceStats, len(ordered))
	for _, svc := range ordered {
		if l.services[svc.ID] != svc {
			continue
		}
		st := e.stats(l, svc, svc.Name)
		perService[svc.ID] = &st
	}

	perCategory := make(map[int64]int64, len(ds.Categories))
	var global, unattributed int64
	for _, s := range ds.Submissions {
		if s == nil {
			continue
		}
		n := countOf(s)
		global += n

		if st, ok := perService[s.ServiceID]; ok {
			st.add(s)
		}
		if cat, ok := l.categoryOf(s.ServiceID); ok {
			perCategory[cat.ID] += n
		} else {
			unattributed += n
		}
	}

	dash := Dashboard{
		GlobalTotal:  global,
		Unattributed: unattributed,
		Categories:   make([]CategoryTotal, 0, len(ds.Categories)),
		Status:       e.StatusBreakdown(ds.Submissions),
		Services:     make([]ServiceStats, 0, len(ordered)),
	}
	for _, c := range ds.Categories {
		if c == nil {
			continue
		}
		dash.Categories = append(dash.Categories, CategoryTotal{ID: c.ID, Name: c.Name, Total: perCategory[c.ID]})
	}
	for _, svc := range ordered {
		st, ok := perService[svc.ID]
		if !ok || l.services[svc.ID] != svc {
			continue
		}
		delete(perService, svc.ID)
		st.finish()
		dash.Services = append(dash.Services, *st)
	}
	return dash
}
