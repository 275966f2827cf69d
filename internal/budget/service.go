// Package budget implements the budget query handler: validate the
// department selector, read the department's rows once, normalize them and
// compute the summary.
package budget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"budgetdash/internal/cache"
	"budgetdash/internal/core"
	"budgetdash/internal/log"
	"budgetdash/internal/store"
)

type (
	// Request selects the budget lines to fetch. Ward is accepted for
	// forward compatibility; the current schema has no ward column so it is
	// not applied.
	Request struct {
		Department string `json:"department"`
		Ward       string `json:"ward,omitempty"`
	}

	Result struct {
		Items   []core.BudgetItem
		Summary core.BudgetSummary
	}

	// Event describes a successful fetch.
	Event struct {
		Department  string
		Ward        string
		ItemCount   int
		TotalBudget float64
		FetchedAt   time.Time
	}

	// Publisher receives an Event after every successful fetch.
	Publisher interface {
		PublishBudgetFetched(ctx context.Context, e Event) error
	}
)

// Service answers budget queries. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	store  store.Store
	events Publisher
	logger *log.Logger
	now    func() time.Time
	depts  *cache.TTL[[]string]
}

const departmentsKey = "departments"

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the publisher notified after successful fetches.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentBudget)
		}
	}
}

// WithDepartmentCache keeps the department list for ttl. Budget queries are
// never cached.
func WithDepartmentCache(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.depts = cache.NewTTL[[]string](1, ttl)
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentBudget),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchBudget runs one budget query.
//
// It fails with ErrInvalidRequest before touching the store when the
// department is blank, with ErrBackend when the store query fails and with
// ErrInternal for anything else, including panics. The store is called at
// most once and never retried.
func (s *Service) FetchBudget(ctx context.Context, req Request) (res Result, err error) {
	logger := log.FromContextOr(ctx, s.logger)
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Budget query panicked",
				log.FieldError, fmt.Sprint(r),
				log.FieldErrorType, log.ErrorTypeInternal)
			res, err = Result{}, internalError(fmt.Errorf("panic: %v", r))
		}
	}()

	department := strings.TrimSpace(req.Department)
	if department == "" {
		return Result{}, InvalidRequest(MsgDepartmentRequired)
	}
	if s.store == nil {
		return Result{}, internalError(errors.New("no backing store configured"))
	}

	ward := strings.TrimSpace(req.Ward)
	logger.InfoContext(ctx, "Fetching budget data",
		log.NewFields().WithQuery(department, ward).WithOperation(log.OpQuery).ToSlice()...)

	rows, err := s.store.QueryByDepartment(ctx, department)
	if err != nil {
		logger.ErrorContext(ctx, "Budget query failed",
			log.NewFields().
				WithQuery(department, ward).
				WithError(err).
				WithErrorType(log.ErrorTypeDatabase).
				ToSlice()...)
		return Result{}, backendError(err)
	}

	items := core.Normalize(rows)
	summary := core.Summarize(items)

	logger.InfoContext(ctx, "Fetched budget data",
		log.NewFields().
			WithQuery(department, ward).
			WithResult(len(rows), len(items), summary.TotalBudget).
			ToSlice()...)

	s.publish(ctx, logger, Event{
		Department:  department,
		Ward:        ward,
		ItemCount:   len(items),
		TotalBudget: summary.TotalBudget,
		FetchedAt:   s.now(),
	})

	return Result{Items: items, Summary: summary}, nil
}

// Departments returns the sorted, de-duplicated department list.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	logger := log.FromContextOr(ctx, s.logger)
	if s.store == nil {
		return nil, internalError(errors.New("no backing store configured"))
	}
	if s.depts != nil {
		if cached, ok := s.depts.Get(departmentsKey); ok {
			return slices.Clone(cached), nil
		}
	}
	raw, err := s.store.ListDepartments(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Department list failed",
			log.NewFields().WithOperation(log.OpList).WithError(err).ToSlice()...)
		return nil, backendError(err)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, d := range raw {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	if s.depts != nil {
		s.depts.Set(departmentsKey, slices.Clone(out))
	}
	return out, nil
}

// Ping reports the store's health when the store supports it.
func (s *Service) Ping(ctx context.Context) error {
	if s.store == nil {
		return errors.New("no backing store configured")
	}
	if p, ok := s.store.(store.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Year returns the current year per the service clock.
func (s *Service) Year() int {
	return s.now().Year()
}

func (s *Service) publish(ctx context.Context, logger *log.Logger, e Event) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishBudgetFetched(ctx, e); err != nil {
		logger.WarnContext(ctx, "Failed to publish budget event",
			log.NewFields().WithQuery(e.Department, e.Ward).WithOperation(log.OpPublish).WithError(err).ToSlice()...)
	}
}
