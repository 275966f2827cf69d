package budget

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"budgetdash/internal/core"
	"budgetdash/internal/log"
)

type fakeStore struct {
	rows      []core.RawRow
	depts     []string
	err       error
	panicWith any
	calls     atomic.Int64
	lastDept  string
}

func (f *fakeStore) QueryByDepartment(_ context.Context, department string) ([]core.RawRow, error) {
	f.calls.Add(1)
	f.lastDept = department
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.rows, f.err
}

func (f *fakeStore) ListDepartments(context.Context) ([]string, error) {
	f.calls.Add(1)
	return f.depts, f.err
}

type fakePublisher struct {
	events []Event
	err    error
}

func (p *fakePublisher) PublishBudgetFetched(_ context.Context, e Event) error {
	p.events = append(p.events, e)
	return p.err
}

func newTestService(st *fakeStore, opts ...Option) *Service {
	opts = append([]Option{WithLogger(log.Discard())}, opts...)
	return NewService(st, opts...)
}

func TestFetchBudgetRejectsBlankDepartment(t *testing.T) {
	for _, dept := range []string{"", "   "} {
		st := &fakeStore{}
		_, err := newTestService(st).FetchBudget(context.Background(), Request{Department: dept})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("department %q: expected ErrInvalidRequest, got %v", dept, err)
		}
		if StatusCode(err) != http.StatusBadRequest {
			t.Fatalf("status = %d", StatusCode(err))
		}
		if Message(err) != MsgDepartmentRequired {
			t.Fatalf("message = %q", Message(err))
		}
		if n := st.calls.Load(); n != 0 {
			t.Fatalf("store was called %d times", n)
		}
	}
}

func TestFetchBudgetScenario(t *testing.T) {
	st := &fakeStore{rows: []core.RawRow{
		{ID: "1", AccountBudgetA: "Roads", UsedAmt: "50000"},
		{ID: "2", AccountBudgetA: "Health", UsedAmt: "0"},
		{ID: "3", AccountBudgetA: "", UsedAmt: "30000"},
	}}
	pub := &fakePublisher{}
	fixed := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	svc := newTestService(st, WithPublisher(pub), WithClock(func() time.Time { return fixed }))

	res, err := svc.FetchBudget(context.Background(), Request{Department: " Roads ", Ward: "12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.lastDept != "Roads" {
		t.Fatalf("store queried with %q", st.lastDept)
	}
	if n := st.calls.Load(); n != 1 {
		t.Fatalf("store called %d times, want 1", n)
	}
	wantItems := []core.BudgetItem{{ID: "1", Category: "Roads", Amount: 50000}}
	if !reflect.DeepEqual(res.Items, wantItems) {
		t.Fatalf("items = %+v", res.Items)
	}
	wantSummary := core.BudgetSummary{
		TotalBudget:     50000,
		LargestCategory: &core.CategoryAmount{Category: "Roads", Amount: 50000},
	}
	if !reflect.DeepEqual(res.Summary, wantSummary) {
		t.Fatalf("summary = %+v", res.Summary)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected one event, got %d", len(pub.events))
	}
	want := Event{Department: "Roads", Ward: "12", ItemCount: 1, TotalBudget: 50000, FetchedAt: fixed}
	if pub.events[0] != want {
		t.Fatalf("event = %+v", pub.events[0])
	}
	if svc.Year() != 2026 {
		t.Fatalf("year = %d", svc.Year())
	}
}

func TestFetchBudgetBackendErrorIsGeneric(t *testing.T) {
	st := &fakeStore{err: errors.New(`relation "municipal_budget" does not exist`)}
	pub := &fakePublisher{}
	_, err := newTestService(st, WithPublisher(pub)).FetchBudget(context.Background(), Request{Department: "Roads"})
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if strings.Contains(err.Error(), "municipal_budget") {
		t.Fatalf("store detail leaked: %q", err.Error())
	}
	if err.Error() != MsgFetchFailed || StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("unexpected error surface: %q / %d", err.Error(), StatusCode(err))
	}
	if n := st.calls.Load(); n != 1 {
		t.Fatalf("store called %d times, want exactly 1 (no retries)", n)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected on failure")
	}
}

func TestFetchBudgetRecoversPanics(t *testing.T) {
	st := &fakeStore{panicWith: "boom"}
	_, err := newTestService(st).FetchBudget(context.Background(), Request{Department: "Roads"})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if Message(err) != MsgInternal {
		t.Fatalf("message = %q", Message(err))
	}
}

func TestFetchBudgetWithoutStore(t *testing.T) {
	_, err := NewService(nil, WithLogger(log.Discard())).FetchBudget(context.Background(), Request{Department: "Roads"})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestFetchBudgetPublishFailureIsIgnored(t *testing.T) {
	st := &fakeStore{rows: []core.RawRow{{ID: "1", AccountBudgetA: "Roads", UsedAmt: "10"}}}
	pub := &fakePublisher{err: errors.New("channel closed")}
	res, err := newTestService(st, WithPublisher(pub)).FetchBudget(context.Background(), Request{Department: "Roads"})
	if err != nil {
		t.Fatalf("publish failure must not fail the query: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("items = %+v", res.Items)
	}
}

func TestFetchBudgetEmptyResult(t *testing.T) {
	st := &fakeStore{}
	res, err := newTestService(st).FetchBudget(context.Background(), Request{Department: "Parks"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 0 || res.Summary.TotalBudget != 0 || res.Summary.LargestCategory != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDepartments(t *testing.T) {
	st := &fakeStore{depts: []string{"Water", "Roads", "", " Roads", "Health"}}
	got, err := newTestService(st).Departments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Health", "Roads", "Water"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("departments = %v, want %v", got, want)
	}

	st = &fakeStore{err: errors.New("down")}
	if _, err := newTestService(st).Departments(context.Background()); !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
}

func TestDepartmentsCache(t *testing.T) {
	st := &fakeStore{
		depts: []string{"Roads", "Water"},
		rows:  []core.RawRow{{ID: "1", AccountBudgetA: "Roads", UsedAmt: "10"}},
	}
	svc := newTestService(st, WithDepartmentCache(time.Minute))
	ctx := context.Background()

	first, err := svc.Departments(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first[0] = "mutated"
	second, err := svc.Departments(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Roads", "Water"}; !reflect.DeepEqual(second, want) {
		t.Fatalf("cached departments = %v, want %v", second, want)
	}
	if n := st.calls.Load(); n != 1 {
		t.Fatalf("store called %d times for two department lists, want 1", n)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.FetchBudget(ctx, Request{Department: "Roads"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := st.calls.Load(); n != 3 {
		t.Fatalf("budget queries must not be cached: store calls = %d, want 3", n)
	}
}

func TestDepartmentsCacheSkipsErrors(t *testing.T) {
	st := &fakeStore{err: errors.New("down")}
	svc := newTestService(st, WithDepartmentCache(time.Minute))
	for i := 0; i < 2; i++ {
		if _, err := svc.Departments(context.Background()); !errors.Is(err, ErrBackend) {
			t.Fatalf("expected ErrBackend, got %v", err)
		}
	}
	if n := st.calls.Load(); n != 2 {
		t.Fatalf("failed lists must not be cached: store calls = %d, want 2", n)
	}
}

func TestStatusCodeAndMessage(t *testing.T) {
	if StatusCode(nil) != http.StatusOK {
		t.Fatal("nil error should map to 200")
	}
	if StatusCode(errors.New("x")) != http.StatusInternalServerError {
		t.Fatal("unknown errors map to 500")
	}
	if Message(errors.New("secret detail")) != MsgInternal {
		t.Fatal("unknown errors must use the generic message")
	}
	if StatusCode(InvalidRequest(MsgInvalidBody)) != http.StatusBadRequest {
		t.Fatal("invalid request maps to 400")
	}
}
