package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukaan-ai/salesbot/internal/domain"
)

type fakeGenerator struct {
	sql     string
	err     error
	lastReq domain.GenerationRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.CandidateSQL, error) {
	f.lastReq = req
	if f.err != nil {
		return domain.CandidateSQL{}, f.err
	}
	return domain.CandidateSQL{Text: f.sql, SourceProvider: "fake"}, nil
}

type fakeExecutor struct {
	result     *domain.ExecutionResult
	err        error
	lastSQL    string
	lastTenant string
}

func (f *fakeExecutor) Execute(ctx context.Context, sqlText, tenantID string) (*domain.ExecutionResult, error) {
	f.lastSQL = sqlText
	f.lastTenant = tenantID
	return f.result, f.err
}

type fakeResolver struct {
	tenant domain.Tenant
	err    error
}

func (f *fakeResolver) Resolve(ctx context.Context, ownerIdentity string) (domain.Tenant, error) {
	if f.err != nil {
		return domain.Tenant{}, f.err
	}
	return f.tenant, nil
}

func TestProcessQueryHappyPath(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT item_name, profit FROM sales"}
	exec := &fakeExecutor{result: &domain.ExecutionResult{
		Columns: []string{"item_name", "profit"},
		Rows:    [][]interface{}{{"Milk", 4.5}},
	}}
	res := &fakeResolver{tenant: domain.Tenant{ID: "shopA", OwnerIdentity: "911111"}}

	s := NewQueryService(gen, exec, res, nil)
	out := s.ProcessQuery(context.Background(), "milk profit?", domain.LocaleEnglish, "911111")

	assert.Contains(t, out, "Milk")
	assert.Equal(t, "shopA", gen.lastReq.TenantID)
	assert.Equal(t, "shopA", exec.lastTenant)
	assert.Equal(t, "SELECT item_name, profit FROM sales", exec.lastSQL)
}

func TestProcessQueryUnregisteredCallerRunsUnscoped(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT * FROM sales"}
	exec := &fakeExecutor{result: &domain.ExecutionResult{
		Columns: []string{"id"},
		Rows:    [][]interface{}{{"S1"}},
	}}
	res := &fakeResolver{err: domain.ErrTenantNotFound}

	s := NewQueryService(gen, exec, res, nil)
	out := s.ProcessQuery(context.Background(), "all sales", domain.LocaleEnglish, "900000")

	// Scoping is optional: the query still executes, unscoped.
	assert.Contains(t, out, "S1")
	assert.Empty(t, gen.lastReq.TenantID)
	assert.Empty(t, exec.lastTenant)
}

func TestProcessQueryResolverFailureIsNonFatal(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT * FROM sales"}
	exec := &fakeExecutor{result: &domain.ExecutionResult{Columns: []string{"id"}, Rows: [][]interface{}{{"S1"}}}}
	res := &fakeResolver{err: fmt.Errorf("store unreachable")}

	s := NewQueryService(gen, exec, res, nil)
	out := s.ProcessQuery(context.Background(), "all sales", domain.LocaleEnglish, "911111")
	assert.Contains(t, out, "S1")
	assert.Empty(t, exec.lastTenant)
}

func TestProcessQueryGenerationExhaustedBecomesApology(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrGenerationExhausted}
	exec := &fakeExecutor{}

	s := NewQueryService(gen, exec, &fakeResolver{err: domain.ErrTenantNotFound}, nil)
	out := s.ProcessQuery(context.Background(), "q", domain.LocaleEnglish, "")

	assert.Contains(t, out, "error while processing your query")
	assert.Contains(t, out, "exhausted")
	// The executor never runs without SQL.
	assert.Empty(t, exec.lastSQL)
}

func TestProcessQueryExecutionErrorBecomesLocalizedApology(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT * FROM sales"}
	exec := &fakeExecutor{err: errors.New("rest backend: status 500")}

	s := NewQueryService(gen, exec, &fakeResolver{err: domain.ErrTenantNotFound}, nil)
	out := s.ProcessQuery(context.Background(), "q", domain.LocaleHindi, "")

	assert.Contains(t, out, "त्रुटि")
	assert.Contains(t, out, "status 500")
}

func TestProcessQueryNoResults(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT * FROM sales"}
	exec := &fakeExecutor{result: &domain.ExecutionResult{Columns: []string{}, Rows: [][]interface{}{}}}

	s := NewQueryService(gen, exec, &fakeResolver{err: domain.ErrTenantNotFound}, nil)
	assert.Equal(t, "No data found for this query.",
		s.ProcessQuery(context.Background(), "q", domain.LocaleEnglish, ""))
}
