package advisor

import (
	"context"
	"sync"

	"fjacquet/budget-sim/internal/analysis"
	"fjacquet/budget-sim/internal/models"
	"fjacquet/budget-sim/internal/simulation"
)

// fakeClient is a scripted AIClient.
type fakeClient struct {
	mu       sync.Mutex
	response string
	err      error
	block    bool
	requests []GenerateRequest
}

func (f *fakeClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func scenarioInput() models.BudgetInput {
	return models.BudgetInput{
		MonthlyIncome:    5000,
		FixedExpenses:    map[string]float64{"rent": 1500, "insurance": 300},
		VariableExpenses: map[string]float64{"food": 600, "entertainment": 400},
		SavingsGoal:      800,
		SimulationMonths: 12,
	}
}

func simulate(input models.BudgetInput, seed uint64) (*models.SimulationResult, models.FinancialStatistics) {
	result, err := simulation.NewEngine(input, simulation.WithSeed(seed)).Run()
	if err != nil {
		panic(err)
	}
	return result, analysis.Analyze(result)
}
