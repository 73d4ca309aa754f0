package dto

type AnalyticsSummary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetBalance    float64 `json:"netBalance"`
	SavingsRate   float64 `json:"savingsRate"`
}

type BudgetProgress struct {
	Spent      float64 `json:"spent"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

type SpendingCategory struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

type IncomeExpenseData struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type KeyInsights struct {
	TopSpendingCategory      string  `json:"topSpendingCategory"`
	TopSpendingAmount        float64 `json:"topSpendingAmount"`
	TotalTransactions        int     `json:"totalTransactions"`
	TotalIncomeTransactions  int     `json:"totalIncomeTransactions"`
	TotalExpenseTransactions int     `json:"totalExpenseTransactions"`
}

type FinancialData struct {
	TimePeriod         string              `json:"timePeriod"`
	Summary            AnalyticsSummary    `json:"summary"`
	BudgetProgress     BudgetProgress      `json:"budgetProgress"`
	SpendingByCategory []SpendingCategory  `json:"spendingByCategory"`
	IncomeVsExpenses   []IncomeExpenseData `json:"incomeVsExpenses"`
	FinancialTrend     []IncomeExpenseData `json:"financialTrend"`
	KeyInsights        KeyInsights         `json:"keyInsights"`
}
