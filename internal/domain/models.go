package domain

import (
	"github.com/shopspring/decimal"
)

// ==================== ENUMERATIONS ====================

// Status values shared by projects, campaigns and tasks.
const (
	StatusPlanned    = "Planned"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Transaction types after remapping.
const (
	TransactionIncome  = "Income"
	TransactionExpense = "Expense"
)

// TransactionTypeRemap maps source document types onto transaction types.
var TransactionTypeRemap = map[string]string{
	"Invoice":  TransactionIncome,
	"Estimate": TransactionExpense,
}

// Department names.
const (
	DepartmentEngineering    = "Engineering"
	DepartmentMarketing      = "Marketing"
	DepartmentSales          = "Sales"
	DepartmentHumanResources = "Human Resources"
	DepartmentFinance        = "Finance"
)

// Marketing channels reported individually.
const (
	ChannelEmail       = "Email"
	ChannelSocialMedia = "Social Media"
)

// ==================== REPORT ====================

// SectionKey identifies a report section.
type SectionKey string

const (
	SectionEmployees    SectionKey = "employees"
	SectionProjects     SectionKey = "projects"
	SectionTransactions SectionKey = "transactions"
	SectionMarketing    SectionKey = "marketing"
	SectionTasks        SectionKey = "tasks"
)

// ChartKind selects how a chart dataset is drawn.
type ChartKind string

const (
	ChartBar ChartKind = "bar"
	ChartPie ChartKind = "pie"
)

// Report is the output of one report build.
type Report struct {
	Title    string    `json:"title"`
	AsOf     string    `json:"as_of"`
	Sections []Section `json:"sections"`
}

// Section returns the section with the given key.
func (r *Report) Section(key SectionKey) (*Section, bool) {
	for i := range r.Sections {
		if r.Sections[i].Key == key {
			return &r.Sections[i], true
		}
	}
	return nil, false
}

// Section groups the metrics and charts of one topic.
type Section struct {
	Key     SectionKey `json:"key"`
	Title   string     `json:"title"`
	Metrics []Metric   `json:"metrics"`
	Charts  []Chart    `json:"charts"`
}

// Chart returns the chart with the given id.
func (s *Section) Chart(id string) (*Chart, bool) {
	for i := range s.Charts {
		if s.Charts[i].ID == id {
			return &s.Charts[i], true
		}
	}
	return nil, false
}

// Metric returns the first metric with the given group and label.
func (s *Section) Metric(group, label string) (*Metric, bool) {
	for i := range s.Metrics {
		if s.Metrics[i].Group == group && s.Metrics[i].Label == label {
			return &s.Metrics[i], true
		}
	}
	return nil, false
}

// Metric is a labelled value shown on a card. Number is set for numeric metrics.
type Metric struct {
	Group  string           `json:"group"`
	Label  string           `json:"label"`
	Value  string           `json:"value"`
	Number *decimal.Decimal `json:"number,omitempty"`
}

// Chart is a dataset for one chart.
type Chart struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Kind   ChartKind    `json:"kind"`
	XLabel string       `json:"x_label"`
	YLabel string       `json:"y_label"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint is one bar or slice. Series selects the colour group.
type ChartPoint struct {
	X      string          `json:"x"`
	Y      decimal.Decimal `json:"y"`
	Series string          `json:"series"`
}
