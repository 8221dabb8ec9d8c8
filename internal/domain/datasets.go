package domain

import "github.com/locvowork/company_dashboard/pkg/dataframe"

// Dataset names as stored at the data source.
const (
	DatasetDepartments         = "departments"
	DatasetEmployees           = "employees"
	DatasetProjects            = "projects"
	DatasetProjectEmployees    = "project_employees"
	DatasetTransactions        = "transactions"
	DatasetMarketingCampaigns  = "marketing_campaigns"
	DatasetTasks               = "tasks"
	DatasetInventory           = "inventory"
	DatasetEmployeesDepartment = "employees_department"
	DatasetProjectAssignments  = "project_projEm"
	DatasetTransactionProject  = "transaction_project"
)

func schema(fields ...dataframe.Field) dataframe.Schema { return dataframe.Schema{Fields: fields} }

func num(name string) dataframe.Field { return dataframe.Field{Name: name, Kind: dataframe.KindNumber} }
func text(name string) dataframe.Field { return dataframe.Field{Name: name, Kind: dataframe.KindString} }
func date(name string) dataframe.Field { return dataframe.Field{Name: name, Kind: dataframe.KindDate} }

// Catalog holds the required fields of every known dataset.
var Catalog = map[string]dataframe.Schema{
	DatasetDepartments:         schema(num("id"), text("name")),
	DatasetEmployees:           schema(num("id"), text("full_name"), text("position"), num("department_id"), num("salary"), date("hire_date")),
	DatasetProjects:            schema(num("id"), text("project_name"), num("client_id"), num("budget"), text("status")),
	DatasetProjectEmployees:    schema(num("project_id"), num("employee_id")),
	DatasetTransactions:        schema(num("id"), num("project_id"), num("client_id"), num("amount"), text("type")),
	DatasetMarketingCampaigns:  schema(num("id"), text("channel"), text("status")),
	DatasetTasks:               schema(num("id"), text("status")),
	DatasetInventory:           schema(num("id")),
	DatasetEmployeesDepartment: schema(text("full_name"), text("position"), num("salary"), text("name")),
	DatasetProjectAssignments:  schema(text("project_name"), num("employee_id"), text("status")),
	DatasetTransactionProject:  schema(text("type"), num("amount"), text("project_name"), num("client_id_x"), num("budget")),
}

// JoinRecipe derives a precomputed join dataset from two base datasets.
type JoinRecipe struct {
	Left, Right       string
	LeftKey, RightKey string
}

// DerivedDatasets lists how each precomputed join table is rebuilt when the
// data source does not carry it.
var DerivedDatasets = map[string]JoinRecipe{
	DatasetEmployeesDepartment: {Left: DatasetEmployees, Right: DatasetDepartments, LeftKey: "department_id", RightKey: "id"},
	DatasetProjectAssignments:  {Left: DatasetProjects, Right: DatasetProjectEmployees, LeftKey: "id", RightKey: "project_id"},
	DatasetTransactionProject:  {Left: DatasetTransactions, Right: DatasetProjects, LeftKey: "project_id", RightKey: "id"},
}

// BaseDatasets are the source tables in foreign-key order.
var BaseDatasets = []string{
	DatasetDepartments,
	DatasetEmployees,
	DatasetProjects,
	DatasetProjectEmployees,
	DatasetTransactions,
	DatasetMarketingCampaigns,
	DatasetTasks,
	DatasetInventory,
}

// SchemaFor returns the catalog schema of name; unknown datasets have none.
func SchemaFor(name string) dataframe.Schema {
	return Catalog[name]
}
