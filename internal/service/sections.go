package service

import (
	"github.com/shopspring/decimal"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

var statusOrder = []string{domain.StatusCompleted, domain.StatusInProgress, domain.StatusPlanned}

var departmentOrder = []string{
	domain.DepartmentEngineering,
	domain.DepartmentMarketing,
	domain.DepartmentSales,
	domain.DepartmentHumanResources,
	domain.DepartmentFinance,
}

// department name -> short label used on cards
var departmentShort = map[string]string{
	domain.DepartmentEngineering:    "Engineering",
	domain.DepartmentMarketing:      "Marketing",
	domain.DepartmentSales:          "Sales",
	domain.DepartmentHumanResources: "HR",
	domain.DepartmentFinance:        "Finance",
}

func buildEmployees(b *sectionBuilder) error {
	b.step("Number of Employees per Department", domain.DatasetEmployeesDepartment)
	staff, err := b.load(domain.DatasetEmployeesDepartment)
	if err != nil {
		return err
	}
	headcount, err := dataframe.CountBy(staff, "name")
	if err != nil {
		return b.fail(err)
	}
	b.chart("employees_per_department", "Number of Employees per Department", domain.ChartBar, "Department", "Employees", headcount)

	labels := make(map[string]string, len(departmentShort))
	for name, short := range departmentShort {
		labels[name] = "Number of " + short + " Employees"
	}
	if err := b.lookupCounts(headcount, "Department Headcount", labels, departmentOrder); err != nil {
		return err
	}

	b.step("Average Salary per Department", domain.DatasetEmployeesDepartment)
	avg, err := dataframe.MeanBy(staff, "name", "salary")
	if err != nil {
		return b.fail(err)
	}
	b.chart("average_salary_per_department", "Average Salary per Department", domain.ChartBar, "Department", "Salary", avg)
	for _, name := range []string{
		domain.DepartmentEngineering,
		domain.DepartmentFinance,
		domain.DepartmentHumanResources,
		domain.DepartmentMarketing,
		domain.DepartmentSales,
	} {
		label := "Average " + departmentShort[name] + " Salary"
		b.metric = label
		v, err := b.lookup(avg, name)
		if err != nil {
			return err
		}
		b.money("Average Salary Information", label, v)
	}

	b.step("Highest Salary Employee", domain.DatasetEmployeesDepartment)
	top, err := dataframe.ArgMax(staff, "salary")
	if err != nil {
		return b.fail(err)
	}
	for _, f := range []struct{ label, field string }{
		{"Name", "full_name"},
		{"Position", "position"},
		{"Department", "name"},
	} {
		v, err := b.rowText(top, f.field)
		if err != nil {
			return err
		}
		b.text("Highest Salary Employee", f.label, v)
	}

	b.step("Number of New Hires", domain.DatasetEmployees)
	employees, err := b.load(domain.DatasetEmployees)
	if err != nil {
		return err
	}
	cutoff := b.svc.opts.AsOf.AddDate(-1, 0, 0)
	recent := employees.Filter(func(r dataframe.Row) bool {
		v, err := r.Get("hire_date")
		if err != nil {
			return false
		}
		hired, ok := v.Time()
		return ok && hired.After(cutoff)
	})
	b.count("New Hires in Last Year", "Number of New Hires", decimal.NewFromInt(int64(recent.Len())))
	return nil
}

func buildProjects(b *sectionBuilder) error {
	b.step("Project Status", domain.DatasetProjectAssignments)
	assignments, err := b.load(domain.DatasetProjectAssignments)
	if err != nil {
		return err
	}
	status, err := dataframe.CountBy(assignments, "status")
	if err != nil {
		return b.fail(err)
	}
	byCount := status.SortedByValue()
	b.chart("project_status", "Project Status", domain.ChartBar, "Status", "Count", byCount)
	if err := b.lookupCounts(status, "Project Status", map[string]string{
		domain.StatusCompleted:  "Number of Completed Projects",
		domain.StatusInProgress: "Number of In Progress Projects",
		domain.StatusPlanned:    "Number of Planned Projects",
	}, statusOrder); err != nil {
		return err
	}

	b.step("Highest Budget Project", domain.DatasetProjects)
	projects, err := b.load(domain.DatasetProjects)
	if err != nil {
		return err
	}
	top, err := dataframe.ArgMax(projects, "budget")
	if err != nil {
		return b.fail(err)
	}
	if err := b.recordCard("Highest Budget Project", top, "client_id", "budget"); err != nil {
		return err
	}

	b.step("Employees per Project", domain.DatasetProjectAssignments)
	staffed, err := dataframe.NUniqueBy(assignments, "project_name", "employee_id")
	if err != nil {
		return b.fail(err)
	}
	b.chart("employees_per_project", "Employees per Project", domain.ChartBar, "Project", "Employees", staffed)
	b.chart("project_status_share", "Share of Projects by Status", domain.ChartPie, "Status", "Count", byCount)
	return nil
}

func buildTransactions(b *sectionBuilder) error {
	b.step("Amount by Type", domain.DatasetTransactionProject)
	joined, err := b.load(domain.DatasetTransactionProject)
	if err != nil {
		return err
	}
	remapped, err := joined.Replace("type", domain.TransactionTypeRemap)
	if err != nil {
		return b.fail(err)
	}
	totals, err := dataframe.SumBy(remapped, "type", "amount")
	if err != nil {
		return b.fail(err)
	}
	b.chart("amount_by_type", "Income / Expense", domain.ChartBar, "Type", "Amount", totals)

	for _, t := range []struct{ category, label string }{
		{domain.TransactionIncome, "Total Income"},
		{domain.TransactionExpense, "Total Expense"},
	} {
		b.metric = t.label
		v, err := b.lookup(totals, t.category)
		if err != nil {
			return err
		}
		b.money("Totals", t.label, v)
	}

	b.step("Highest Transaction", domain.DatasetTransactionProject)
	top, err := dataframe.ArgMax(remapped, "amount")
	if err != nil {
		return b.fail(err)
	}
	return b.recordCard("Highest Transaction", top, "client_id_x", "budget")
}

func buildMarketing(b *sectionBuilder) error {
	b.step("Campaign Status", domain.DatasetMarketingCampaigns)
	campaigns, err := b.load(domain.DatasetMarketingCampaigns)
	if err != nil {
		return err
	}
	status, err := dataframe.CountBy(campaigns, "status")
	if err != nil {
		return b.fail(err)
	}
	if err := b.lookupCounts(status, "Campaign Status", map[string]string{
		domain.StatusCompleted:  "Number of Completed",
		domain.StatusInProgress: "Number of In Progress",
		domain.StatusPlanned:    "Number of Planned",
	}, statusOrder); err != nil {
		return err
	}

	b.step("Campaigns per Channel", domain.DatasetMarketingCampaigns)
	channels, err := dataframe.CountBy(campaigns, "channel")
	if err != nil {
		return b.fail(err)
	}
	b.chart("campaigns_per_channel", "Campaigns per Channel", domain.ChartBar, "Channel", "Count", channels.SortedByValue())
	return b.lookupCounts(channels, "Top Channels", map[string]string{
		domain.ChannelEmail:       domain.ChannelEmail,
		domain.ChannelSocialMedia: domain.ChannelSocialMedia,
	}, []string{domain.ChannelEmail, domain.ChannelSocialMedia})
}

func buildTasks(b *sectionBuilder) error {
	b.step("Task Status", domain.DatasetTasks)
	tasks, err := b.load(domain.DatasetTasks)
	if err != nil {
		return err
	}
	status, err := dataframe.CountBy(tasks, "status")
	if err != nil {
		return b.fail(err)
	}
	b.chart("task_status", "Tasks by Status", domain.ChartBar, "Status", "Count", status.SortedByValue())
	return b.lookupCounts(status, "Task Status", map[string]string{
		domain.StatusCompleted:  "Number of Completed Tasks",
		domain.StatusInProgress: "Number of In Progress Tasks",
		domain.StatusPlanned:    "Number of Planned Tasks",
	}, statusOrder)
}

// recordCard renders the project name, client and budget of an argmax row.
func (b *sectionBuilder) recordCard(group string, r dataframe.Row, clientField, budgetField string) error {
	name, err := b.rowText(r, "project_name")
	if err != nil {
		return err
	}
	client, err := b.rowText(r, clientField)
	if err != nil {
		return err
	}
	budget, err := b.rowNumber(r, budgetField)
	if err != nil {
		return err
	}
	b.text(group, "Project Name", name)
	b.text(group, "Client ID", client)
	b.money(group, "Budget", budget)
	return nil
}
