package builder_test

import (
	"fmt"

	"github.com/locvowork/company_dashboard/internal/repository/builder"
)

// Example_loadDataset shows the query the SQL loader issues for a dataset.
func Example_loadDataset() {
	sql, args := builder.NewSQLBuilder().
		Select("*").
		From(builder.QuoteIdent("employees")).
		OrderBy("1").
		Build()

	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: SELECT * FROM "employees" ORDER BY 1
	// Args: []
}

// Example_seedBatch shows a batched insert as written by the seeder.
func Example_seedBatch() {
	sql, args := builder.NewSQLBuilder().
		WithPlaceholder(builder.Question).
		Insert("departments", "id", "name").
		Values(1, "Engineering").
		Values(2, "Finance").
		Build()

	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: INSERT INTO departments (id, name) VALUES (?, ?), (?, ?)
	// Args: [1 Engineering 2 Finance]
}
