package sqlassets

import _ "embed"

//go:embed schema/budgets.sql
var BudgetsSQL string

//go:embed schema/companies.sql
var CompaniesSQL string

//go:embed schema/projects.sql
var ProjectsSQL string

//go:embed schema/products.sql
var ProductsSQL string
