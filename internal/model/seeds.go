package model

// Default seed data used when a local collection has never been persisted
// or its stored value cannot be parsed.

// DefaultPersonnel returns the built-in personnel roster.
func DefaultPersonnel() []Personnel {
	return []Personnel{
		{ID: "per-1", Name: "Miguel Santos", Role: "Site Engineer", Phone: "+63 917 555 0101", Email: "miguel.santos@example.com", DailyRate: 1800, Status: "active"},
		{ID: "per-2", Name: "Ana Reyes", Role: "Foreman", Phone: "+63 917 555 0102", Email: "ana.reyes@example.com", DailyRate: 1200, Status: "active"},
		{ID: "per-3", Name: "Jose Cruz", Role: "Mason", Phone: "+63 917 555 0103", Email: "jose.cruz@example.com", DailyRate: 800, Status: "active"},
	}
}

// DefaultMaterials returns the built-in materials inventory.
func DefaultMaterials() []Material {
	return []Material{
		{ID: "mat-1", Name: "Portland Cement", Unit: "bag", Quantity: 250, UnitPrice: 260, Supplier: "CityMix Supply"},
		{ID: "mat-2", Name: "Deformed Rebar 12mm", Unit: "pc", Quantity: 400, UnitPrice: 185, Supplier: "SteelWorks Inc"},
		{ID: "mat-3", Name: "Washed Sand", Unit: "cu.m", Quantity: 30, UnitPrice: 1100, Supplier: "Riverside Aggregates"},
	}
}

// DefaultTransactions returns the built-in finance ledger.
func DefaultTransactions() []Transaction {
	return []Transaction{
		{ID: "txn-1", ProjectName: "Riverside Apartments", Kind: "income", Category: "client-payment", Amount: 500000, Date: "2024-01-15", Note: "Mobilization payment"},
		{ID: "txn-2", ProjectName: "Riverside Apartments", Kind: "expense", Category: "materials", Amount: 120000, Date: "2024-01-20", Note: "Cement and rebar"},
	}
}

// DefaultLabTests returns the built-in lab test records.
func DefaultLabTests() []LabTest {
	return []LabTest{
		{ID: "lab-1", Sample: "Concrete cylinder A-3", TestType: "compressive-strength", Result: "28.4 MPa", Passed: true, TestedAt: "2024-02-02", Technician: "R. Dela Cruz"},
	}
}

// DefaultListings returns the built-in marketplace listings.
func DefaultListings() []Listing {
	return []Listing{
		{ID: "lst-1", Title: "Used concrete mixer, one bagger", Description: "Runs well, minor rust", Price: 35000, Category: "equipment", Contact: "+63 917 555 0200"},
	}
}

// DefaultSiteTasks returns the built-in site task list.
func DefaultSiteTasks() []SiteTask {
	return []SiteTask{
		{ID: "stk-1", Title: "Pour footing F-2", ProjectName: "Riverside Apartments", AssignedTo: "Ana Reyes", DueDate: "2024-02-10"},
		{ID: "stk-2", Title: "Rebar inspection, 2nd floor slab", ProjectName: "Riverside Apartments", AssignedTo: "Miguel Santos", DueDate: "2024-02-12"},
	}
}
