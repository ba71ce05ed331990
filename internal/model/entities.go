package model

// Personnel represents a worker or staff member assigned to site work.
type Personnel struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	DailyRate float64 `json:"dailyRate"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

func (p Personnel) EntityID() string { return p.ID }

func (p Personnel) WithEntityID(id string) Personnel {
	p.ID = id
	return p
}

// Material represents a stocked construction material.
type Material struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Supplier  string  `json:"supplier"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

func (m Material) EntityID() string { return m.ID }

func (m Material) WithEntityID(id string) Material {
	m.ID = id
	return m
}

// Transaction represents a finance ledger entry (income or expense).
type Transaction struct {
	ID          string  `json:"id"`
	ProjectName string  `json:"projectName"`
	Kind        string  `json:"kind"` // "income" or "expense"
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Note        string  `json:"note"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

func (t Transaction) EntityID() string { return t.ID }

func (t Transaction) WithEntityID(id string) Transaction {
	t.ID = id
	return t
}

// LabTest represents a materials laboratory test record.
type LabTest struct {
	ID         string `json:"id"`
	Sample     string `json:"sample"`
	TestType   string `json:"testType"`
	Result     string `json:"result"`
	Passed     bool   `json:"passed"`
	TestedAt   string `json:"testedAt"`
	Technician string `json:"technician"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

func (l LabTest) EntityID() string { return l.ID }

func (l LabTest) WithEntityID(id string) LabTest {
	l.ID = id
	return l
}

// Listing represents a marketplace listing for surplus equipment or stock.
type Listing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Contact     string  `json:"contact"`
	Sold        bool    `json:"sold"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

func (l Listing) EntityID() string { return l.ID }

func (l Listing) WithEntityID(id string) Listing {
	l.ID = id
	return l
}

// SiteTask represents a unit of on-site work.
type SiteTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ProjectName string `json:"projectName"`
	AssignedTo  string `json:"assignedTo"`
	DueDate     string `json:"dueDate"`
	Done        bool   `json:"done"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func (s SiteTask) EntityID() string { return s.ID }

func (s SiteTask) WithEntityID(id string) SiteTask {
	s.ID = id
	return s
}
