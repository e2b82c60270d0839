package models

// Role classes. RoleTitle on the user is the free-form trade title; Role is
// the permission class.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Project lifecycle statuses.
const (
	ProjectInProgress = "In Progress"
	ProjectCompleted  = "Completed"
	ProjectOnHold     = "On Hold"
)

// Task workflow columns.
const (
	TaskToDo       = "To Do"
	TaskInProgress = "In Progress"
	TaskDone       = "Done"
)

// Estimate lifecycle statuses.
const (
	EstimateDraft    = "Draft"
	EstimateApproved = "Approved"
	EstimateRejected = "Rejected"
)

// Invoice lifecycle statuses.
const (
	InvoiceDraft   = "Draft"
	InvoiceSent    = "Sent"
	InvoicePaid    = "Paid"
	InvoiceOverdue = "Overdue"
)

// Cost categories shared by estimate items and expenses. Labor is valid on
// estimates but not on expenses, where labor cost comes from time logs.
const (
	CategoryLabor         = "Labor"
	CategoryMaterial      = "Material"
	CategorySubcontractor = "Subcontractor"
	CategoryEquipment     = "Equipment"
	CategoryOther         = "Other"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectInProgress, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskToDo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// ValidEstimateStatus reports whether s is a known estimate status.
func ValidEstimateStatus(s string) bool {
	switch s {
	case EstimateDraft, EstimateApproved, EstimateRejected:
		return true
	}
	return false
}

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// ValidCostCategory reports whether s is a known cost category.
func ValidCostCategory(s string) bool {
	switch s {
	case CategoryLabor, CategoryMaterial, CategorySubcontractor, CategoryEquipment, CategoryOther:
		return true
	}
	return false
}

// ValidExpenseCategory reports whether s is a cost category allowed on an
// expense. Labor is excluded: labor actuals come from the time clock.
func ValidExpenseCategory(s string) bool {
	return s != CategoryLabor && ValidCostCategory(s)
}
