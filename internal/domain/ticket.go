package domain

import "time"

// Ticket is the support request collected by the intake form.
type Ticket struct {
	FullName         string
	CompanyName      string
	Email            string
	Phone            string
	Notes            string
	ScreenshotBase64 string
	SubmissionDate   time.Time
	ComputerName     string
	UserName         string
}

// ProxyInfo identifies the person actually affected when a ticket is filed on
// someone else's behalf.
type ProxyInfo struct {
	ActualUserName  string
	ActualUserEmail string
	ActualUserPhone string
}

// Complete reports whether every contact field is filled.
func (p ProxyInfo) Complete() bool {
	return p.ActualUserName != "" && p.ActualUserEmail != "" && p.ActualUserPhone != ""
}
