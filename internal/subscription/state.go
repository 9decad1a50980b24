package subscription

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Status is the user's plan.
type Status string

const (
	Free      Status = "free"
	Monthly   Status = "monthly"
	Quarterly Status = "quarterly"
	Yearly    Status = "yearly"
)

// DefaultFreeQuota is the free-tier guess used before the first refresh.
const DefaultFreeQuota = 10

// ParseStatus normalizes a server status string. Empty means free.
func ParseStatus(s string) Status {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Free
	}
	return Status(s)
}

// State is a snapshot of the user's quota and plan.
type State struct {
	RemainingFree int
	Status        Status
	Expiry        *time.Time

	// CanGenerate is derived: a paid plan or at least one free generation.
	CanGenerate bool
}

// DefaultState is the free-tier guess used until the server answers.
func DefaultState() State {
	return newState(DefaultFreeQuota, Free, nil)
}

func newState(remaining int, status Status, expiry *time.Time) State {
	if remaining < 0 {
		remaining = 0
	}
	return State{
		RemainingFree: remaining,
		Status:        status,
		Expiry:        expiry,
		CanGenerate:   status != Free || remaining > 0,
	}
}

// Label renders the state for headers and status lines.
func (s State) Label() string {
	if s.Status != Free {
		if s.Expiry != nil {
			return fmt.Sprintf("%s plan until %s", s.Status, s.Expiry.Format("2 Jan 2006"))
		}
		return fmt.Sprintf("%s plan", s.Status)
	}
	return fmt.Sprintf("%d free left", s.RemainingFree)
}

// Plan is a paid subscription tier.
type Plan struct {
	ID       Status
	Name     string
	PriceINR int
	Period   string
	Features []string
}

var plans = []Plan{
	{
		ID: Monthly, Name: "Monthly", PriceINR: 100, Period: "month",
		Features: []string{"Unlimited quiz generations", "Priority support", "Access to all features", "Cancel anytime"},
	},
	{
		ID: Quarterly, Name: "Quarterly", PriceINR: 250, Period: "quarter",
		Features: []string{"Unlimited quiz generations", "Priority support", "Access to all features", "Save 17% compared to monthly"},
	},
	{
		ID: Yearly, Name: "Yearly", PriceINR: 899, Period: "year",
		Features: []string{"Unlimited quiz generations", "Priority support", "Access to all features", "Save 25% compared to monthly"},
	},
}

// Plans returns the paid plan catalog.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// LookupPlan finds a plan by id, case-insensitively.
func LookupPlan(id string) (Plan, bool) {
	st := ParseStatus(id)
	for _, p := range plans {
		if p.ID == st {
			return p, true
		}
	}
	return Plan{}, false
}

// Payee identifies the UPI account that receives plan payments.
type Payee struct {
	ID   string
	Name string
}

// UPILink builds the upi://pay deep link for paying for plan.
func (p Payee) UPILink(plan Plan) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%d.00&cu=INR",
		p.ID, url.PathEscape(p.Name), plan.PriceINR)
}
