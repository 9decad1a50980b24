package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookupPlan(t *testing.T) {
	p, ok := LookupPlan("Quarterly")
	assert.True(t, ok)
	assert.Equal(t, 250, p.PriceINR)

	_, ok = LookupPlan("free")
	assert.False(t, ok)
}

func TestPlansReturnsCopy(t *testing.T) {
	ps := Plans()
	ps[0].PriceINR = 1
	assert.Equal(t, 100, Plans()[0].PriceINR)
}

func TestUPILink(t *testing.T) {
	payee := Payee{ID: "payee@okaxis", Name: "Quiz Team"}
	yearly, _ := LookupPlan("yearly")
	assert.Equal(t, "upi://pay?pa=payee@okaxis&pn=Quiz%20Team&am=899.00&cu=INR", payee.UPILink(yearly))
}

func TestStateLabel(t *testing.T) {
	assert.Equal(t, "3 free left", newState(3, Free, nil).Label())
	assert.Equal(t, "monthly plan", newState(0, Monthly, nil).Label())

	exp := time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "yearly plan until 2 Jan 2027", newState(0, Yearly, &exp).Label())
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, Free, ParseStatus(""))
	assert.Equal(t, Monthly, ParseStatus(" Monthly "))
}
