package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreditMatrix(t *testing.T) {
	m := NewCreditMatrix([]CreditCount{
		{Country: "AR", Status: "PENDING", Qty: 5},
		{Country: "AR", Status: "FINISHED", Qty: 2},
		{Country: "PE", Status: "WRITE_OFF", Qty: 1},
		{Country: "BR", Status: "PENDING", Qty: 9},
		{Country: "CL", Status: "LOST", Qty: 9},
	})

	require.Len(t, m, len(Countries))
	for _, c := range Countries {
		require.Len(t, m[c], len(CreditStatuses), "country %s", c)
	}

	assert.EqualValues(t, 5, m["AR"]["PENDING"])
	assert.EqualValues(t, 2, m["AR"]["FINISHED"])
	assert.EqualValues(t, 0, m["AR"]["ACCOUNTED"])
	assert.EqualValues(t, 1, m["PE"]["WRITE_OFF"])
	assert.NotContains(t, m, Country("BR"))
	assert.NotContains(t, m["CL"], CreditStatus("LOST"))

	assert.EqualValues(t, 7, m.Total("AR"))
	assert.EqualValues(t, 0, m.Total("SV"))
}

func TestNewCreditMatrix_Empty(t *testing.T) {
	m := NewCreditMatrix(nil)
	for _, c := range Countries {
		assert.Zero(t, m.Total(c))
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Dominican Republic", Country("DO").Name())
	assert.Equal(t, "XX", Country("XX").Name())
	assert.Equal(t, "Deposit failed", CreditStatus("DEPOSIT_FAIL").Name())
	assert.Equal(t, "NEW", CreditStatus("NEW").Name())
}
