package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	got, err := ParseType(" Debit ")
	require.NoError(t, err)
	assert.Equal(t, TypeDebit, got)

	_, err = ParseType("refund")
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseCategory("GROCERY")
	require.NoError(t, err)
	assert.Equal(t, CategoryGrocery, got)

	_, err = ParseCategory("crypto")
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, -12.5, Transaction{Amount: 12.5, Type: TypeDebit}.SignedAmount())
	assert.Equal(t, 12.5, Transaction{Amount: 12.5, Type: TypeCredit}.SignedAmount())
}

func TestGenerateID(t *testing.T) {
	var tx Transaction
	tx.GenerateID()
	_, err := uuid.Parse(tx.ID)
	require.NoError(t, err)

	keep := Transaction{ID: "tx_1"}
	keep.GenerateID()
	assert.Equal(t, "tx_1", keep.ID)
}
