package payment

import (
	"context"
	"testing"

	"github.com/omise/omise-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growshare-backend/internal/domain"
)

func TestToChargeEvent(t *testing.T) {
	t.Run("ChargeComplete", func(t *testing.T) {
		ev := &omise.Event{
			Key: EventChargeComplete,
			Data: map[string]interface{}{
				"object":   "charge",
				"id":       "chrg_test_1",
				"amount":   12500,
				"currency": "usd",
				"status":   "successful",
				"metadata": map[string]interface{}{"booking_id": "b1"},
			},
		}
		ev.ID = "evnt_1"

		out, err := toChargeEvent(ev)
		require.NoError(t, err)
		assert.Equal(t, "evnt_1", out.ID)
		require.NotNil(t, out.Charge)
		assert.Equal(t, "chrg_test_1", out.Charge.ID)
		assert.Equal(t, "b1", out.Charge.BookingID)
		assert.Equal(t, int64(12500), out.Charge.Amount)
		assert.Equal(t, ChargeSuccessful, out.Charge.Status)
	})

	t.Run("OtherEventCarriesNoCharge", func(t *testing.T) {
		out, err := toChargeEvent(&omise.Event{Key: "customer.create"})
		require.NoError(t, err)
		assert.Nil(t, out.Charge)
	})
}

func TestToCharge_FailureReason(t *testing.T) {
	code := "insufficient_fund"
	ch := &omise.Charge{Status: "failed", FailureCode: &code}
	c := toCharge(ch)
	assert.Equal(t, ChargeFailed, c.Status)
	assert.Equal(t, "insufficient_fund", c.FailureReason)
	assert.Empty(t, c.BookingID)
}

func TestCreateCharge_RejectsIncompleteRequest(t *testing.T) {
	g := &omiseGateway{}
	_, err := g.CreateCharge(context.Background(), ChargeRequest{BookingID: "b1", Amount: 0, Currency: "usd", CardToken: "tokn_1"})
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
