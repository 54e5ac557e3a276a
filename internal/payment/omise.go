package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
)

const (
	omiseService     = "omise"
	metaBookingIDKey = "booking_id"
)

type omiseGateway struct {
	client *omise.Client
}

func NewOmiseGateway(publicKey, secretKey string) (Gateway, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	c.SetDebug(false)
	return &omiseGateway{client: c}, nil
}

func (g *omiseGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if req.Amount <= 0 || req.CardToken == "" || req.Currency == "" {
		return nil, domain.NewValidationError("amount, currency and card token are required")
	}
	logger.ExternalServiceCall(omiseService, "CreateCharge", "bookingID", req.BookingID, "amount", req.Amount)

	ch := &omise.Charge{}
	err := g.client.Do(ch, &operations.CreateCharge{
		Amount:   req.Amount,
		Currency: req.Currency,
		Card:     req.CardToken,
		Metadata: map[string]interface{}{metaBookingIDKey: req.BookingID},
	})
	logger.ExternalServiceResult(omiseService, "CreateCharge", err, "bookingID", req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}
	return toCharge(ch), nil
}

func (g *omiseGateway) CreateRefund(ctx context.Context, chargeRef string, amount int64) (*domain.Refund, error) {
	logger.ExternalServiceCall(omiseService, "CreateRefund", "chargeRef", chargeRef, "amount", amount)

	rf := &omise.Refund{}
	err := g.client.Do(rf, &operations.CreateRefund{ChargeID: chargeRef, Amount: amount})
	logger.ExternalServiceResult(omiseService, "CreateRefund", err, "chargeRef", chargeRef)
	if err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}
	return &domain.Refund{ID: rf.ID, Amount: rf.Amount, ChargeRef: chargeRef}, nil
}

func (g *omiseGateway) RetrieveChargeEvent(ctx context.Context, eventID string) (*ChargeEvent, error) {
	logger.ExternalServiceCall(omiseService, "RetrieveEvent", "eventID", eventID)

	ev := &omise.Event{}
	err := g.client.Do(ev, &operations.RetrieveEvent{EventID: eventID})
	logger.ExternalServiceResult(omiseService, "RetrieveEvent", err, "eventID", eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnverifiedEvent, err)
	}
	return toChargeEvent(ev)
}

func (g *omiseGateway) PayoutAccountReady(ctx context.Context, recipientID string) (bool, error) {
	logger.ExternalServiceCall(omiseService, "RetrieveRecipient", "recipientID", recipientID)

	rcp := &omise.Recipient{}
	err := g.client.Do(rcp, &operations.RetrieveRecipient{RecipientID: recipientID})
	logger.ExternalServiceResult(omiseService, "RetrieveRecipient", err, "recipientID", recipientID)
	if err != nil {
		return false, fmt.Errorf("retrieve recipient: %w", err)
	}
	return rcp.Verified && rcp.Active, nil
}

func toCharge(ch *omise.Charge) *Charge {
	c := &Charge{
		ID:       ch.ID,
		Amount:   ch.Amount,
		Currency: ch.Currency,
		Status:   ChargeStatus(ch.Status),
	}
	if id, ok := ch.Metadata[metaBookingIDKey].(string); ok {
		c.BookingID = id
	}
	if ch.FailureCode != nil {
		c.FailureReason = *ch.FailureCode
	}
	return c
}

// toChargeEvent decodes the untyped event payload into a charge.
func toChargeEvent(ev *omise.Event) (*ChargeEvent, error) {
	out := &ChargeEvent{ID: ev.ID, Key: ev.Key}
	if ev.Key != EventChargeComplete || ev.Data == nil {
		return out, nil
	}
	raw, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, fmt.Errorf("encode event data: %w", err)
	}
	var ch omise.Charge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, fmt.Errorf("decode charge: %w", err)
	}
	out.Charge = toCharge(&ch)
	return out, nil
}
