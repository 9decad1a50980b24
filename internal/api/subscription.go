package api

import (
	"context"
	"net/url"
	"strconv"
)

// Subscription fetches the quota and plan of userID. A timestamp query
// parameter defeats intermediate caches.
func (c *Client) Subscription(ctx context.Context, userID string) (*SubscriptionInfo, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	q := url.Values{"t": {strconv.FormatInt(c.now().UnixMilli(), 10)}}
	var out SubscriptionInfo
	if err := c.getJSON(ctx, "fetch subscription", "/user/subscription/"+pathID(userID), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Subscribe requests activation of plan for userID.
func (c *Client) Subscribe(ctx context.Context, userID, plan string) (*SubscribeResponse, error) {
	var out SubscribeResponse
	req := SubscribeRequest{UserID: userID, Plan: plan}
	if err := c.postJSON(ctx, "subscribe", "/user/subscribe", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPaymentProof uploads a UPI payment screenshot or receipt for manual
// verification.
func (c *Client) UploadPaymentProof(ctx context.Context, p PaymentProof) (*PaymentProofResponse, error) {
	name := p.FileName
	if name == "" {
		name = "payment-proof"
	}
	fields := []formField{
		{"userId", p.UserID},
		{"plan", p.Plan},
		{"transactionId", p.TransactionID},
	}

	var out PaymentProofResponse
	file := &formFile{field: "paymentProof", name: name, r: p.File}
	if err := c.postMultipart(ctx, "upload payment proof", "/user/payment_proof", file, fields, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
