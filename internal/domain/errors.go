package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderQuery means the forecast provider answered but reported failure
	// or returned no forecast for the area.
	ErrProviderQuery = errors.New("provider query failed")

	// ErrTransport covers network failures, unexpected HTTP status codes and
	// undecodable responses from either provider.
	ErrTransport = errors.New("transport failure")

	// ErrAuth means the messaging provider returned no access token.
	ErrAuth = errors.New("access token unavailable")

	// ErrDelivery means the message post returned a non-zero errcode.
	ErrDelivery = errors.New("message delivery failed")
)

// ProviderQueryError carries the provider's reported reason for a failed area.
type ProviderQueryError struct {
	Area   string
	Status string
	Info   string
}

func (e *ProviderQueryError) Error() string {
	return fmt.Sprintf("forecast query for %s failed: status=%s info=%s", e.Area, e.Status, e.Info)
}

func (e *ProviderQueryError) Is(target error) bool { return target == ErrProviderQuery }

// DeliveryError carries the messaging provider's error code and raw response.
type DeliveryError struct {
	Code    int
	Message string
	Raw     string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("send message: errcode=%d errmsg=%s", e.Code, e.Message)
}

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }
