package signer

import (
	"encoding/json"
)

// SignState state of a sign request
type SignState string

// sign request states, all but pending are terminal
const (
	StatePending   SignState = "pending"
	StateSigned    SignState = "signed"
	StateCancelled SignState = "cancelled"
	StateExpired   SignState = "expired"
)

// IsTerminal is terminal state
func (s SignState) IsTerminal() bool {
	return s == StateSigned || s == StateCancelled || s == StateExpired
}

// SignRequest a transaction waiting for the wallet owner's signature
type SignRequest struct {
	ID      string          `json:"id"`
	NextURL string          `json:"nextUrl"`
	TxJSON  json.RawMessage `json:"txJson,omitempty"`
	State   SignState       `json:"state"`

	// set when signed, passed to submission as is
	SignedPayload string `json:"signedPayload,omitempty"`
	TxHash        string `json:"txHash,omitempty"`
	Signer        string `json:"signer,omitempty"`

	// LastError is set when the signer could not be reached on the last poll
	LastError string `json:"lastError,omitempty"`
}

func (r *SignRequest) clone() *SignRequest {
	dup := *r
	return &dup
}

type createPayloadArgs struct {
	TxJSON     json.RawMessage `json:"txjson"`
	Options    payloadOptions  `json:"options"`
	CustomMeta *customMeta     `json:"custom_meta,omitempty"`
}

type payloadOptions struct {
	Submit bool `json:"submit"`
}

type customMeta struct {
	Instruction string `json:"instruction,omitempty"`
}

type createPayloadResult struct {
	UUID string `json:"uuid"`
	Next struct {
		Always string `json:"always"`
	} `json:"next"`
}

type payloadStatus struct {
	Meta struct {
		Exists    bool   `json:"exists"`
		UUID      string `json:"uuid"`
		Resolved  bool   `json:"resolved"`
		Signed    bool   `json:"signed"`
		Cancelled bool   `json:"cancelled"`
		Expired   bool   `json:"expired"`
	} `json:"meta"`
	Payload struct {
		RequestJSON json.RawMessage `json:"request_json"`
	} `json:"payload"`
	Response struct {
		Hex     string `json:"hex"`
		TxID    string `json:"txid"`
		Account string `json:"account"`
	} `json:"response"`
	Next struct {
		Always string `json:"always"`
	} `json:"next"`
}

func (s *payloadStatus) state() SignState {
	meta := &s.Meta
	switch {
	case meta.Signed:
		return StateSigned
	case meta.Cancelled:
		return StateCancelled
	case meta.Expired:
		return StateExpired
	case meta.Resolved:
		// resolved without signature means the owner declined
		return StateCancelled
	default:
		return StatePending
	}
}
