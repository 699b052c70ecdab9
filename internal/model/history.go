package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// CallTag names the remote operation a HistoryItem records.
type CallTag string

const (
	TagPostMessage CallTag = "post-message"
	TagSetStatus   CallTag = "set-status"
)

// Call is a replayable remote operation together with its parameters.
// The set of implementations is closed; see PostMessage and SetStatus.
type Call interface {
	Tag() CallTag
	Summary() string
	isCall()
}

// PostMessage is the payload of chat.postMessage.
type PostMessage struct {
	Channel string `json:"channel" yaml:"channel"`
	Text    string `json:"text" yaml:"text"`
}

func (PostMessage) Tag() CallTag { return TagPostMessage }
func (PostMessage) isCall()      {}

func (c PostMessage) Summary() string {
	return fmt.Sprintf("%s: %s", c.Channel, c.Text)
}

// SetStatus is the profile payload of users.profile.set.
type SetStatus struct {
	StatusText       string `json:"status_text" yaml:"status_text"`
	StatusEmoji      string `json:"status_emoji" yaml:"status_emoji"`
	StatusExpiration int64  `json:"status_expiration" yaml:"status_expiration"`
}

func (SetStatus) Tag() CallTag { return TagSetStatus }
func (SetStatus) isCall()      {}

func (c SetStatus) Summary() string {
	if c.StatusEmoji == "" {
		return c.StatusText
	}

	return fmt.Sprintf("%s %s", c.StatusEmoji, c.StatusText)
}

// UnknownCall holds a stored record whose tag this build does not know.
// It survives a list/add round trip but can never be dispatched.
type UnknownCall struct {
	API  CallTag         `json:"api" yaml:"api"`
	Data json.RawMessage `json:"data" yaml:"-"`
}

func (c UnknownCall) Tag() CallTag { return c.API }
func (UnknownCall) isCall()        {}

func (c UnknownCall) Summary() string {
	return fmt.Sprintf("unsupported call %q", c.API)
}

// DecodeCall builds the Call for tag from its JSON payload.
func DecodeCall(tag CallTag, data json.RawMessage) (Call, error) {
	switch tag {
	case TagPostMessage:
		var c PostMessage
		if err := unmarshalData(data, &c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", tag, err)
		}

		return c, nil
	case TagSetStatus:
		var c SetStatus
		if err := unmarshalData(data, &c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", tag, err)
		}

		return c, nil
	default:
		return UnknownCall{API: tag, Data: append(json.RawMessage(nil), data...)}, nil
	}
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	return json.Unmarshal(data, v)
}

// HistoryItem records one call made on behalf of a user.
type HistoryItem struct {
	User string
	Call Call
}

type historyItemJSON struct {
	User string          `json:"user"`
	API  CallTag         `json:"api"`
	Data json.RawMessage `json:"data"`
}

// API returns the tag of the recorded call.
func (h HistoryItem) API() CallTag {
	if h.Call == nil {
		return ""
	}

	return h.Call.Tag()
}

// Data returns the JSON payload of the recorded call.
func (h HistoryItem) Data() (json.RawMessage, error) {
	switch c := h.Call.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case UnknownCall:
		if len(c.Data) == 0 {
			return json.RawMessage("null"), nil
		}

		return c.Data, nil
	default:
		return json.Marshal(c)
	}
}

func (h HistoryItem) MarshalJSON() ([]byte, error) {
	data, err := h.Data()
	if err != nil {
		return nil, err
	}

	return json.Marshal(historyItemJSON{User: h.User, API: h.API(), Data: data})
}

func (h *HistoryItem) UnmarshalJSON(b []byte) error {
	var raw historyItemJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	call, err := DecodeCall(raw.API, raw.Data)
	if err != nil {
		return err
	}

	h.User = raw.User
	h.Call = call

	return nil
}

// MarshalYAML renders the item with the same user/api/data layout as JSON.
func (h HistoryItem) MarshalYAML() (any, error) {
	data, err := h.Data()
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	return map[string]any{
		"user": h.User,
		"api":  string(h.API()),
		"data": payload,
	}, nil
}

// ContentKey identifies the item by its api tag and a canonical form of its
// payload. Two items with equal keys are duplicates regardless of the field
// order their payloads were written with.
func (h HistoryItem) ContentKey() (string, error) {
	data, err := h.Data()
	if err != nil {
		return "", err
	}

	canonical, err := canonicalJSON(data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s:%016x", h.API(), xxhash.Sum64(canonical)), nil
}

// canonicalJSON re-encodes data with object keys sorted and no whitespace.
func canonicalJSON(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("canonicalize payload: %w", err)
	}

	return json.Marshal(v)
}
