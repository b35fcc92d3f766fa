package drag

import (
	"encoding/json"
	"strconv"

	"github.com/grovetools/tabs/errors"
)

// Keys of the transfer payload written at drag start.
const (
	KeyIndex    = "tabs/tab-index"
	KeyCategory = "tabs/tab-category"
	KeyJSON     = "tabs/tab-json"
	KeyToken    = "tabs/tab-drag-tag"
)

// Transfer is the payload carried from the drag source to drop targets,
// modelled on a drag-and-drop data transfer: typed string fields keyed by
// media-type-like names. Hosts that move a drag between processes pass
// Encode() output and rebuild it with DecodeTransfer.
type Transfer map[string]string

// Get returns a field, or "" when absent.
func (t Transfer) Get(key string) string {
	if t == nil {
		return ""
	}
	return t[key]
}

// Token returns the drag token.
func (t Transfer) Token() string {
	return t.Get(KeyToken)
}

// Category returns the source strip's category tag.
func (t Transfer) Category() string {
	return t.Get(KeyCategory)
}

// Index returns the source index. ok is false when the field is absent or
// not an integer.
func (t Transfer) Index() (int, bool) {
	raw := t.Get(KeyIndex)
	if raw == "" {
		return 0, false
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Payload returns the serialized item. ok is false when the field is absent
// or not valid JSON.
func (t Transfer) Payload() (json.RawMessage, bool) {
	raw := t.Get(KeyJSON)
	if raw == "" || !json.Valid([]byte(raw)) {
		return nil, false
	}
	// Each caller gets its own copy.
	return json.RawMessage([]byte(raw)), true
}

// Validate reports the first missing or malformed field.
func (t Transfer) Validate() error {
	if t.Token() == "" {
		return errors.InvalidTransfer(KeyToken)
	}
	if t.Category() == "" {
		return errors.InvalidTransfer(KeyCategory)
	}
	if _, ok := t.Index(); !ok {
		return errors.InvalidTransfer(KeyIndex)
	}
	if _, ok := t.Payload(); !ok {
		return errors.InvalidTransfer(KeyJSON)
	}
	return nil
}

// Encode serializes the transfer to a single string.
func (t Transfer) Encode() (string, error) {
	data, err := json.Marshal(map[string]string(t))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeTransfer parses Encode output.
func DecodeTransfer(raw string) (Transfer, error) {
	var t Transfer
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidTransfer, "failed to decode transfer payload")
	}
	return t, nil
}
