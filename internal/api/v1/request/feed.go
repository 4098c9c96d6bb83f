// Package request holds the API's inbound JSON shapes. FeedRequest accepts
// the field-name aliases the original client integrations send
// (SELF_ID/user_id, excluded_ids/LAST_IDS/videos_excluidos, MAX_SIZE/size)
// instead of forcing every caller onto one canonical name.
package request

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	defaultFeedSize = 20
	maxFeedSize     = 100
)

// FeedRequest is the body accepted by /total, /discover and /flow.
// Malformed or missing fields never fail the request: per the error
// taxonomy, a bad excluded list is recovered locally as an empty one.
type FeedRequest struct {
	UserID      uint
	SessionID   string
	ExcludedIDs []uint
	Size        int
}

func (r *FeedRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		SelfID          *uint           `json:"SELF_ID"`
		UserID          *uint           `json:"user_id"`
		SessionID       string          `json:"session_id"`
		ExcludedIDs     json.RawMessage `json:"excluded_ids"`
		LastIDs         json.RawMessage `json:"LAST_IDS"`
		VideosExcluidos json.RawMessage `json:"videos_excluidos"`
		MaxSize         *int            `json:"MAX_SIZE"`
		Size            *int            `json:"size"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.SelfID != nil:
		r.UserID = *raw.SelfID
	case raw.UserID != nil:
		r.UserID = *raw.UserID
	}
	r.SessionID = raw.SessionID

	for _, candidate := range []json.RawMessage{raw.ExcludedIDs, raw.LastIDs, raw.VideosExcluidos} {
		if len(candidate) == 0 {
			continue
		}
		if ids, ok := parseExcludedIDs(candidate); ok {
			r.ExcludedIDs = ids
			break
		}
	}

	size := defaultFeedSize
	if raw.MaxSize != nil {
		size = *raw.MaxSize
	} else if raw.Size != nil {
		size = *raw.Size
	}
	if size <= 0 {
		size = defaultFeedSize
	}
	if size > maxFeedSize {
		size = maxFeedSize
	}
	r.Size = size

	return nil
}

// parseExcludedIDs accepts either a JSON array of ints or a string of
// comma-separated ints, matching the two shapes the original callers send.
func parseExcludedIDs(raw json.RawMessage) ([]uint, bool) {
	var asInts []uint
	if err := json.Unmarshal(raw, &asInts); err == nil {
		return asInts, true
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		return nil, false
	}
	asString = strings.TrimSpace(asString)
	if asString == "" {
		return []uint{}, true
	}

	ids := make([]uint, 0, strings.Count(asString, ",")+1)
	for _, part := range strings.Split(asString, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids, true
}

// ExcludedIDSet returns the parsed excluded ids as a membership set, the
// shape the assembler works with.
func (r *FeedRequest) ExcludedIDSet() map[uint]bool {
	set := make(map[uint]bool, len(r.ExcludedIDs))
	for _, id := range r.ExcludedIDs {
		set[id] = true
	}
	return set
}
