package websocket

import (
	"fmt"
	"sort"
	"strings"
)

// Topics is the set of entity types a client listens to
type Topics map[EntityType]bool

var knownTopics = []EntityType{EntityTypeSnapshot, EntityTypeMarketRates, EntityTypeReport}

// AllTopics subscribes to every household and market event
func AllTopics() Topics {
	t := make(Topics, len(knownTopics))
	for _, e := range knownTopics {
		t[e] = true
	}
	return t
}

// ParseTopics reads a comma-separated list such as "snapshot,report".
// An empty list means every topic.
func ParseTopics(raw string) (Topics, error) {
	if strings.TrimSpace(raw) == "" {
		return AllTopics(), nil
	}
	t := make(Topics)
	for _, part := range strings.Split(raw, ",") {
		name := EntityType(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if err := checkTopic(name); err != nil {
			return nil, err
		}
		t[name] = true
	}
	if len(t) == 0 {
		return AllTopics(), nil
	}
	return t, nil
}

// List returns the topics in a stable order
func (t Topics) List() []EntityType {
	out := make([]EntityType, 0, len(t))
	for e, on := range t {
		if on {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func checkTopic(e EntityType) error {
	for _, k := range knownTopics {
		if e == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTopic, e)
}

// ControlMessage is the only frame a client may send. It changes the
// client's topics, applying Unsubscribe after Subscribe.
type ControlMessage struct {
	Subscribe   []EntityType `json:"subscribe,omitempty"`
	Unsubscribe []EntityType `json:"unsubscribe,omitempty"`
}

// apply returns the topics after msg, leaving t untouched on error
func (t Topics) apply(msg ControlMessage) (Topics, error) {
	next := make(Topics, len(t))
	for e, on := range t {
		next[e] = on
	}
	for _, e := range msg.Subscribe {
		if err := checkTopic(e); err != nil {
			return nil, err
		}
		next[e] = true
	}
	for _, e := range msg.Unsubscribe {
		if err := checkTopic(e); err != nil {
			return nil, err
		}
		delete(next, e)
	}
	return next, nil
}
