// Package domain defines notification routing records: rules, filters,
// critical-recipient subscriptions, and the delivery intents the router emits.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Channel is a delivery channel for a notification.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelInApp    Channel = "in_app"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelWhatsApp, ChannelInApp:
		return true
	}
	return false
}

// RecipientType selects how a rule's recipient ID is resolved to users.
type RecipientType string

const (
	RecipientUser RecipientType = "user"
	// RecipientTeam resolves to the active members of the organization the
	// team ID points at. The source data carries project identifiers here,
	// not a dedicated team entity.
	RecipientTeam         RecipientType = "team"
	RecipientOrganization RecipientType = "organization"
)

// Valid reports whether t is a known recipient type.
func (t RecipientType) Valid() bool {
	switch t {
	case RecipientUser, RecipientTeam, RecipientOrganization:
		return true
	}
	return false
}

// FilterValue is one predicate in a rule's filter map: either a single scalar
// that must equal the event field, or a set of which the event field must be
// a member. Stored as JSON (string or string array) in the rules table.
type FilterValue struct {
	Scalar string
	Set    []string
}

// IsSet reports whether the predicate is the set form.
func (v FilterValue) IsSet() bool { return v.Set != nil }

// Matches reports whether the event field value satisfies the predicate.
func (v FilterValue) Matches(field string) bool {
	if v.IsSet() {
		for _, s := range v.Set {
			if s == field {
				return true
			}
		}
		return false
	}
	return v.Scalar == field
}

// MarshalJSON encodes the scalar form as a JSON string and the set form as a
// JSON array of strings.
func (v FilterValue) MarshalJSON() ([]byte, error) {
	if v.IsSet() {
		return json.Marshal(v.Set)
	}
	return json.Marshal(v.Scalar)
}

// UnmarshalJSON accepts a JSON string or array of strings. Anything else is a
// malformed predicate and surfaces as an error rather than being ignored.
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	var scalar string
	if err := json.Unmarshal(data, &scalar); err == nil {
		v.Scalar, v.Set = scalar, nil
		return nil
	}
	var set []string
	if err := json.Unmarshal(data, &set); err == nil {
		if set == nil {
			set = []string{}
		}
		v.Scalar, v.Set = "", set
		return nil
	}
	return fmt.Errorf("filter predicate must be a string or array of strings, got %s", data)
}

// Scalar constructs the scalar predicate form.
func Scalar(s string) FilterValue { return FilterValue{Scalar: s} }

// OneOf constructs the set predicate form.
func OneOf(values ...string) FilterValue { return FilterValue{Set: values} }

// Filters maps event field names to predicates. A key absent from the map is
// a wildcard; all present keys must match (logical AND, no OR combinator).
type Filters map[string]FilterValue

// Matches reports whether every filter key is satisfied by the event fields.
// A filter key the event does not carry at all fails that key.
func (f Filters) Matches(fields map[string]string) bool {
	for key, pred := range f {
		val, ok := fields[key]
		if !ok || !pred.Matches(val) {
			return false
		}
	}
	return true
}

// Rule routes matching events to a recipient over one or more channels.
type Rule struct {
	ID             string
	Name           string
	RecipientType  RecipientType
	RecipientID    string
	Channels       []Channel
	Filters        Filters
	OrganizationID *string
	Enabled        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrgID implements the tenant-scoped resource contract for access checks.
func (r *Rule) OrgID() *string { return r.OrganizationID }

// CriticalRecipient is a flat, rule-independent subscription for
// critical-severity events. Phone presence enables the whatsapp channel.
type CriticalRecipient struct {
	ClerkUserID string
	PhoneNumber *string
	Enabled     bool
}

// SeverityCritical triggers the rule-independent fast path.
const SeverityCritical = "critical"

// Event is an incident, action, or analysis occurrence to route. Severity and
// the routing fields are flattened into Fields for filter matching.
type Event struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Severity       string            `json:"severity"`
	OrganizationID *string           `json:"organization_id,omitempty"`
	Fields         map[string]string `json:"fields"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// FieldMap returns the fields the filter predicates evaluate against, with
// severity and type always present.
func (e Event) FieldMap() map[string]string {
	out := make(map[string]string, len(e.Fields)+2)
	for k, v := range e.Fields {
		out[k] = v
	}
	out["severity"] = e.Severity
	out["type"] = e.Type
	return out
}

// DeliveryIntent is a resolved (recipient, channel) pair for an external
// sender. RuleID is nil for critical fast-path intents.
type DeliveryIntent struct {
	EventID     string  `json:"event_id"`
	RecipientID string  `json:"recipient_id"`
	Channel     Channel `json:"channel"`
	RuleID      *string `json:"rule_id,omitempty"`
}
