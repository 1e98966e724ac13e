// Package router resolves events against notification rules and the
// critical-recipient list, producing delivery intents. Pure computation over
// data the caller already fetched; the only I/O is member expansion through
// the MemberLister.
package router

import (
	"context"
	"fmt"

	"fieldsafe/backend/internal/notification/domain"
)

// MemberLister expands an organization (or the organization a team ID points
// at) to its active member user IDs.
type MemberLister interface {
	ListActiveMembersByOrg(ctx context.Context, orgID string) ([]string, error)
}

// Router routes events to delivery intents.
type Router struct {
	members MemberLister
}

// New returns a Router using lister for organization and team expansion.
func New(lister MemberLister) *Router {
	return &Router{members: lister}
}

type intentKey struct {
	recipient string
	channel   domain.Channel
	ruleID    string
}

// Route returns the delivery intents for event given the enabled rules and
// the critical-recipient list. Zero matching rules or zero resolved
// recipients yield zero intents, never an error. Intents are deduplicated
// per (recipient, channel, rule); the critical fast path counts as its own
// rule for dedup so it never suppresses a configured rule's intent.
func (r *Router) Route(ctx context.Context, event domain.Event, rules []*domain.Rule, critical []domain.CriticalRecipient) ([]domain.DeliveryIntent, error) {
	var intents []domain.DeliveryIntent
	seen := make(map[intentKey]struct{})

	emit := func(recipient string, channel domain.Channel, ruleID *string) {
		key := intentKey{recipient: recipient, channel: channel}
		if ruleID != nil {
			key.ruleID = *ruleID
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		intents = append(intents, domain.DeliveryIntent{
			EventID:     event.ID,
			RecipientID: recipient,
			Channel:     channel,
			RuleID:      ruleID,
		})
	}

	// Critical fast path: independent of any rule.
	if event.Severity == domain.SeverityCritical {
		for _, cr := range critical {
			if !cr.Enabled {
				continue
			}
			emit(cr.ClerkUserID, domain.ChannelInApp, nil)
			if cr.PhoneNumber != nil && *cr.PhoneNumber != "" {
				emit(cr.ClerkUserID, domain.ChannelWhatsApp, nil)
			}
		}
	}

	fields := event.FieldMap()
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if !rule.Filters.Matches(fields) {
			continue
		}
		recipients, err := r.resolve(ctx, rule)
		if err != nil {
			return nil, fmt.Errorf("resolve recipients for rule %s: %w", rule.ID, err)
		}
		ruleID := rule.ID
		for _, recipient := range recipients {
			for _, ch := range rule.Channels {
				emit(recipient, ch, &ruleID)
			}
		}
	}
	return intents, nil
}

// resolve expands the rule's recipient to concrete user IDs. Team IDs carry
// project identifiers in the source data and resolve through the same member
// listing as organizations.
func (r *Router) resolve(ctx context.Context, rule *domain.Rule) ([]string, error) {
	switch rule.RecipientType {
	case domain.RecipientUser:
		return []string{rule.RecipientID}, nil
	case domain.RecipientOrganization, domain.RecipientTeam:
		return r.members.ListActiveMembersByOrg(ctx, rule.RecipientID)
	default:
		return nil, fmt.Errorf("unknown recipient type %q on rule %s", rule.RecipientType, rule.ID)
	}
}
