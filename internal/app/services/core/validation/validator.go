package validation

import (
	"fmt"
	"sort"

	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/constvars"
)

// Finding points at something wrong in a state. Findings are advisory: a
// document may be invalid while it is being edited.
type Finding struct {
	LinkID   string `json:"linkId"`
	Property string `json:"property"`
	Index    *int   `json:"index,omitempty"`
}

func (f Finding) String() string {
	if f.Index != nil {
		return fmt.Sprintf("%s: %s[%d]", f.LinkID, f.Property, *f.Index)
	}
	return fmt.Sprintf("%s: %s", f.LinkID, f.Property)
}

func indexed(linkID, property string, index int) Finding {
	return Finding{LinkID: linkID, Property: property, Index: &index}
}

type validator struct {
	state    *models.TreeState
	counts   map[string]int
	findings []Finding
}

// Validate walks the Order Tree in document order and reports every
// referential problem it finds. The state is only read.
func Validate(state *models.TreeState) []Finding {
	v := &validator{state: state, counts: map[string]int{}}
	state.Walk(func(node models.OrderItem, _ []string) {
		v.counts[node.LinkID]++
	})

	state.Walk(func(node models.OrderItem, _ []string) {
		v.node(node.LinkID)
	})

	var storeOnly []string
	for linkID := range state.Items {
		if v.counts[linkID] == 0 {
			storeOnly = append(storeOnly, linkID)
		}
	}
	sort.Strings(storeOnly)
	for _, linkID := range storeOnly {
		v.report(Finding{LinkID: linkID, Property: constvars.FindingPropertyOrphan})
	}
	return v.findings
}

func (v *validator) report(f Finding) {
	v.findings = append(v.findings, f)
}

func (v *validator) node(linkID string) {
	// Each placement of a repeated linkId is its own finding.
	if v.counts[linkID] > 1 {
		v.report(Finding{LinkID: linkID, Property: constvars.FindingPropertyLinkID})
	}
	item, ok := v.state.Item(linkID)
	if !ok {
		v.report(Finding{LinkID: linkID, Property: constvars.FindingPropertyOrphan})
		return
	}

	v.initials(item)
	for i, rule := range item.EnableWhen {
		v.rule(item, i, rule)
	}
}

func (v *validator) initials(item *models.Item) {
	choice, ok := item.Choice()
	if !ok {
		return
	}
	for i, initial := range choice.Initial {
		coding, ok := initial.(models.Coding)
		if !ok {
			continue
		}
		if !v.offers(choice, coding) {
			v.report(indexed(item.LinkID, constvars.FindingPropertyInitial, i))
		}
	}
}

// offers reports whether the coding is one of the answers a choice item
// declares. Codings cannot be checked against external sets or against an
// item that declares nothing, so those pass.
func (v *validator) offers(choice *models.ChoiceAnswer, coding models.Coding) bool {
	if len(choice.Options) > 0 {
		for _, option := range choice.Options {
			if option.Coding().Matches(coding.System, coding.Code) {
				return true
			}
		}
		return false
	}
	if !choice.ValueSet.IsLocal() {
		return true
	}
	vs, ok := v.state.ValueSet(choice.ValueSet)
	if !ok {
		return false
	}
	return vs.Contains(coding.System, coding.Code)
}

func (v *validator) rule(item *models.Item, index int, rule models.EnableWhen) {
	target, ok := v.state.Item(rule.Question)
	if !ok {
		v.report(indexed(item.LinkID, constvars.FindingPropertyEnableWhenQuestion, index))
		return
	}
	if rule.Operator == models.OperatorExists {
		return
	}

	expected, ok := v.answerMatches(target, rule.Answer)
	if !ok {
		v.report(indexed(item.LinkID, constvars.FindingPropertyEnableWhenAnswerPrefix+string(expected), index))
	}
}

// answerMatches checks a rule answer against the item it targets. On
// mismatch it returns the answer kind the target expected.
func (v *validator) answerMatches(target *models.Item, answer models.Value) (models.ValueKind, bool) {
	if answer == nil {
		return target.Type.AnswerKind(), false
	}
	switch {
	case target.Type == models.ItemTypeQuantity:
		quantity, ok := answer.(models.Quantity)
		declared, _ := target.Quantity()
		if !ok || declared == nil || declared.Unit == nil {
			return models.ValueKindQuantity, false
		}
		return models.ValueKindQuantity, quantity.System == declared.Unit.System && quantity.Code == declared.Unit.Code

	case target.IsRecipientList():
		reference, ok := answer.(models.Reference)
		if !ok {
			return models.ValueKindReference, false
		}
		for _, ext := range target.Extensions {
			if ext.ValueReference != nil && ext.ValueReference.Reference == reference.Reference {
				return models.ValueKindReference, true
			}
		}
		return models.ValueKindReference, false

	case target.Type.IsChoice():
		if _, ok := answer.(models.StringValue); ok && target.Type == models.ItemTypeOpenChoice {
			return models.ValueKindString, true
		}
		coding, ok := answer.(models.Coding)
		if !ok {
			return models.ValueKindCoding, false
		}
		choice, ok := target.Choice()
		return models.ValueKindCoding, !ok || v.offers(choice, coding)
	}

	expected := target.Type.AnswerKind()
	if expected == "" {
		// Groups, displays and attachments cannot be compared against.
		return answer.Kind(), false
	}
	return expected, answer.Kind() == expected
}
