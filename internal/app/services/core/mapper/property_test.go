package mapper

import (
	"reflect"
	"testing"

	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/app/services/core/treestore"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/utils"

	"pgregory.net/rapid"
)

var roundTripTypes = []models.ItemType{
	models.ItemTypeGroup,
	models.ItemTypeDisplay,
	models.ItemTypeBoolean,
	models.ItemTypeInteger,
	models.ItemTypeString,
	models.ItemTypeText,
	models.ItemTypeChoice,
	models.ItemTypeOpenChoice,
	models.ItemTypeQuantity,
}

// drawEditedState builds a state through random engine requests, covering the
// attributes the wire format has to carry.
func drawEditedState(t *rapid.T) *models.TreeState {
	engine := treestore.NewEngine()
	ids := utils.NewSequenceGenerator("n")
	state := models.NewTreeState()

	library := models.ValueSet{
		Ref:      models.LibraryRef("pre-yes-no"),
		Name:     "YesNo",
		Includes: []models.ValueSetInclude{{System: "urn:yn", Concepts: []models.Concept{{Code: "Y", Display: "Yes"}, {Code: "N"}}}},
	}
	contained := models.ValueSet{
		Ref:      models.ContainedRef(rapid.SampledFrom([]string{"colors", "pre-yes-no"}).Draw(t, "containedID")),
		Status:   "active",
		Includes: []models.ValueSetInclude{{System: "urn:colors", Concepts: []models.Concept{{Code: "red"}}}},
	}

	apply := func(request treestore.Request) {
		next, err := engine.Apply(state, request)
		if err == nil {
			state = next
		}
	}
	// A library reference only survives export when the set is held.
	refs := []models.ValueSetRef{contained.Ref, models.ExternalRef("http://loinc.org/vs/LL1-1")}
	if rapid.Bool().Draw(t, "library") {
		apply(treestore.AddValueSet{ValueSet: library})
		refs = append(refs, library.Ref)
	}
	apply(treestore.AddValueSet{ValueSet: contained})

	steps := rapid.IntRange(1, 30).Draw(t, "steps")
	for i := 0; i < steps; i++ {
		linkIDs := state.LinkIDs()
		if len(linkIDs) == 0 || rapid.IntRange(0, 3).Draw(t, "create") == 0 {
			var parents [][]string
			parents = append(parents, nil)
			state.Walk(func(node models.OrderItem, parentPath []string) {
				if state.Items[node.LinkID].Type.CanHaveChildren() {
					parents = append(parents, append(append([]string(nil), parentPath...), node.LinkID))
				}
			})
			parent := rapid.SampledFrom(parents).Draw(t, "parent")
			apply(treestore.NewCreateItem(ids, parent, rapid.SampledFrom(roundTripTypes).Draw(t, "type")))
			continue
		}

		linkID := rapid.SampledFrom(linkIDs).Draw(t, "target")
		switch rapid.IntRange(0, 9).Draw(t, "edit") {
		case 0:
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyText, Value: rapid.StringMatching(`[ -~]{0,12}`).Draw(t, "text")})
		case 1:
			if request, err := treestore.NewAppendOption(state, ids, linkID, rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "display")); err == nil {
				apply(request)
			}
		case 2:
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyMaxLength, Value: rapid.IntRange(1, 200).Draw(t, "maxLength")})
		case 3:
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyAnswerValueSet, Value: rapid.SampledFrom(refs).Draw(t, "valueSet")})
		case 4:
			question := rapid.SampledFrom(linkIDs).Draw(t, "question")
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyEnableWhen, Value: []models.EnableWhen{
				{Question: question, Operator: models.OperatorEqual, Answer: models.Coding{System: "urn:colors", Code: "red"}},
				{Question: question, Operator: models.OperatorExists, Answer: models.BooleanValue(true)},
			}})
		case 5:
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyUnit, Value: models.Coding{System: "http://unitsofmeasure.org", Code: "kg"}})
		case 6:
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyInitial, Value: []models.Value{models.IntegerValue(rapid.IntRange(-5, 5).Draw(t, "initial"))}})
		case 7:
			hidden := rapid.Bool().Draw(t, "hidden")
			unit := models.Coding{System: "http://unitsofmeasure.org", Code: rapid.SampledFrom([]string{"kg", "cm"}).Draw(t, "unitCode")}
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyExtension, Value: []models.Extension{
				{URL: constvars.FhirExtensionQuestionnaireHidden, ValueBoolean: &hidden},
				{URL: constvars.FhirExtensionQuestionnaireUnit, ValueCoding: &unit},
			}})
		case 8:
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyType, Value: rapid.SampledFrom(roundTripTypes).Draw(t, "retype")})
		default:
			apply(treestore.UpdateItem{LinkID: linkID, Property: models.PropertyRequired, Value: true})
		}
	}
	return state
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewMapper(Options{InlineOptionThreshold: rapid.IntRange(0, 3).Draw(t, "threshold")})
		state := drawEditedState(t)

		doc, err := m.ToWire(state)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		raw, err := m.Encode(doc)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		decoded, err := m.Decode(raw)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		back, err := m.ToState(decoded)
		if err != nil {
			t.Fatalf("import failed: %v\n%s", err, raw)
		}
		if !reflect.DeepEqual(state, back) {
			t.Fatalf("state changed across a round trip:\n%s", raw)
		}

		again, err := m.ToWire(back)
		if err != nil {
			t.Fatalf("second export failed: %v", err)
		}
		rawAgain, err := m.Encode(again)
		if err != nil {
			t.Fatalf("second encode failed: %v", err)
		}
		if string(raw) != string(rawAgain) {
			t.Fatalf("export is not deterministic")
		}
	})
}
