package treestore

import (
	"testing"

	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"
	"questionnaire-builder/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildState(t *testing.T, engine *Engine, requests ...Request) *models.TreeState {
	t.Helper()
	state := models.NewTreeState()
	for _, request := range requests {
		next, err := engine.Apply(state, request)
		require.NoError(t, err, "setup request %s should apply", request.Operation())
		state = next
	}
	return state
}

func yesNoOptions() []models.AnswerOption {
	return []models.AnswerOption{
		{Code: "1", Display: "Yes"},
		{Code: "2", Display: "No"},
	}
}

func TestCreateItem(t *testing.T) {
	engine := NewEngine()

	t.Run("Append At Root And Under Group", func(t *testing.T) {
		state := buildState(t, engine,
			CreateItem{Type: models.ItemTypeGroup, LinkID: "g"},
			CreateItem{Type: models.ItemTypeString, LinkID: "a"},
			CreateItem{ParentPath: []string{"g"}, Type: models.ItemTypeBoolean, LinkID: "b"},
			CreateItem{ParentPath: []string{"g"}, Type: models.ItemTypeChoice, LinkID: "c"},
		)

		assert.Equal(t, []models.OrderItem{
			{LinkID: "g", Items: []models.OrderItem{{LinkID: "b"}, {LinkID: "c"}}},
			{LinkID: "a"},
		}, state.Order, "children should be appended in request order")
		assert.IsType(t, &models.ChoiceAnswer{}, state.Items["c"].Answer, "choice items should carry choice answers")
		assert.IsType(t, &models.TextAnswer{}, state.Items["a"].Answer, "string items should carry text answers")
		assert.NoError(t, state.CheckConsistency(), "state should stay consistent")
	})

	t.Run("Generated LinkID", func(t *testing.T) {
		ids := utils.NewSequenceGenerator("item")
		request := NewCreateItem(ids, nil, models.ItemTypeText)

		state, err := engine.Apply(models.NewTreeState(), request)
		require.NoError(t, err)
		assert.Equal(t, "item-1", request.LinkID, "the generated id should travel in the request")
		assert.Contains(t, state.Items, "item-1", "the item should be stored under the generated id")
	})

	t.Run("Unknown Parent", func(t *testing.T) {
		before := buildState(t, engine, CreateItem{Type: models.ItemTypeGroup, LinkID: "g"})

		after, err := engine.Apply(before, CreateItem{ParentPath: []string{"g", "missing"}, Type: models.ItemTypeString, LinkID: "x"})
		assert.ErrorIs(t, err, exceptions.InvalidParent, "a missing ancestor should be rejected")
		assert.Same(t, before, after, "the prior state should be returned on failure")
		assert.NotContains(t, before.Items, "x", "the prior state should not be modified")
	})

	t.Run("Display Parent", func(t *testing.T) {
		before := buildState(t, engine, CreateItem{Type: models.ItemTypeDisplay, LinkID: "d"})

		_, err := engine.Apply(before, CreateItem{ParentPath: []string{"d"}, Type: models.ItemTypeString, LinkID: "x"})
		assert.ErrorIs(t, err, exceptions.InvalidParent, "display items should not accept children")
	})

	t.Run("LinkID Already Used", func(t *testing.T) {
		before := buildState(t, engine, CreateItem{Type: models.ItemTypeGroup, LinkID: "g"})

		_, err := engine.Apply(before, CreateItem{ParentPath: []string{"g"}, Type: models.ItemTypeString, LinkID: "g"})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a used linkId should be rejected")

		_, err = engine.Apply(before, CreateItem{Type: models.ItemTypeString})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "an empty linkId should be rejected")
	})
}

func TestDeleteItem(t *testing.T) {
	engine := NewEngine()

	t.Run("Removes Whole Subtree", func(t *testing.T) {
		state := buildState(t, engine,
			CreateItem{Type: models.ItemTypeGroup, LinkID: "g"},
			CreateItem{ParentPath: []string{"g"}, Type: models.ItemTypeGroup, LinkID: "h"},
			CreateItem{ParentPath: []string{"g", "h"}, Type: models.ItemTypeString, LinkID: "i"},
			CreateItem{Type: models.ItemTypeString, LinkID: "keep"},
		)

		next, err := engine.Apply(state, DeleteItem{LinkID: "g"})
		require.NoError(t, err)
		assert.Equal(t, []models.OrderItem{{LinkID: "keep"}}, next.Order, "only the sibling should remain")
		assert.Len(t, next.Items, 1, "descendant items should be removed")
		assert.Len(t, state.Items, 4, "the prior state should keep its items")
	})

	t.Run("Dangling Rules Are Left Alone", func(t *testing.T) {
		state := buildState(t, engine,
			CreateItem{Type: models.ItemTypeChoice, LinkID: "A"},
			UpdateItem{LinkID: "A", Property: models.PropertyAnswerOption, Value: yesNoOptions()},
			CreateItem{Type: models.ItemTypeString, LinkID: "B"},
			UpdateItem{LinkID: "B", Property: models.PropertyEnableWhen, Value: []models.EnableWhen{
				{Question: "A", Operator: models.OperatorEqual, Answer: models.Coding{Code: "1"}},
			}},
		)

		next, err := engine.Apply(state, DeleteItem{LinkID: "A"})
		require.NoError(t, err)
		assert.Equal(t, "A", next.Items["B"].EnableWhen[0].Question, "the rule should still point at the deleted item")
	})

	t.Run("Not Found", func(t *testing.T) {
		state := buildState(t, engine, CreateItem{Type: models.ItemTypeGroup, LinkID: "g"})

		_, err := engine.Apply(state, DeleteItem{LinkID: "x", ParentPath: []string{"g"}})
		assert.ErrorIs(t, err, exceptions.NotFound, "deleting an unknown child should fail")
	})

	t.Run("Collects Contained Value Set", func(t *testing.T) {
		state := buildState(t, engine,
			AddValueSet{ValueSet: models.ValueSet{Ref: models.ContainedRef("colors")}},
			AddValueSet{ValueSet: models.ValueSet{Ref: models.LibraryRef("pre-yes-no")}},
			CreateItem{Type: models.ItemTypeChoice, LinkID: "a"},
			UpdateItem{LinkID: "a", Property: models.PropertyAnswerValueSet, Value: models.ContainedRef("colors")},
			CreateItem{Type: models.ItemTypeChoice, LinkID: "b"},
			UpdateItem{LinkID: "b", Property: models.PropertyAnswerValueSet, Value: models.LibraryRef("pre-yes-no")},
		)

		next, err := engine.Apply(state, DeleteItem{LinkID: "a"})
		require.NoError(t, err)
		_, ok := next.ValueSet(models.ContainedRef("colors"))
		assert.False(t, ok, "the contained set lost its last reference and should be dropped")

		next, err = engine.Apply(next, DeleteItem{LinkID: "b"})
		require.NoError(t, err)
		_, ok = next.ValueSet(models.LibraryRef("pre-yes-no"))
		assert.True(t, ok, "library sets should be pinned")
	})
}

func TestDuplicateItem(t *testing.T) {
	engine := NewEngine()

	setup := func(t *testing.T) *models.TreeState {
		return buildState(t, engine,
			CreateItem{Type: models.ItemTypeGroup, LinkID: "A"},
			UpdateItem{LinkID: "A", Property: models.PropertyText, Value: "Smoking"},
			CreateItem{ParentPath: []string{"A"}, Type: models.ItemTypeBoolean, LinkID: "C"},
			UpdateItem{LinkID: "C", Property: models.PropertyText, Value: "Do you smoke?"},
			UpdateItem{LinkID: "C", Property: models.PropertyRequired, Value: true},
			CreateItem{ParentPath: []string{"A"}, Type: models.ItemTypeInteger, LinkID: "D"},
			UpdateItem{LinkID: "D", Property: models.PropertyEnableWhen, Value: []models.EnableWhen{
				{Question: "C", Operator: models.OperatorEqual, Answer: models.BooleanValue(true)},
			}},
			CreateItem{Type: models.ItemTypeString, LinkID: "Z"},
		)
	}

	t.Run("Copies Subtree After Original", func(t *testing.T) {
		state := setup(t)
		request, err := NewDuplicateItem(state, utils.NewSequenceGenerator("copy"), "A", nil)
		require.NoError(t, err)

		next, err := engine.Apply(state, request)
		require.NoError(t, err)

		copyA := request.NewLinkIDs["A"]
		copyC := request.NewLinkIDs["C"]
		assert.NotEqual(t, "A", copyA, "the copy should get a new linkId")
		assert.NotEqual(t, "C", copyC, "the copied child should get a new linkId")
		assert.Equal(t, []string{"A", "C", "D", copyA, copyC, request.NewLinkIDs["D"], "Z"}, next.LinkIDs(), "the copy should be the next sibling")

		original := state.Items["C"]
		copied := next.Items[copyC]
		assert.Equal(t, original.Text, copied.Text, "text should be copied verbatim")
		assert.Equal(t, original.Required, copied.Required, "required should be copied verbatim")
		assert.Equal(t, original.Type, copied.Type, "type should be copied verbatim")
		assert.NoError(t, next.CheckConsistency(), "state should stay consistent")
	})

	t.Run("Internal References Kept By Default", func(t *testing.T) {
		state := setup(t)
		request, err := NewDuplicateItem(state, utils.NewSequenceGenerator("copy"), "A", nil)
		require.NoError(t, err)

		next, err := engine.Apply(state, request)
		require.NoError(t, err)
		assert.Equal(t, "C", next.Items[request.NewLinkIDs["D"]].EnableWhen[0].Question, "references should stay verbatim")
	})

	t.Run("Internal References Remapped On Request", func(t *testing.T) {
		state := setup(t)
		request, err := NewDuplicateItem(state, utils.NewSequenceGenerator("copy"), "A", nil)
		require.NoError(t, err)
		request.RemapInternalReferences = true

		next, err := engine.Apply(state, request)
		require.NoError(t, err)
		assert.Equal(t, request.NewLinkIDs["C"], next.Items[request.NewLinkIDs["D"]].EnableWhen[0].Question, "references should follow the copy")
		assert.Equal(t, "C", next.Items["D"].EnableWhen[0].Question, "the original should be untouched")
	})

	t.Run("Mapping Must Cover Subtree", func(t *testing.T) {
		state := setup(t)
		_, err := engine.Apply(state, DuplicateItem{LinkID: "A", NewLinkIDs: map[string]string{"A": "A2"}})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a partial mapping should be rejected")

		_, err = engine.Apply(state, DuplicateItem{LinkID: "A", NewLinkIDs: map[string]string{"A": "A2", "C": "Z", "D": "D2"}})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a colliding mapping should be rejected")
	})
}

func TestMoveItem(t *testing.T) {
	engine := NewEngine()
	setup := func(t *testing.T) *models.TreeState {
		return buildState(t, engine,
			CreateItem{Type: models.ItemTypeGroup, LinkID: "g"},
			CreateItem{ParentPath: []string{"g"}, Type: models.ItemTypeGroup, LinkID: "h"},
			CreateItem{ParentPath: []string{"g"}, Type: models.ItemTypeString, LinkID: "s"},
			CreateItem{Type: models.ItemTypeDisplay, LinkID: "d"},
			CreateItem{Type: models.ItemTypeString, LinkID: "t"},
		)
	}

	t.Run("Moves Between Parents", func(t *testing.T) {
		state := setup(t)
		next, err := engine.Apply(state, MoveItem{LinkID: "t", ToParentPath: []string{"g", "h"}, ToIndex: 0})
		require.NoError(t, err)
		assert.Equal(t, []models.OrderItem{
			{LinkID: "g", Items: []models.OrderItem{{LinkID: "h", Items: []models.OrderItem{{LinkID: "t"}}}, {LinkID: "s"}}},
			{LinkID: "d"},
		}, next.Order, "t should now live under g/h")
		assert.Same(t, state.Items["t"], next.Items["t"], "moving should not touch item content")
	})

	t.Run("Reorders Siblings", func(t *testing.T) {
		state := setup(t)
		next, err := engine.Apply(state, MoveItem{LinkID: "t", ToIndex: 0})
		require.NoError(t, err)
		assert.Equal(t, []string{"t", "g", "h", "s", "d"}, next.LinkIDs(), "t should be first")
	})

	t.Run("Into Own Subtree", func(t *testing.T) {
		state := setup(t)
		_, err := engine.Apply(state, MoveItem{LinkID: "g", ToParentPath: []string{"g", "h"}})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a node cannot become its own descendant")

		_, err = engine.Apply(state, MoveItem{LinkID: "g", ToParentPath: []string{"g"}})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a node cannot become its own child")
	})

	t.Run("Bad Destination", func(t *testing.T) {
		state := setup(t)
		_, err := engine.Apply(state, MoveItem{LinkID: "t", ToParentPath: []string{"nope"}})
		assert.ErrorIs(t, err, exceptions.InvalidParent, "an unknown destination should be rejected")

		_, err = engine.Apply(state, MoveItem{LinkID: "t", ToParentPath: []string{"d"}})
		assert.ErrorIs(t, err, exceptions.InvalidParent, "a display destination should be rejected")

		_, err = engine.Apply(state, MoveItem{LinkID: "t", ToParentPath: []string{"g"}, ToIndex: 3})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "an index past the end should be rejected")
	})
}

func TestUpdateItem(t *testing.T) {
	engine := NewEngine()

	t.Run("Wrong Value Type", func(t *testing.T) {
		state := buildState(t, engine, CreateItem{Type: models.ItemTypeString, LinkID: "s"})
		_, err := engine.Apply(state, UpdateItem{LinkID: "s", Property: models.PropertyRequired, Value: "yes"})
		assert.ErrorIs(t, err, exceptions.TypeMismatch, "required expects a bool")
	})

	t.Run("Property Not Carried By Type", func(t *testing.T) {
		state := buildState(t, engine, CreateItem{Type: models.ItemTypeBoolean, LinkID: "b"})
		_, err := engine.Apply(state, UpdateItem{LinkID: "b", Property: models.PropertyMaxLength, Value: 10})
		assert.ErrorIs(t, err, exceptions.TypeMismatch, "boolean items carry no maxLength")

		_, err = engine.Apply(state, UpdateItem{LinkID: "b", Property: models.PropertyAnswerOption, Value: yesNoOptions()})
		assert.ErrorIs(t, err, exceptions.TypeMismatch, "boolean items carry no answer options")
	})

	t.Run("Initial Kind Checked", func(t *testing.T) {
		state := buildState(t, engine, CreateItem{Type: models.ItemTypeOpenChoice, LinkID: "o"})
		next, err := engine.Apply(state, UpdateItem{LinkID: "o", Property: models.PropertyInitial, Value: []models.Value{models.StringValue("other")}})
		require.NoError(t, err, "open-choice accepts string initials")
		assert.Equal(t, []models.Value{models.StringValue("other")}, next.Items["o"].Initials())

		_, err = engine.Apply(state, UpdateItem{LinkID: "o", Property: models.PropertyInitial, Value: []models.Value{models.IntegerValue(3)}})
		assert.ErrorIs(t, err, exceptions.TypeMismatch, "integer initials do not fit open-choice")
	})

	t.Run("Type Change Keeps Compatible Attributes", func(t *testing.T) {
		state := buildState(t, engine,
			CreateItem{Type: models.ItemTypeChoice, LinkID: "c"},
			UpdateItem{LinkID: "c", Property: models.PropertyAnswerOption, Value: yesNoOptions()},
			UpdateItem{LinkID: "c", Property: models.PropertyInitial, Value: []models.Value{models.Coding{Code: "1"}}},
		)

		next, err := engine.Apply(state, UpdateItem{LinkID: "c", Property: models.PropertyType, Value: models.ItemTypeOpenChoice})
		require.NoError(t, err)
		choice, ok := next.Items["c"].Choice()
		require.True(t, ok, "open-choice should carry choice answers")
		assert.Equal(t, yesNoOptions(), choice.Options, "options should survive choice to open-choice")
		assert.Len(t, choice.Initial, 1, "coding initials should survive")

		next, err = engine.Apply(next, UpdateItem{LinkID: "c", Property: models.PropertyType, Value: models.ItemTypeInteger})
		require.NoError(t, err)
		assert.Equal(t, &models.ScalarAnswer{}, next.Items["c"].Answer, "incompatible attributes should be dropped")
	})

	t.Run("Display With Children", func(t *testing.T) {
		state := buildState(t, engine,
			CreateItem{Type: models.ItemTypeGroup, LinkID: "g"},
			CreateItem{ParentPath: []string{"g"}, Type: models.ItemTypeString, LinkID: "s"},
		)
		_, err := engine.Apply(state, UpdateItem{LinkID: "g", Property: models.PropertyType, Value: models.ItemTypeDisplay})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a group with children cannot become a display item")
	})

	t.Run("Unit Extension Lifted On Quantity", func(t *testing.T) {
		state := buildState(t, engine, CreateItem{Type: models.ItemTypeQuantity, LinkID: "q"})
		unit := models.Coding{System: "http://unitsofmeasure.org", Code: "kg", Display: "kilogram"}

		next, err := engine.Apply(state, UpdateItem{LinkID: "q", Property: models.PropertyExtension, Value: []models.Extension{
			{URL: constvars.FhirExtensionQuestionnaireUnit, ValueCoding: &unit},
		}})
		require.NoError(t, err)
		quantity, _ := next.Items["q"].Quantity()
		assert.Equal(t, &unit, quantity.Unit, "the unit extension should become the unit attribute")
		assert.Empty(t, next.Items["q"].Extensions, "the unit extension should not be kept twice")
	})

	t.Run("Unit Follows Type Change", func(t *testing.T) {
		unit := models.Coding{System: "http://unitsofmeasure.org", Code: "kg"}
		hidden := true
		state := buildState(t, engine,
			CreateItem{Type: models.ItemTypeString, LinkID: "q"},
			UpdateItem{LinkID: "q", Property: models.PropertyExtension, Value: []models.Extension{
				{URL: constvars.FhirExtensionQuestionnaireHidden, ValueBoolean: &hidden},
				{URL: constvars.FhirExtensionQuestionnaireUnit, ValueCoding: &unit},
			}},
		)
		assert.Len(t, state.Items["q"].Extensions, 2, "a string item keeps the unit as a plain extension")

		next, err := engine.Apply(state, UpdateItem{LinkID: "q", Property: models.PropertyType, Value: models.ItemTypeQuantity})
		require.NoError(t, err)
		quantity, ok := next.Items["q"].Quantity()
		require.True(t, ok, "quantity items carry a quantity answer")
		assert.Equal(t, &unit, quantity.Unit, "the unit extension should be lifted on the way into quantity")
		assert.Equal(t, []models.Extension{{URL: constvars.FhirExtensionQuestionnaireHidden, ValueBoolean: &hidden}}, next.Items["q"].Extensions, "only the unit extension should move")

		back, err := engine.Apply(next, UpdateItem{LinkID: "q", Property: models.PropertyType, Value: models.ItemTypeString})
		require.NoError(t, err)
		assert.Equal(t, state.Items["q"].Extensions, back.Items["q"].Extensions, "the unit should return to the extensions when leaving quantity")
	})

	t.Run("Exists Rule Needs Boolean", func(t *testing.T) {
		state := buildState(t, engine, CreateItem{Type: models.ItemTypeString, LinkID: "s"})
		_, err := engine.Apply(state, UpdateItem{LinkID: "s", Property: models.PropertyEnableWhen, Value: []models.EnableWhen{
			{Question: "x", Operator: models.OperatorExists, Answer: models.StringValue("yes")},
		}})
		assert.ErrorIs(t, err, exceptions.TypeMismatch, "exists compares against a boolean")
	})
}

func TestAnswerOptions(t *testing.T) {
	engine := NewEngine()
	setup := func(t *testing.T) *models.TreeState {
		return buildState(t, engine, CreateItem{Type: models.ItemTypeChoice, LinkID: "c"})
	}

	t.Run("Append Shares System", func(t *testing.T) {
		state := setup(t)
		ids := utils.NewSequenceGenerator("opt")

		first, err := NewAppendOption(state, ids, "c", "Yes")
		require.NoError(t, err)
		state, err = engine.Apply(state, first)
		require.NoError(t, err)

		second, err := NewAppendOption(state, ids, "c", "No")
		require.NoError(t, err)
		state, err = engine.Apply(state, second)
		require.NoError(t, err)

		choice, _ := state.Items["c"].Choice()
		require.Len(t, choice.Options, 2)
		assert.Equal(t, "opt-2"+constvars.AnswerOptionSystemSuffix, choice.Options[0].System, "the first option should get a fresh system")
		assert.Equal(t, choice.Options[0].System, choice.Options[1].System, "later options should share the system")
		assert.NotEqual(t, choice.Options[0].Code, choice.Options[1].Code, "codes should be unique")
	})

	t.Run("Update Rename Remove Reorder", func(t *testing.T) {
		state := buildState(t, engine,
			CreateItem{Type: models.ItemTypeChoice, LinkID: "c"},
			AppendOption{LinkID: "c", Code: "1", Display: "Yes", System: "sys"},
			AppendOption{LinkID: "c", Code: "2", Display: "No"},
			AppendOption{LinkID: "c", Code: "3", Display: "Maybe"},
			UpdateOption{LinkID: "c", Code: "3", Display: "Perhaps"},
			RenameOptionCode{LinkID: "c", Code: "3", NewCode: "9"},
			ReorderOptions{LinkID: "c", Codes: []string{"9", "1", "2"}},
			RemoveOption{LinkID: "c", Code: "1"},
		)

		choice, _ := state.Items["c"].Choice()
		assert.Equal(t, []models.AnswerOption{
			{Code: "9", Display: "Perhaps", System: "sys"},
			{Code: "2", Display: "No", System: "sys"},
		}, choice.Options, "options should reflect every edit in order")
	})

	t.Run("Rejections", func(t *testing.T) {
		state := buildState(t, engine,
			CreateItem{Type: models.ItemTypeChoice, LinkID: "c"},
			AppendOption{LinkID: "c", Code: "1", Display: "Yes"},
			AppendOption{LinkID: "c", Code: "2", Display: "No"},
		)

		_, err := engine.Apply(state, AppendOption{LinkID: "c", Code: "1"})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "duplicate codes should be rejected")

		_, err = engine.Apply(state, RenameOptionCode{LinkID: "c", Code: "1", NewCode: "2"})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "renaming onto a used code should be rejected")

		_, err = engine.Apply(state, ReorderOptions{LinkID: "c", Codes: []string{"1", "1"}})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a non-permutation should be rejected")

		_, err = engine.Apply(state, RemoveOption{LinkID: "c", Code: "7"})
		assert.ErrorIs(t, err, exceptions.NotFound, "removing an unknown code should fail")
	})

	t.Run("Inline Options Replace Value Set", func(t *testing.T) {
		state := buildState(t, engine,
			AddValueSet{ValueSet: models.ValueSet{Ref: models.ContainedRef("vs")}},
			CreateItem{Type: models.ItemTypeChoice, LinkID: "c"},
			UpdateItem{LinkID: "c", Property: models.PropertyAnswerValueSet, Value: models.ContainedRef("vs")},
		)

		next, err := engine.Apply(state, AppendOption{LinkID: "c", Code: "1", Display: "Yes"})
		require.NoError(t, err)
		choice, _ := next.Items["c"].Choice()
		assert.True(t, choice.ValueSet.IsZero(), "the value set reference should be cleared")
		assert.Empty(t, next.ValueSets, "the unreferenced contained set should be collected")
	})
}

func TestValueSets(t *testing.T) {
	engine := NewEngine()

	t.Run("Remove Refused While Referenced", func(t *testing.T) {
		state := buildState(t, engine,
			AddValueSet{ValueSet: models.ValueSet{Ref: models.LibraryRef("pre-1")}},
			CreateItem{Type: models.ItemTypeChoice, LinkID: "c"},
			UpdateItem{LinkID: "c", Property: models.PropertyAnswerValueSet, Value: models.LibraryRef("pre-1")},
		)

		_, err := engine.Apply(state, RemoveValueSet{Ref: models.LibraryRef("pre-1")})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a referenced set should not be removable")

		next, err := engine.Apply(state, Batch{Requests: []Request{
			UpdateItem{LinkID: "c", Property: models.PropertyAnswerValueSet, Value: models.ValueSetRef{}},
			RemoveValueSet{Ref: models.LibraryRef("pre-1")},
		}})
		require.NoError(t, err)
		assert.Empty(t, next.ValueSets, "the library set should be gone once unreferenced")
	})

	t.Run("Ids Unique Within An Origin", func(t *testing.T) {
		state := buildState(t, engine, AddValueSet{ValueSet: models.ValueSet{Ref: models.ContainedRef("x")}})
		_, err := engine.Apply(state, AddValueSet{ValueSet: models.ValueSet{Ref: models.ContainedRef("x")}})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a contained id can be held once")

		next, err := engine.Apply(state, AddValueSet{ValueSet: models.ValueSet{Ref: models.LibraryRef("x")}})
		require.NoError(t, err, "a library set may share its id with a contained one")
		assert.Len(t, next.ValueSets, 2, "both origins should be held")
		held, ok := next.ValueSetByID("x")
		require.True(t, ok)
		assert.Equal(t, models.ContainedRef("x"), held.Ref, "a bare id resolves to the contained set first")

		_, err = engine.Apply(next, AddValueSet{ValueSet: models.ValueSet{Ref: models.LibraryRef("x")}})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "a library id can be held once")

		_, err = engine.Apply(state, AddValueSet{ValueSet: models.ValueSet{Ref: models.ExternalRef("http://example.org/vs")}})
		assert.ErrorIs(t, err, exceptions.InvalidTarget, "external sets are not stored")
	})
}

func TestUpdateMetadata(t *testing.T) {
	engine := NewEngine()
	state := models.NewTreeState()

	next, err := engine.Apply(state, Batch{Requests: []Request{
		UpdateMetadata{Property: models.MetadataTitle, Value: "Intake"},
		UpdateMetadata{Property: models.MetadataLanguage, Value: "nb-NO"},
		UpdateMetadata{Property: models.MetadataStatus, Value: constvars.FhirPublicationStatusActive},
		UpdateMetadata{Property: models.MetadataSubjectType, Value: []string{"Patient"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Intake", next.Metadata.Title)
	assert.Equal(t, "nb-NO", next.Metadata.Language)
	assert.Equal(t, constvars.FhirPublicationStatusActive, next.Metadata.Status)
	assert.Equal(t, []string{"Patient"}, next.Metadata.SubjectType)
	assert.Empty(t, state.Metadata.Title, "the prior state should keep its metadata")

	_, err = engine.Apply(state, UpdateMetadata{Property: models.MetadataLanguage, Value: "not a tag!"})
	assert.ErrorIs(t, err, exceptions.TypeMismatch, "invalid language tags should be rejected")

	_, err = engine.Apply(state, UpdateMetadata{Property: models.MetadataStatus, Value: "published"})
	assert.ErrorIs(t, err, exceptions.TypeMismatch, "unknown statuses should be rejected")
}

func TestBatchIsAllOrNothing(t *testing.T) {
	engine := NewEngine()
	state := models.NewTreeState()

	after, err := engine.Apply(state, Batch{Requests: []Request{
		CreateItem{Type: models.ItemTypeString, LinkID: "a"},
		CreateItem{Type: models.ItemTypeString, LinkID: "a"},
	}})
	assert.ErrorIs(t, err, exceptions.InvalidTarget, "the second create should fail")
	assert.Same(t, state, after, "a failed batch should leave the state as it was")
	assert.Empty(t, state.Items, "nothing from the batch should be applied")
}
