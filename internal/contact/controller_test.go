package contact

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewForm(t *testing.T) {
	f := NewForm()
	if f.Status != Editing {
		t.Errorf("Status = %v, want editing", f.Status)
	}
	if f.Values != (FormState{}) {
		t.Errorf("Values = %+v, want empty", f.Values)
	}
	if f.Errors == nil || !f.Errors.Empty() {
		t.Errorf("Errors = %v, want empty non-nil map", f.Errors)
	}
}

func TestHandleEdit_UpdatesValue(t *testing.T) {
	f, err := HandleEdit(NewForm(), FieldName, "Ada")
	if err != nil {
		t.Fatalf("HandleEdit: %v", err)
	}
	if f.Values.Name != "Ada" {
		t.Errorf("Name = %q, want %q", f.Values.Name, "Ada")
	}
	if f.Status != Editing {
		t.Errorf("Status = %v, want editing", f.Status)
	}
}

func TestHandleEdit_UnknownField(t *testing.T) {
	orig := NewForm()
	f, err := HandleEdit(orig, Field("phone"), "555")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
	if !reflect.DeepEqual(f, orig) {
		t.Errorf("form changed on unknown field: %+v", f)
	}
}

func TestHandleSubmit_Rejected(t *testing.T) {
	f, accepted := HandleSubmit(NewForm())
	if accepted {
		t.Fatal("empty form accepted")
	}
	if f.Status != Rejected {
		t.Errorf("Status = %v, want rejected", f.Status)
	}
	if len(f.Errors) != 3 {
		t.Errorf("Errors = %v, want three entries", f.Errors)
	}
}

func TestHandleSubmit_Accepted(t *testing.T) {
	f := NewForm()
	f.Values = FormState{Name: "Ada", Email: "ada@example.com", Message: "Hi"}

	got, accepted := HandleSubmit(f)
	if !accepted {
		t.Fatalf("valid form rejected: %v", got.Errors)
	}
	if got.Status != Editing {
		t.Errorf("Status = %v, want editing", got.Status)
	}
	if !got.Errors.Empty() {
		t.Errorf("Errors = %v, want empty", got.Errors)
	}
	if got.Values != f.Values {
		t.Errorf("Values = %+v, want kept %+v", got.Values, f.Values)
	}
}

func TestEditAfterReject_ClearsOnlyThatField(t *testing.T) {
	f, accepted := HandleSubmit(NewForm())
	if accepted {
		t.Fatal("empty form accepted")
	}

	edited, err := HandleEdit(f, FieldEmail, "ada")
	if err != nil {
		t.Fatalf("HandleEdit: %v", err)
	}
	if edited.Errors.Has(FieldEmail) {
		t.Errorf("email error not cleared: %v", edited.Errors)
	}
	if edited.Errors.Get(FieldName) != MsgNameRequired || edited.Errors.Get(FieldMessage) != MsgMessageRequired {
		t.Errorf("other errors lost: %v", edited.Errors)
	}
	if edited.Status != Rejected {
		t.Errorf("Status = %v, want rejected until next submit", edited.Status)
	}

	// The rejected form passed in is untouched.
	if !f.Errors.Has(FieldEmail) {
		t.Error("HandleEdit mutated its input form")
	}

	again, _ := HandleSubmit(edited)
	if again.Errors.Get(FieldEmail) != MsgEmailInvalid {
		t.Errorf("resubmit email error = %q, want %q", again.Errors.Get(FieldEmail), MsgEmailInvalid)
	}
}

func TestController_ResetOnAccept(t *testing.T) {
	valid := Form{Values: FormState{Name: "Ada", Email: "ada@example.com", Message: "Hi"}, Errors: ErrorState{}}

	keep := NewController()
	if got, ok := keep.Submit(valid); !ok || got.Values != valid.Values {
		t.Errorf("default controller: accepted=%v values=%+v", ok, got.Values)
	}

	reset := NewController(WithResetOnAccept())
	if !reset.ResetsOnAccept() {
		t.Error("ResetsOnAccept = false")
	}
	got, ok := reset.Submit(valid)
	if !ok {
		t.Fatal("valid form rejected")
	}
	if got.Values != (FormState{}) {
		t.Errorf("Values = %+v, want reset", got.Values)
	}

	// Rejected submits never reset.
	bad := valid
	bad.Values.Message = ""
	got, ok = reset.Submit(bad)
	if ok || got.Values != bad.Values {
		t.Errorf("rejected submit: accepted=%v values=%+v", ok, got.Values)
	}
}

func TestErrorState_SetRejectsUnknownField(t *testing.T) {
	e := ErrorState{}
	if err := e.Set(Field("phone"), "bad"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Set(phone) err = %v, want ErrUnknownField", err)
	}
	if err := e.Set(FieldName, MsgNameRequired); err != nil {
		t.Fatalf("Set(name): %v", err)
	}
	if err := e.Set(FieldName, ""); err != nil {
		t.Fatalf("Set(name, \"\"): %v", err)
	}
	if !e.Empty() {
		t.Errorf("empty message should clear entry, got %v", e)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(string(f))
		if err != nil || got != f {
			t.Errorf("ParseField(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseField("Name"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("ParseField(Name) err = %v, want ErrUnknownField", err)
	}
}
