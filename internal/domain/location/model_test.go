package location

import (
	"testing"
)

// TestParseForm_Valid verifies a complete form parses with parent id.
func TestParseForm_Valid(t *testing.T) {
	in, err := ParseForm(Form{Name: " Backpack ", Type: TypeContainer, ParentID: "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Name != "Backpack" {
		t.Errorf("expected trimmed name, got %q", in.Name)
	}
	if in.ParentID == nil || *in.ParentID != 3 {
		t.Errorf("expected parent 3, got %v", in.ParentID)
	}
}

// TestParseForm_EmptyParent verifies an empty parent becomes nil.
func TestParseForm_EmptyParent(t *testing.T) {
	in, err := ParseForm(Form{Name: "Head", Type: TypeBodySlot})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ParentID != nil {
		t.Errorf("expected nil parent, got %v", *in.ParentID)
	}
}

// TestParseForm_Errors verifies each rejection path.
func TestParseForm_Errors(t *testing.T) {
	cases := []struct {
		name string
		form Form
		want error
	}{
		{"missing name", Form{Type: TypeContainer}, ErrNameRequired},
		{"missing type", Form{Name: "Bag"}, ErrTypeRequired},
		{"bad parent", Form{Name: "Bag", Type: TypeContainer, ParentID: "x"}, ErrInvalidParentID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseForm(tc.form); err != tc.want {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

// TestLocation_TypeChecks verifies the body slot and container predicates.
func TestLocation_TypeChecks(t *testing.T) {
	if !(Location{Type: TypeBodySlot}).IsBodySlot() {
		t.Error("expected body slot")
	}
	if !(Location{Type: TypeContainer}).IsContainer() {
		t.Error("expected container")
	}
	if (Location{Type: TypeGeneric}).IsContainer() {
		t.Error("generic is not a container")
	}
}

// TestFormFrom verifies round-tripping a location into an edit form.
func TestFormFrom(t *testing.T) {
	parent := int64(9)
	f := FormFrom(Location{Name: "Pouch", Type: TypeContainer, ParentID: &parent})
	if f.ParentID != "9" || f.Name != "Pouch" {
		t.Errorf("unexpected form: %+v", f)
	}
}
