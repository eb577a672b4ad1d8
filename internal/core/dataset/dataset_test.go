package dataset

import (
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
)

func TestDatasetValidate(t *testing.T) {
	valid := Disease{
		Name:        "Influenza",
		Symptoms:    []string{"high fever", "headache"},
		Precautions: []string{"rest"},
	}

	cases := []struct {
		name      string
		dataset   Dataset
		wantField string
	}{
		{
			name:    "valid entry",
			dataset: Dataset{valid},
		},
		{
			name:      "empty dataset",
			dataset:   Dataset{},
			wantField: "diseases",
		},
		{
			name: "blank disease name",
			dataset: Dataset{
				{Name: "  ", Symptoms: []string{"cough"}},
			},
			wantField: "diseases[0].disease",
		},
		{
			name: "duplicate names ignore case",
			dataset: Dataset{
				valid,
				{Name: "influenza", Symptoms: []string{"chills"}},
			},
			wantField: "diseases[1].disease",
		},
		{
			name: "no symptoms",
			dataset: Dataset{
				{Name: "Allergy"},
			},
			wantField: "diseases[0].symptoms",
		},
		{
			name: "blank symptom",
			dataset: Dataset{
				{Name: "Allergy", Symptoms: []string{"sneezing", " "}},
			},
			wantField: "diseases[0].symptoms[1]",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.dataset.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}

			var fieldErrs criterio.FieldErrors
			if !errors.As(err, &fieldErrs) {
				t.Fatalf("error %v is not a criterio.FieldErrors", err)
			}
			found := false
			for _, fe := range fieldErrs {
				if fe.Field == tc.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tc.wantField, err)
			}
		})
	}
}

func TestDatasetFind(t *testing.T) {
	ds := Dataset{
		{Name: "Fungal infection", Symptoms: []string{"itching"}},
		{Name: "Allergy", Symptoms: []string{"sneezing"}},
	}

	if _, ok := ds.Find("allergy"); !ok {
		t.Error("expected case-insensitive match for allergy")
	}
	if d, ok := ds.Find("Fungal infection"); !ok || d.Symptoms[0] != "itching" {
		t.Errorf("Find returned %+v, %v", d, ok)
	}
	if _, ok := ds.Find("Migraine"); ok {
		t.Error("expected no match for Migraine")
	}
}
