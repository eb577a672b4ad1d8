package dataset

import (
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	symptoms := `Disease,Symptom_1,Symptom_2,Symptom_3
Fungal infection,itching, skin_rash,dischromic _patches
Fungal infection, skin_rash,itching,nodal_skin_eruptions
Allergy,continuous_sneezing,shivering,
`
	precautions := `Disease,Precaution_1,Precaution_2
Fungal infection,bath twice,use clean cloths
Allergy,avoid allergens,
Drug Reaction,stop irritation,
`

	ds, err := Build(strings.NewReader(symptoms), strings.NewReader(precautions), zerolog.New(io.Discard))
	require.NoError(t, err)
	require.Len(t, ds, 2, "precautions-only diseases are skipped")

	fungal := ds[0]
	assert.Equal(t, "Fungal infection", fungal.Name)
	assert.Equal(t, []string{"itching", "skin rash", "dischromic  patches", "nodal skin eruptions"}, fungal.Symptoms,
		"symptoms trimmed, underscores replaced, deduplicated in first-seen order")
	assert.Equal(t, []string{"bath twice", "use clean cloths"}, fungal.Precautions)

	allergy := ds[1]
	assert.Equal(t, "Allergy", allergy.Name)
	assert.Equal(t, []string{"continuous sneezing", "shivering"}, allergy.Symptoms)
	assert.Equal(t, []string{"avoid allergens"}, allergy.Precautions)
}

func TestBuildMissingPrecautions(t *testing.T) {
	symptoms := `Disease,Symptom_1
Migraine,headache
`
	precautions := `Disease,Precaution_1
`

	_, err := Build(strings.NewReader(symptoms), strings.NewReader(precautions), zerolog.New(io.Discard))
	require.Error(t, err, "a header-only precautions file has no data rows")

	precautions = `Disease,Precaution_1
Other,rest
`
	ds, err := Build(strings.NewReader(symptoms), strings.NewReader(precautions), zerolog.New(io.Discard))
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, []string{}, ds[0].Precautions, "missing precautions become an empty list, not null")
}

func TestBuildBlankRows(t *testing.T) {
	symptoms := `Disease,Symptom_1,Symptom_2
  ,ghost symptom,
Cold,runny_nose,
`
	precautions := `Disease,Precaution_1
Cold,keep warm
`

	ds, err := Build(strings.NewReader(symptoms), strings.NewReader(precautions), zerolog.New(io.Discard))
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "Cold", ds[0].Name)
	assert.Equal(t, []string{"runny nose"}, ds[0].Symptoms, "blank cells are dropped")
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	_, err := Build(strings.NewReader(""), strings.NewReader("Disease,P1\nCold,rest\n"), zerolog.New(io.Discard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read symptoms")
}
