package triage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediqhq/mediq/internal/core/dataset"
)

func testDataset() dataset.Dataset {
	return dataset.Dataset{
		{
			Name:        "Fungal infection",
			Symptoms:    []string{"itching", "skin rash", "nodal skin eruptions", "dischromic patches"},
			Precautions: []string{"bath twice", "use detol or neem in bathing water", "keep infected area dry", "use clean cloths"},
		},
		{
			Name:        "Allergy",
			Symptoms:    []string{"continuous sneezing", "shivering", "chills", "watering from eyes"},
			Precautions: []string{"apply calamine", "cover area with bandage", "use ice to compress itching"},
		},
		{
			Name:        "Common Cold",
			Symptoms:    []string{"continuous sneezing", "chills", "fatigue", "cough", "high fever", "headache", "runny nose"},
			Precautions: []string{"drink vitamin c rich drinks", "take vapour", "avoid cold food", "keep fever in check"},
		},
	}
}

func TestTriageVector(t *testing.T) {
	r, err := New(testDataset(), Options{})
	require.NoError(t, err)

	query := "I have rashes on my shoulder which itches a lot. There are also dark patches on my neck region."
	reply, err := r.Respond(context.Background(), query)
	require.NoError(t, err)

	assert.Contains(t, reply, "you may have **Fungal infection**")
	assert.Contains(t, reply, "**Matched symptoms (3/4):**")
	assert.Contains(t, reply, "- itching\n")
	assert.Contains(t, reply, "- skin rash\n")
	assert.Contains(t, reply, "- dischromic patches\n")
	assert.Contains(t, reply, "**Recommended precautions:**")
	assert.Contains(t, reply, "- bath twice\n")
	assert.Contains(t, reply, "*Note: This is an automated assessment.")
	assert.NotContains(t, reply, "Other possible conditions", "only one disease matched")
}

func TestTriageVectorResponseFormat(t *testing.T) {
	r, err := New(testDataset(), Options{})
	require.NoError(t, err)

	reply, err := r.Respond(context.Background(), "I can't stop sneezing and I have chills.")
	require.NoError(t, err)

	want := "Based on your symptoms, you may have **Allergy**.\n" +
		"\n" +
		"**Matched symptoms (2/4):**\n" +
		"- chills\n" +
		"- continuous sneezing\n" +
		"\n" +
		"**Recommended precautions:**\n" +
		"- apply calamine\n" +
		"- cover area with bandage\n" +
		"- use ice to compress itching\n" +
		"\n" +
		"**Other possible conditions:**\n" +
		"- Common Cold (score: 0.964)\n" +
		"\n" +
		"*Note: This is an automated assessment. Please consult a healthcare professional for proper diagnosis and treatment.*"
	assert.Equal(t, want, reply)
}

func TestTriageHybrid(t *testing.T) {
	r, err := New(testDataset(), Options{Strategy: StrategyHybrid})
	require.NoError(t, err)

	reply, err := r.Respond(context.Background(), "I can't stop sneezing and I have chills.")
	require.NoError(t, err)

	assert.Contains(t, reply, "you may have **Allergy**")
	assert.Contains(t, reply, "**Matched symptoms (2/4):**")
	assert.Contains(t, reply, "- chills\n")
	assert.Contains(t, reply, "- continuous sneezing\n")
	assert.Contains(t, reply, "- Common Cold (score: 0.214)")
}

func TestTriageNoMatch(t *testing.T) {
	r, err := New(testDataset(), Options{})
	require.NoError(t, err)

	for _, query := range []string{
		"my car will not start",
		"...",
	} {
		reply, err := r.Respond(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, NoMatchReply, reply, "query %q", query)
	}
}

func TestTriageTopK(t *testing.T) {
	r, err := New(testDataset(), Options{TopK: 1})
	require.NoError(t, err)

	reply, err := r.Respond(context.Background(), "sneezing and chills")
	require.NoError(t, err)

	assert.Contains(t, reply, "you may have **Allergy**")
	assert.NotContains(t, reply, "Other possible conditions")
}

func TestTriageThreshold(t *testing.T) {
	strict, err := New(testDataset(), Options{Threshold: 0.9})
	require.NoError(t, err)

	// A half-overlap match like "sneezing" vs "continuous sneezing" clears
	// the default threshold but not a strict one.
	reply, err := strict.Respond(context.Background(), "I keep sneezing")
	require.NoError(t, err)
	assert.Equal(t, NoMatchReply, reply)

	relaxed, err := New(testDataset(), Options{})
	require.NoError(t, err)

	reply, err = relaxed.Respond(context.Background(), "I keep sneezing")
	require.NoError(t, err)
	assert.True(t, strings.Contains(reply, "**Allergy**") || strings.Contains(reply, "**Common Cold**"))
}

func TestNewRejectsInvalidInput(t *testing.T) {
	_, err := New(dataset.Dataset{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dataset")

	_, err = New(testDataset(), Options{Strategy: Strategy("graph")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}
