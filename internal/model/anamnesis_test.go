package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnamnesisCloneIsDeep(t *testing.T) {
	weeks := 12
	brushings := 2
	original := &Anamnesis{
		MotivoConsulta: "control",
		Allergies:      []AllergyEntry{{CatalogID: 1, Nombre: "Penicilina"}},
		Medications:    []MedicationEntry{{CatalogID: 2, Nombre: "Ibuprofeno"}},
		CepilladosDia:  &brushings,
		WomenSpecific:  &WomenSpecific{Embarazada: true, SemanasEmbarazo: &weeks},
	}

	clone := original.Clone()
	require.NotNil(t, clone)

	clone.MotivoConsulta = "urgencia"
	clone.Allergies[0].Nombre = "Latex"
	clone.Allergies = append(clone.Allergies, AllergyEntry{CatalogID: 3})
	*clone.CepilladosDia = 5
	clone.WomenSpecific.Embarazada = false
	*clone.WomenSpecific.SemanasEmbarazo = 30

	assert.Equal(t, "control", original.MotivoConsulta)
	assert.Equal(t, "Penicilina", original.Allergies[0].Nombre)
	assert.Len(t, original.Allergies, 1)
	assert.Equal(t, 2, *original.CepilladosDia)
	assert.True(t, original.WomenSpecific.Embarazada)
	assert.Equal(t, 12, *original.WomenSpecific.SemanasEmbarazo)
}

func TestAnamnesisCloneNil(t *testing.T) {
	var a *Anamnesis
	assert.Nil(t, a.Clone())
}

func TestAnamnesisCollectionsRoundTrip(t *testing.T) {
	a := &Anamnesis{
		Allergies:     []AllergyEntry{{CatalogID: 1, Nombre: "Penicilina", Severidad: "alta"}},
		Antecedents:   []AntecedentEntry{{CatalogID: 4, Nombre: "Diabetes", Controlado: true}},
		WomenSpecific: &WomenSpecific{Embarazada: true},
	}
	require.NoError(t, a.MarshalCollections())

	loaded := &Anamnesis{
		AllergiesJSON:     a.AllergiesJSON,
		MedicationsJSON:   a.MedicationsJSON,
		AntecedentsJSON:   a.AntecedentsJSON,
		WomenSpecificJSON: a.WomenSpecificJSON,
	}
	require.NoError(t, loaded.UnmarshalCollections())

	assert.Equal(t, a.Allergies, loaded.Allergies)
	assert.Equal(t, a.Antecedents, loaded.Antecedents)
	require.NotNil(t, loaded.WomenSpecific)
	assert.True(t, loaded.WomenSpecific.Embarazada)
}
