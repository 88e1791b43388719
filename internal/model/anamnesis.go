package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Anamnesis is the structured clinical intake record for a patient.
// Scalar flags and the three catalog-backed collections follow the
// intake form's declared schema; the JSON field names double as the
// stable field paths used for change tracking.
type Anamnesis struct {
	Base
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`

	// General
	MotivoConsulta  string `db:"motivo_consulta" json:"motivoConsulta"`
	DolorIntensidad *int   `db:"dolor_intensidad" json:"dolorIntensidad,omitempty"`

	// Allergies
	TieneAlergias bool            `db:"tiene_alergias" json:"tieneAlergias"`
	AllergiesJSON json.RawMessage `db:"allergies" json:"-"`
	Allergies     []AllergyEntry  `json:"allergies"`

	// Medications
	TieneMedicacionActual bool              `db:"tiene_medicacion_actual" json:"tieneMedicacionActual"`
	MedicationsJSON       json.RawMessage   `db:"medications" json:"-"`
	Medications           []MedicationEntry `json:"medications"`

	// Medical history
	TieneEnfermedadesCronicas bool              `db:"tiene_enfermedades_cronicas" json:"tieneEnfermedadesCronicas"`
	AntecedentsJSON           json.RawMessage   `db:"antecedents" json:"-"`
	Antecedents               []AntecedentEntry `json:"antecedents"`

	// Habits
	Fuma           bool `db:"fuma" json:"fuma"`
	ConsumeAlcohol bool `db:"consume_alcohol" json:"consumeAlcohol"`
	Bruxismo       bool `db:"bruxismo" json:"bruxismo"`
	CepilladosDia  *int `db:"cepillados_dia" json:"cepilladosDia,omitempty"`
	UsaHiloDental  bool `db:"usa_hilo_dental" json:"usaHiloDental"`

	// Conditional: adult female patients only
	WomenSpecificJSON json.RawMessage `db:"women_specific" json:"-"`
	WomenSpecific     *WomenSpecific  `json:"womenSpecific,omitempty"`

	// Conditional: pediatric patients only
	TieneHabitosSuccion *bool `db:"tiene_habitos_succion" json:"tieneHabitosSuccion,omitempty"`
	LactanciaRegistrada *bool `db:"lactancia_registrada" json:"lactanciaRegistrada,omitempty"`

	UpdatedBy uuid.UUID `db:"updated_by" json:"updated_by"`
}

// AllergyEntry references an allergy catalog item recorded for the patient.
type AllergyEntry struct {
	CatalogID int64  `json:"catalogId"`
	Nombre    string `json:"nombre"`
	Reaccion  string `json:"reaccion,omitempty"`
	Severidad string `json:"severidad,omitempty"`
}

// MedicationEntry references a medication catalog item the patient takes.
type MedicationEntry struct {
	CatalogID  int64  `json:"catalogId"`
	Nombre     string `json:"nombre"`
	Dosis      string `json:"dosis,omitempty"`
	Frecuencia string `json:"frecuencia,omitempty"`
}

// AntecedentEntry references a chronic-disease catalog item.
type AntecedentEntry struct {
	CatalogID  int64  `json:"catalogId"`
	Nombre     string `json:"nombre"`
	Controlado bool   `json:"controlado"`
	Notas      string `json:"notas,omitempty"`
}

// WomenSpecific holds the intake fields collected for adult female patients.
type WomenSpecific struct {
	Embarazada            bool   `json:"embarazada"`
	SemanasEmbarazo       *int   `json:"semanasEmbarazo,omitempty"`
	UltimaMenstruacion    string `json:"ultimaMenstruacion,omitempty"`
	PlanificacionFamiliar bool   `json:"planificacionFamiliar"`
}

// RecordContext indicates which conditional sections of the record apply.
type RecordContext struct {
	AdultFemale bool `json:"adult_female"`
	Pediatric   bool `json:"pediatric"`
}

// Clone returns a deep copy so an edit session can mutate a private
// working copy without touching the loaded snapshot.
func (a *Anamnesis) Clone() *Anamnesis {
	if a == nil {
		return nil
	}
	out := *a
	out.Allergies = append([]AllergyEntry(nil), a.Allergies...)
	out.Medications = append([]MedicationEntry(nil), a.Medications...)
	out.Antecedents = append([]AntecedentEntry(nil), a.Antecedents...)
	if a.WomenSpecific != nil {
		ws := *a.WomenSpecific
		if a.WomenSpecific.SemanasEmbarazo != nil {
			v := *a.WomenSpecific.SemanasEmbarazo
			ws.SemanasEmbarazo = &v
		}
		out.WomenSpecific = &ws
	}
	out.DolorIntensidad = cloneIntPtr(a.DolorIntensidad)
	out.CepilladosDia = cloneIntPtr(a.CepilladosDia)
	out.TieneHabitosSuccion = cloneBoolPtr(a.TieneHabitosSuccion)
	out.LactanciaRegistrada = cloneBoolPtr(a.LactanciaRegistrada)
	return &out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MarshalCollections refreshes the raw JSON columns from the typed slices.
func (a *Anamnesis) MarshalCollections() error {
	var err error
	if a.AllergiesJSON, err = json.Marshal(a.Allergies); err != nil {
		return err
	}
	if a.MedicationsJSON, err = json.Marshal(a.Medications); err != nil {
		return err
	}
	if a.AntecedentsJSON, err = json.Marshal(a.Antecedents); err != nil {
		return err
	}
	if a.WomenSpecific != nil {
		if a.WomenSpecificJSON, err = json.Marshal(a.WomenSpecific); err != nil {
			return err
		}
	} else {
		a.WomenSpecificJSON = nil
	}
	return nil
}

// UnmarshalCollections populates the typed slices from the raw JSON columns.
func (a *Anamnesis) UnmarshalCollections() error {
	if len(a.AllergiesJSON) > 0 {
		if err := json.Unmarshal(a.AllergiesJSON, &a.Allergies); err != nil {
			return err
		}
	}
	if len(a.MedicationsJSON) > 0 {
		if err := json.Unmarshal(a.MedicationsJSON, &a.Medications); err != nil {
			return err
		}
	}
	if len(a.AntecedentsJSON) > 0 {
		if err := json.Unmarshal(a.AntecedentsJSON, &a.Antecedents); err != nil {
			return err
		}
	}
	if len(a.WomenSpecificJSON) > 0 {
		if err := json.Unmarshal(a.WomenSpecificJSON, &a.WomenSpecific); err != nil {
			return err
		}
	}
	return nil
}

// Touch updates bookkeeping fields before persistence.
func (a *Anamnesis) Touch(by uuid.UUID) {
	a.UpdatedAt = time.Now()
	a.UpdatedBy = by
}
