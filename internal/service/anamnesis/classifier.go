package anamnesis

import "github.com/odontoapp/clinic-api/internal/model"

// FieldClass is the classification of a single anamnesis field path.
type FieldClass struct {
	Severity model.Severity
	Label    string
	Section  string
}

// fieldTable is the static classification over the known field paths of
// the intake schema. Allergy and active-medication fields are critical;
// chronic-disease and pregnancy-adjacent fields are medium; everything
// else defaults to low.
var fieldTable = map[string]FieldClass{
	// General
	"motivoConsulta":  {model.SeverityLow, "Motivo de consulta", model.SectionGeneral},
	"dolorIntensidad": {model.SeverityLow, "Intensidad del dolor", model.SectionGeneral},

	// Allergies
	"tieneAlergias": {model.SeverityCritical, "Tiene alergias", model.SectionAllergies},
	"allergies":     {model.SeverityCritical, "Alergias registradas", model.SectionAllergies},

	// Medications
	"tieneMedicacionActual": {model.SeverityCritical, "Tiene medicación actual", model.SectionMedications},
	"medications":           {model.SeverityCritical, "Medicación registrada", model.SectionMedications},

	// Medical history
	"tieneEnfermedadesCronicas": {model.SeverityMedium, "Tiene enfermedades crónicas", model.SectionMedicalHistory},
	"antecedents":               {model.SeverityMedium, "Antecedentes registrados", model.SectionMedicalHistory},

	// Habits
	"fuma":           {model.SeverityLow, "Fuma", model.SectionHabits},
	"consumeAlcohol": {model.SeverityLow, "Consume alcohol", model.SectionHabits},
	"bruxismo":       {model.SeverityLow, "Bruxismo", model.SectionHabits},
	"cepilladosDia":  {model.SeverityLow, "Cepillados por día", model.SectionHabits},
	"usaHiloDental":  {model.SeverityLow, "Usa hilo dental", model.SectionHabits},

	// Women specific
	"womenSpecific.embarazada":            {model.SeverityMedium, "Embarazada", model.SectionWomenSpecific},
	"womenSpecific.semanasEmbarazo":       {model.SeverityMedium, "Semanas de embarazo", model.SectionWomenSpecific},
	"womenSpecific.ultimaMenstruacion":    {model.SeverityLow, "Última menstruación", model.SectionWomenSpecific},
	"womenSpecific.planificacionFamiliar": {model.SeverityLow, "Planificación familiar", model.SectionWomenSpecific},

	// Pediatric
	"tieneHabitosSuccion": {model.SeverityLow, "Tiene hábitos de succión", model.SectionPediatric},
	"lactanciaRegistrada": {model.SeverityLow, "Lactancia registrada", model.SectionPediatric},
}

// Classify maps a field path to its severity, display label and section.
// It is pure and total: unknown paths resolve to a low-severity entry in
// the "other" section with the path itself as label.
func Classify(fieldPath string) FieldClass {
	if fc, ok := fieldTable[fieldPath]; ok {
		return fc
	}
	return FieldClass{
		Severity: model.SeverityLow,
		Label:    fieldPath,
		Section:  model.SectionOther,
	}
}
