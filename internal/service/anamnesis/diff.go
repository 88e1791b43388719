package anamnesis

import (
	"encoding/json"
	"sort"

	"github.com/odontoapp/clinic-api/internal/model"
)

// Diff compares an initial record snapshot against the current (edited)
// snapshot and returns the ordered list of field-level changes. The walk
// follows the intake schema's declaration order, so output is stable for
// identical inputs. Nil snapshots degrade to an all-absent record instead
// of failing.
func Diff(initial, current *model.Anamnesis, rctx model.RecordContext) model.ChangeSet {
	if initial == nil {
		initial = &model.Anamnesis{}
	}
	if current == nil {
		current = &model.Anamnesis{}
	}

	var changes model.ChangeSet
	emit := func(c *model.FieldChange) {
		if c == nil {
			return
		}
		fc := Classify(c.FieldPath)
		c.FieldLabel = fc.Label
		c.Severity = fc.Severity
		c.Section = fc.Section
		changes = append(changes, *c)
	}

	// General
	emit(compareScalar("motivoConsulta", stringVal(initial.MotivoConsulta), stringVal(current.MotivoConsulta)))
	emit(compareScalar("dolorIntensidad", intPtrVal(initial.DolorIntensidad), intPtrVal(current.DolorIntensidad)))

	// Allergies
	emit(compareScalar("tieneAlergias", initial.TieneAlergias, current.TieneAlergias))
	emit(compareCollection("allergies", allergyKeys(initial.Allergies), allergyKeys(current.Allergies), initial.Allergies, current.Allergies))

	// Medications
	emit(compareScalar("tieneMedicacionActual", initial.TieneMedicacionActual, current.TieneMedicacionActual))
	emit(compareCollection("medications", medicationKeys(initial.Medications), medicationKeys(current.Medications), initial.Medications, current.Medications))

	// Medical history
	emit(compareScalar("tieneEnfermedadesCronicas", initial.TieneEnfermedadesCronicas, current.TieneEnfermedadesCronicas))
	emit(compareCollection("antecedents", antecedentKeys(initial.Antecedents), antecedentKeys(current.Antecedents), initial.Antecedents, current.Antecedents))

	// Habits
	emit(compareScalar("fuma", initial.Fuma, current.Fuma))
	emit(compareScalar("consumeAlcohol", initial.ConsumeAlcohol, current.ConsumeAlcohol))
	emit(compareScalar("bruxismo", initial.Bruxismo, current.Bruxismo))
	emit(compareScalar("cepilladosDia", intPtrVal(initial.CepilladosDia), intPtrVal(current.CepilladosDia)))
	emit(compareScalar("usaHiloDental", initial.UsaHiloDental, current.UsaHiloDental))

	// Women specific: only diffed for adult female patients.
	if rctx.AdultFemale {
		iw, cw := initial.WomenSpecific, current.WomenSpecific
		emit(compareScalar("womenSpecific.embarazada", wsBool(iw, func(w *model.WomenSpecific) bool { return w.Embarazada }), wsBool(cw, func(w *model.WomenSpecific) bool { return w.Embarazada })))
		emit(compareScalar("womenSpecific.semanasEmbarazo", wsInt(iw), wsInt(cw)))
		emit(compareScalar("womenSpecific.ultimaMenstruacion", wsString(iw), wsString(cw)))
		emit(compareScalar("womenSpecific.planificacionFamiliar", wsBool(iw, func(w *model.WomenSpecific) bool { return w.PlanificacionFamiliar }), wsBool(cw, func(w *model.WomenSpecific) bool { return w.PlanificacionFamiliar })))
	}

	// Pediatric fields: only diffed for pediatric patients.
	if rctx.Pediatric {
		emit(compareScalar("tieneHabitosSuccion", boolPtrVal(initial.TieneHabitosSuccion), boolPtrVal(current.TieneHabitosSuccion)))
		emit(compareScalar("lactanciaRegistrada", boolPtrVal(initial.LactanciaRegistrada), boolPtrVal(current.LactanciaRegistrada)))
	}

	return changes
}

// compareScalar emits a change when old and new differ. nil means the
// field is absent: absent→present is added, present→absent is removed,
// two differing present values are modified. No-op edits return nil.
func compareScalar(path string, oldVal, newVal interface{}) *model.FieldChange {
	switch {
	case oldVal == nil && newVal == nil:
		return nil
	case oldVal == nil:
		return &model.FieldChange{FieldPath: path, OldValue: nil, NewValue: newVal, ChangeType: model.ChangeAdded}
	case newVal == nil:
		return &model.FieldChange{FieldPath: path, OldValue: oldVal, NewValue: nil, ChangeType: model.ChangeRemoved}
	case oldVal != newVal:
		return &model.FieldChange{FieldPath: path, OldValue: oldVal, NewValue: newVal, ChangeType: model.ChangeModified}
	}
	return nil
}

// compareCollection emits at most one aggregate change per collection.
// Content comparison is order-insensitive: items are serialized and
// sorted before comparing, so reordering alone is never reported.
func compareCollection(path string, oldKeys, newKeys []string, oldVal, newVal interface{}) *model.FieldChange {
	switch {
	case len(oldKeys) == 0 && len(newKeys) == 0:
		return nil
	case len(oldKeys) == 0:
		return &model.FieldChange{FieldPath: path, OldValue: nil, NewValue: newVal, ChangeType: model.ChangeAdded}
	case len(newKeys) == 0:
		return &model.FieldChange{FieldPath: path, OldValue: oldVal, NewValue: nil, ChangeType: model.ChangeRemoved}
	}
	if !equalKeySets(oldKeys, newKeys) {
		return &model.FieldChange{FieldPath: path, OldValue: oldVal, NewValue: newVal, ChangeType: model.ChangeModified}
	}
	return nil
}

func equalKeySets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// canonical serializes one collection item into a comparable key.
func canonical(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func allergyKeys(items []model.AllergyEntry) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, canonical(it))
	}
	return keys
}

func medicationKeys(items []model.MedicationEntry) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, canonical(it))
	}
	return keys
}

func antecedentKeys(items []model.AntecedentEntry) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, canonical(it))
	}
	return keys
}

func stringVal(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func intPtrVal(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func boolPtrVal(p *bool) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func wsBool(w *model.WomenSpecific, get func(*model.WomenSpecific) bool) interface{} {
	if w == nil {
		return nil
	}
	return get(w)
}

func wsInt(w *model.WomenSpecific) interface{} {
	if w == nil || w.SemanasEmbarazo == nil {
		return nil
	}
	return *w.SemanasEmbarazo
}

func wsString(w *model.WomenSpecific) interface{} {
	if w == nil || w.UltimaMenstruacion == "" {
		return nil
	}
	return w.UltimaMenstruacion
}
