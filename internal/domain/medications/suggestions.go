package medications

// Suggestion es una entrada del picker de medicamentos sugeridos.
// Las dosis son orientativas; la dosis real la define el clínico.
type Suggestion struct {
	Name string
	Dose string
}

// Suggestions devuelve la lista curada de medicamentos de Parkinson que el
// picker ofrece para alta rápida. El orden es fijo.
func Suggestions() []Suggestion {
	return []Suggestion{
		{Name: "Levodopa / Carbidopa", Dose: "e.g. 100/25 mg per dose; multiple formulations (IR/CR/intest. gel)"},
		{Name: "Pramipexole (dopamine agonist)", Dose: "e.g. 0.125-1.5 mg daily (titrate per clinician)"},
		{Name: "Ropinirole (dopamine agonist)", Dose: "e.g. 0.25-8 mg daily (titrate per clinician)"},
		{Name: "Rotigotine (patch)", Dose: "e.g. 2-8 mg/24h patch (clinician determines dose)"},
		{Name: "Selegiline (MAO-B inhibitor)", Dose: "e.g. 5-10 mg daily (tablet or orally disintegrating)"},
		{Name: "Rasagiline (MAO-B inhibitor)", Dose: "e.g. 0.5-1 mg daily"},
		{Name: "Entacapone (COMT inhibitor)", Dose: "200 mg with each levodopa dose"},
		{Name: "Opicapone (COMT inhibitor)", Dose: "e.g. 50 mg at bedtime"},
		{Name: "Amantadine", Dose: "e.g. 100-300 mg daily (for dyskinesia/rigidity)"},
		{Name: "Trihexyphenidyl (anticholinergic)", Dose: "e.g. 1-15 mg/day (titrate carefully)"},
	}
}
