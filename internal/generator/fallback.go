package generator

import (
	"math/rand/v2"
)

// Entry is one question of the fallback bank.
type Entry struct {
	Question    string
	Correct     string
	Distractors [3]string
}

// Bank is a static per-category question catalog used when remote generation is unavailable.
// Lookups are by normalized category name; unknown categories use the default list.
type Bank struct {
	buckets  map[string][]Entry
	fallback []Entry
}

// NewBank builds a bank from category lists and a default list.
// Keys are normalized; names that collide after normalization share one list.
func NewBank(buckets map[string][]Entry, def []Entry) *Bank {
	b := &Bank{
		buckets:  make(map[string][]Entry, len(buckets)),
		fallback: def,
	}

	for name, entries := range buckets {
		key := Normalize(name)
		b.buckets[key] = append(b.buckets[key], entries...)
	}

	return b
}

// bucketIndex maps a difficulty tier to a position in a category list.
func bucketIndex(difficulty, size int) int {
	var idx int
	switch {
	case difficulty <= 1:
		idx = 0
	case difficulty == 2:
		idx = 1
	default:
		idx = 2
	}

	return min(idx, size-1)
}

// Pick returns the bank question for the category and difficulty.
// Selection is deterministic; distractor order is shuffled on every call.
func (b *Bank) Pick(category string, difficulty int) Candidate {
	entries, ok := b.buckets[Normalize(category)]
	if !ok || len(entries) == 0 {
		entries = b.fallback
	}

	e := entries[bucketIndex(difficulty, len(entries))]

	incorrect := []string{e.Distractors[0], e.Distractors[1], e.Distractors[2]}
	rand.Shuffle(len(incorrect), func(i, j int) {
		incorrect[i], incorrect[j] = incorrect[j], incorrect[i]
	})

	return Candidate{
		Question:  e.Question,
		Correct:   e.Correct,
		Incorrect: incorrect,
	}
}

// DefaultBank returns the built-in French catalog.
func DefaultBank() *Bank {
	return &Bank{
		buckets: map[string][]Entry{
			"geographie": {
				{"Quelle est la capitale de la France ?", "Paris", [3]string{"Lyon", "Marseille", "Toulouse"}},
				{"Quel est le plus grand océan du monde ?", "Océan Pacifique", [3]string{"Océan Atlantique", "Océan Indien", "Océan Arctique"}},
				{"Quel pays possède la plus grande superficie ?", "Russie", [3]string{"Canada", "États-Unis", "Chine"}},
				{"Quelle est la capitale de l'Allemagne ?", "Berlin", [3]string{"Munich", "Hambourg", "Francfort"}},
				{"Quel fleuve traverse Paris ?", "La Seine", [3]string{"La Loire", "Le Rhône", "La Garonne"}},
				{"Quelle montagne est la plus haute d'Europe ?", "Mont Blanc", [3]string{"Mont Elbrouz", "Mont Rosa", "Grossglockner"}},
			},
			"histoire": {
				{"En quelle année Christophe Colomb est-il arrivé en Amérique ?", "1492", [3]string{"1453", "1517", "1607"}},
				{"Quel empire a construit la Grande Muraille ?", "Empire chinois", [3]string{"Empire romain", "Empire ottoman", "Empire perse"}},
				{"Quel événement marque le début de la Révolution française ?", "Prise de la Bastille", [3]string{"Traité de Versailles", "Couronnement de Louis XVI", "Guerre de Cent Ans"}},
			},
			"sciences": {
				{"Quel état de la matière a un volume défini mais pas de forme définie ?", "Liquide", [3]string{"Solide", "Gaz", "Plasma"}},
				{"Quelle est l'unité de base de la vie ?", "Cellule", [3]string{"Atome", "Molécule", "Tissu"}},
				{"Quel gaz les plantes absorbent-elles pour la photosynthèse ?", "Dioxyde de carbone", [3]string{"Oxygène", "Azote", "Hydrogène"}},
			},
			"informatique": {
				{"Que signifie HTML ?", "HyperText Markup Language", [3]string{"HighText Machine Language", "Hyperlink and Text Markup Language", "Home Tool Markup Language"}},
				{"Quel protocole sécurise les connexions HTTPS ?", "TLS/SSL", [3]string{"FTP", "SMTP", "IP"}},
				{"Quel mot décrit le stockage temporaire rapide utilisé par un processeur ?", "Cache", [3]string{"Registre", "Tas", "Pile"}},
			},
			"islam": {
				{"Quel livre est la source principale de la foi islamique ?", "Le Coran", [3]string{"La Bible", "La Torah", "Les Hadiths"}},
				{"Combien y a-t-il de prières obligatoires quotidiennes en Islam ?", "5", [3]string{"3", "4", "6"}},
				{"Quel est le mois du jeûne annuel chez les musulmans ?", "Ramadan", [3]string{"Muharram", "Shawwal", "Dhu al-Hijjah"}},
			},
			"culture generale": {
				{"Combien de minutes comporte une heure ?", "60", [3]string{"30", "100", "45"}},
				{"Quelle couleur obtient-on en mélangeant le bleu et le jaune ?", "Vert", [3]string{"Violet", "Orange", "Marron"}},
				{"Quel instrument à six cordes est courant dans la musique pop et rock ?", "Guitare", [3]string{"Piano", "Violon", "Saxophone"}},
			},
		},
		fallback: []Entry{
			{"Quelle est la couleur du ciel en journée sans nuages ?", "Bleu", [3]string{"Vert", "Rouge", "Noir"}},
			{"Combien de jours contient une semaine ?", "7", [3]string{"5", "6", "8"}},
			{"Quel sens utilise-t-on pour écouter ?", "Ouïe", [3]string{"Vue", "Goût", "Toucher"}},
		},
	}
}
