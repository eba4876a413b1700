// Package classify assigns a category to an article from its text.
package classify

import "strings"

// Categories in canonical order. Gündem is the fallback when nothing
// scores.
const (
	Gundem    = "Gündem"
	Ekonomi   = "Ekonomi"
	Spor      = "Spor"
	Teknoloji = "Teknoloji"
	Dunya     = "Dünya"
	Saglik    = "Sağlık"
	Magazin   = "Magazin"
)

func Categories() []string {
	return []string{Gundem, Ekonomi, Spor, Teknoloji, Dunya, Saglik, Magazin}
}

var categoryKeywords = map[string][]string{
	Ekonomi: {
		"ekonomi", "dolar", "euro", "faiz", "enflasyon", "borsa", "piyasa",
		"merkez bankası", "zam", "asgari ücret", "vergi", "ihracat", "bütçe",
	},
	Spor: {
		"galatasaray", "fenerbahçe", "beşiktaş", "trabzonspor", "maç", "gol",
		"transfer", "süper lig", "futbol", "basketbol", "teknik direktör",
		"milli takım", "şampiyonlar ligi",
	},
	Teknoloji: {
		"yapay zeka", "teknoloji", "iphone", "android", "uygulama", "yazılım",
		"internet", "siber", "akıllı telefon", "elektrikli araç",
	},
	Dunya: {
		"abd", "rusya", "ukrayna", "çin", "israil", "avrupa birliği", "nato",
		"birleşmiş milletler", "dışişleri", "büyükelçi",
	},
	Saglik: {
		"sağlık", "hastane", "aşı", "virüs", "salgın", "kanser", "doktor",
		"sağlık bakanlığı",
	},
	Magazin: {
		"magazin", "ünlü", "dizi", "film", "konser", "festival", "oyuncu",
	},
}

// Classify scores title and description against the keyword table. Title
// matches weigh double. Returns fallback when nothing scores; an empty
// fallback yields Gündem.
func Classify(title, description, fallback string) string {
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	best := ""
	bestScore := 0
	for _, cat := range Categories() {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(titleLower, kw) {
				score += 2
			}
			if strings.Contains(descLower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}

	if bestScore == 0 {
		if fallback != "" {
			return fallback
		}
		return Gundem
	}
	return best
}
