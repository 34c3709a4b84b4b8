package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"

	"listingscraper/internal/models"
)

// makeSimilarity is the Jaro-Winkler score a word needs to be read as a known make
const makeSimilarity = 0.92

var yearToken = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

var knownMakes = []string{
	"Acura", "Alfa Romeo", "Aston Martin", "Audi", "Bentley", "BMW", "Buick",
	"Cadillac", "Chevrolet", "Chrysler", "Dodge", "Ferrari", "Fiat", "Ford",
	"Genesis", "GMC", "Honda", "Hyundai", "Infiniti", "Jaguar", "Jeep", "Kia",
	"Lamborghini", "Land Rover", "Lexus", "Lincoln", "Lotus", "Maserati",
	"Mazda", "McLaren", "Mercedes-Benz", "Mini", "Mitsubishi", "Nissan",
	"Polestar", "Porsche", "Ram", "Rivian", "Rolls-Royce", "Subaru", "Tesla",
	"Toyota", "Volkswagen", "Volvo",
}

var makeAliases = map[string]string{
	"chevy":     "Chevrolet",
	"vw":        "Volkswagen",
	"mercedes":  "Mercedes-Benz",
	"benz":      "Mercedes-Benz",
	"mb":        "Mercedes-Benz",
	"landrover": "Land Rover",
	"alfa":      "Alfa Romeo",
	"aston":     "Aston Martin",
	"rolls":     "Rolls-Royce",
}

var knownByLower = func() map[string]string {
	m := make(map[string]string, len(knownMakes))
	for _, name := range knownMakes {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// CanonicalMake maps a raw make word to its canonical spelling. Unknown
// words are returned unchanged with ok false.
func CanonicalMake(raw string) (string, bool) {
	key := strings.ToLower(strings.Trim(strings.TrimSpace(raw), ",.:;"))
	if key == "" {
		return "", false
	}
	if name, ok := knownByLower[key]; ok {
		return name, true
	}
	if name, ok := makeAliases[key]; ok {
		return name, true
	}

	best, bestScore := "", 0.0
	for _, name := range knownMakes {
		if score := matchr.JaroWinkler(key, strings.ToLower(name), false); score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore >= makeSimilarity {
		return best, true
	}
	return raw, false
}

// ParseYear returns the first plausible four-digit model year in title
func ParseYear(title string) (int, bool) {
	for _, m := range yearToken.FindAllString(title, -1) {
		year, err := strconv.Atoi(m)
		if err == nil && models.PlausibleYear(year) {
			return year, true
		}
	}
	return 0, false
}

// ParseMakeModel reads make and model from a listing title. The words after
// the year are used when a year is present, otherwise the second and third
// words. Two-word makes such as "Land Rover" are recognised.
func ParseMakeModel(title string) (vehicleMake, model string, ok bool) {
	words := strings.Fields(title)

	start := -1
	for i, w := range words {
		if yearToken.MatchString(w) && len(w) == 4 {
			start = i + 1
			break
		}
	}
	if start < 0 {
		start = 1
	}
	if len(words) < start+2 {
		return "", "", false
	}

	if len(words) >= start+3 {
		if name, known := CanonicalMake(words[start] + " " + words[start+1]); known && strings.Contains(name, " ") {
			return name, words[start+2], true
		}
	}
	name, _ := CanonicalMake(words[start])
	return name, words[start+1], true
}
