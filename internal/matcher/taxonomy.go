// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import "sort"

// The taxonomy tables translate questionnaire answers into catalog
// vocabulary. The note labels are Persian because the catalog data is;
// they are folded through NormalizeNote before entering the vector space.

// moodNotes maps a mood to representative note labels.
var moodNotes = map[Mood][]string{
	MoodFresh:  {"ترنج", "لیمو", "گریپ فروت", "اقیانوسی", "نعنا"},
	MoodSweet:  {"وانیل", "کارامل", "پرالین", "عسل", "تونکا"},
	MoodWarm:   {"دارچین", "فلفل", "کهربا", "ادویه‌ای"},
	MoodFloral: {"رز", "یاس", "شکوفه پرتقال", "گل صدتومانی"},
	MoodWoody:  {"چوب صندل", "سدر", "عود", "خس خس"},
}

// momentNotes maps a usage moment to supportive note labels.
var momentNotes = map[Moment][]string{
	MomentDaily:   {"خنک", "ملایم", "ترنج"},
	MomentEvening: {"کهربا", "رز", "عود"},
	MomentOutdoor: {"اقیانوسی", "نعنا", "لیمو"},
	MomentGift:    {"وانیل", "رز", "مشک"},
}

// momentOccasions maps a usage moment to occasion tags.
var momentOccasions = map[Moment][]Occasion{
	MomentDaily:   {OccasionEveryday, OccasionOffice},
	MomentEvening: {OccasionNightOut, OccasionDate},
	MomentOutdoor: {OccasionSport, OccasionEveryday},
	MomentGift:    {OccasionFormal, OccasionEveryday},
}

// timeOccasions maps time-of-day to occasion tags. "anytime" expands to
// both so fragrances suitable for day and night match.
var timeOccasions = map[TimeOfDay][]Occasion{
	TimeDay:     {OccasionDaytime},
	TimeNight:   {OccasionNight},
	TimeAnytime: {OccasionDaytime, OccasionNight},
}

// styleGenders maps a style to gender leanings. "any" is intentionally
// empty: no gender bias when the user has no preference.
var styleGenders = map[Style][]Gender{
	StyleFeminine:  {GenderFemale},
	StyleMasculine: {GenderMale},
	StyleUnisex:    {GenderUnisex},
	StyleAny:       {},
}

// desiredIntensities maps the questionnaire's coarse strength choice onto
// catalog intensity values.
var desiredIntensities = map[DesiredIntensity][]Intensity{
	DesiredLight:  {IntensitySoft},
	DesiredMedium: {IntensityModerate},
	DesiredStrong: {IntensityStrong},
}

// noteCategoryLabels maps a like/dislike category to representative note
// labels.
var noteCategoryLabels = map[NoteCategory][]string{
	NoteCitrus:    {"ترنج", "لیمو", "پرتقال", "گریپ فروت", "ماندارین"},
	NoteFloral:    {"رز", "یاس", "شمعدانی", "یاسمن", "گل صدتومانی"},
	NoteWoody:     {"سدر", "چوب صندل", "عود", "خس خس", "وتیور"},
	NoteSpicy:     {"فلفل", "دارچین", "هل", "میخک", "زعفران"},
	NoteSweet:     {"وانیل", "کارامل", "پرالین", "عسل", "تونکا"},
	NoteGourmand:  {"قهوه", "شکلات", "کاکائو", "بادام", "فندق"},
	NoteFruity:    {"سیب", "انگور", "توت فرنگی", "انار", "انجیر"},
	NoteGreen:     {"نعنا", "ریحان", "چای سبز", "گیاهی", "اسطوخودوس"},
	NoteOriental:  {"کهربا", "بخور", "لابدانوم", "بنزوئین"},
	NoteResinous:  {"رزین", "صمغ", "بالم", "الوبانوم"},
	NoteAquatic:   {"آب", "دریا", "اقیانوسی", "خزه"},
	NoteEarthy:    {"خاک", "پچولی", "خزه", "ترافل"},
	NoteMusky:     {"مشک", "کشمیر", "ایریس"},
	NoteAnimalic:  {"کاستوریوم", "عنبر"},
	NotePowdery:   {"پودری", "ایریس", "پودر تالک"},
	NoteTobacco:   {"تنباکو", "شکوفه تنباکو"},
	NoteLeather:   {"چرم"},
	NoteHerbal:    {"بابونه", "افسنطین", "جینسینگ", "رازک", "بادرنجبویه"},
	NoteBeverage:  {"شراب", "شامپاین", "براندی", "تکیلا", "ویسکی"},
	NoteSynthetic: {"آلدئیدها", "ایندول", "سیترون", "لورنوکس"},
	NoteMineral:   {"فلز", "سنگ", "آسفالت", "باروت"},
}

// sweetAxisNotes and freshAxisNotes back the legacy sweetness/freshness
// sliders. Each slider point repeats the axis marker plus these labels.
var (
	sweetAxisNotes = []string{"وانیل", "تونکا", "پرالین", "کارامل", "عسل"}
	freshAxisNotes = []string{"ترنج", "لیمو", "نعنا", "اقیانوسی", "سیب سبز"}
)

// oudLabels are the normalized forms recognized as oud for the avoidance
// penalty, covering both the Persian label and the Latin spelling.
var oudLabels = []string{NormalizeNote("عود"), "oud"}

// contextNotes and contextOccasions serve older clients that send the
// legacy context field instead of moods and moments.
var contextNotes = map[Context][]string{
	ContextOffice:       {"خنک", "ملایم"},
	ContextCasualDay:    {},
	ContextDateNight:    {"وانیل", "رز", "کهربا"},
	ContextClub:         {"عود", "خیلی قوی"},
	ContextSpecialEvent: {"چوب صندل", "مشک", "کهربا"},
}

var contextOccasions = map[Context][]Occasion{
	ContextOffice:       {OccasionOffice},
	ContextCasualDay:    {OccasionEveryday},
	ContextDateNight:    {OccasionDate},
	ContextClub:         {OccasionNightOut},
	ContextSpecialEvent: {OccasionFormal},
}

// ValidNoteCategory reports whether the category exists in the taxonomy.
func ValidNoteCategory(c NoteCategory) bool {
	_, ok := noteCategoryLabels[c]
	return ok
}

// NoteCategories returns the taxonomy's category keys in sorted order.
func NoteCategories() []NoteCategory {
	out := make([]NoteCategory, 0, len(noteCategoryLabels))
	for c := range noteCategoryLabels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TaxonomyTables is a read-only snapshot of the expansion tables, exposed
// for catalog tooling and the taxonomy endpoint.
type TaxonomyTables struct {
	MoodNotes          map[string][]string `json:"mood_notes"`
	MomentNotes        map[string][]string `json:"moment_notes"`
	MomentOccasions    map[string][]string `json:"moment_occasions"`
	TimeOccasions      map[string][]string `json:"time_occasions"`
	StyleGenders       map[string][]string `json:"style_genders"`
	NoteCategoryLabels map[string][]string `json:"note_categories"`
	SweetAxisNotes     []string            `json:"sweet_axis_notes"`
	FreshAxisNotes     []string            `json:"fresh_axis_notes"`
	ContextNotes       map[string][]string `json:"context_notes"`
	ContextOccasions   map[string][]string `json:"context_occasions"`
}

// Taxonomy returns deep copies of the expansion tables. Mutating the
// returned maps does not affect matching.
func Taxonomy() TaxonomyTables {
	return TaxonomyTables{
		MoodNotes:          copyStringTable(moodNotes),
		MomentNotes:        copyStringTable(momentNotes),
		MomentOccasions:    copyEnumTable(momentOccasions),
		TimeOccasions:      copyEnumTable(timeOccasions),
		StyleGenders:       copyEnumTable(styleGenders),
		NoteCategoryLabels: copyStringTable(noteCategoryLabels),
		SweetAxisNotes:     append([]string(nil), sweetAxisNotes...),
		FreshAxisNotes:     append([]string(nil), freshAxisNotes...),
		ContextNotes:       copyStringTable(contextNotes),
		ContextOccasions:   copyEnumTable(contextOccasions),
	}
}

func copyStringTable[K ~string](src map[K][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for k, vs := range src {
		out[string(k)] = append([]string(nil), vs...)
	}
	return out
}

func copyEnumTable[K ~string, V ~string](src map[K][]V) map[string][]string {
	out := make(map[string][]string, len(src))
	for k, vs := range src {
		copied := make([]string, len(vs))
		for i, v := range vs {
			copied[i] = string(v)
		}
		out[string(k)] = copied
	}
	return out
}
