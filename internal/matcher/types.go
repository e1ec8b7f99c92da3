// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import "context"

// Gender is a fragrance gender affinity. The zero value means unspecified.
type Gender string

// Gender affinity values.
const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderUnisex      Gender = "unisex"
	GenderUnspecified Gender = ""
)

// Season is a wearing season.
type Season string

// Season values.
const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Occasion is a wearing occasion.
type Occasion string

// Occasion values.
const (
	OccasionOffice   Occasion = "office"
	OccasionDate     Occasion = "date"
	OccasionNightOut Occasion = "night_out"
	OccasionEveryday Occasion = "everyday"
	OccasionFormal   Occasion = "formal"
	OccasionSport    Occasion = "sport"
	OccasionDaytime  Occasion = "daytime"
	OccasionNight    Occasion = "night"
)

// Intensity is a projection strength. The zero value means unspecified.
type Intensity string

// Intensity values.
const (
	IntensitySoft        Intensity = "soft"
	IntensityModerate    Intensity = "moderate"
	IntensityStrong      Intensity = "strong"
	IntensityVeryStrong  Intensity = "very_strong"
	IntensityUnspecified Intensity = ""
)

// Mood is a questionnaire mood choice.
type Mood string

// Mood values.
const (
	MoodFresh  Mood = "fresh"
	MoodSweet  Mood = "sweet"
	MoodWarm   Mood = "warm"
	MoodFloral Mood = "floral"
	MoodWoody  Mood = "woody"
)

// Moment is a questionnaire usage-moment choice.
type Moment string

// Moment values.
const (
	MomentDaily   Moment = "daily"
	MomentEvening Moment = "evening"
	MomentOutdoor Moment = "outdoor"
	MomentGift    Moment = "gift"
)

// TimeOfDay is a questionnaire time-of-day choice.
type TimeOfDay string

// TimeOfDay values.
const (
	TimeDay     TimeOfDay = "day"
	TimeNight   TimeOfDay = "night"
	TimeAnytime TimeOfDay = "anytime"
)

// DesiredIntensity is the questionnaire's coarse strength choice. It maps
// onto catalog Intensity values during expansion.
type DesiredIntensity string

// DesiredIntensity values.
const (
	DesiredLight  DesiredIntensity = "light"
	DesiredMedium DesiredIntensity = "medium"
	DesiredStrong DesiredIntensity = "strong"
)

// Style is a questionnaire style choice; it maps onto gender affinities.
type Style string

// Style values.
const (
	StyleFeminine  Style = "feminine"
	StyleMasculine Style = "masculine"
	StyleUnisex    Style = "unisex"
	StyleAny       Style = "any"
)

// NoteCategory is a coarse olfactory note family used for likes and
// dislikes. Each category maps to representative catalog note labels.
type NoteCategory string

// NoteCategory values.
const (
	NoteCitrus    NoteCategory = "citrus"
	NoteFloral    NoteCategory = "floral"
	NoteFruity    NoteCategory = "fruity"
	NoteWoody     NoteCategory = "woody"
	NoteSpicy     NoteCategory = "spicy"
	NoteSweet     NoteCategory = "sweet"
	NoteGourmand  NoteCategory = "gourmand"
	NoteGreen     NoteCategory = "green"
	NoteOriental  NoteCategory = "oriental"
	NoteResinous  NoteCategory = "resinous"
	NoteAquatic   NoteCategory = "aquatic"
	NoteEarthy    NoteCategory = "earthy"
	NoteMusky     NoteCategory = "musky"
	NoteAnimalic  NoteCategory = "animalic"
	NotePowdery   NoteCategory = "powdery"
	NoteTobacco   NoteCategory = "tobacco"
	NoteLeather   NoteCategory = "leather"
	NoteHerbal    NoteCategory = "herbal"
	NoteBeverage  NoteCategory = "beverage"
	NoteSynthetic NoteCategory = "synthetic"
	NoteMineral   NoteCategory = "mineral"
)

// Context is a legacy wearing-context choice carried for older clients.
type Context string

// Context values.
const (
	ContextOffice       Context = "office"
	ContextCasualDay    Context = "casual_day"
	ContextDateNight    Context = "date_night"
	ContextClub         Context = "club"
	ContextSpecialEvent Context = "special_event"
)

// Fragrance is a single catalog item. Note labels are stored as the
// catalog provides them; normalization happens during tokenization.
type Fragrance struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Family      string     `json:"family,omitempty"`
	Gender      Gender     `json:"gender,omitempty"`
	TopNotes    []string   `json:"top_notes"`
	HeartNotes  []string   `json:"heart_notes"`
	BaseNotes   []string   `json:"base_notes"`
	MainAccords []string   `json:"main_accords"`
	Seasons     []Season   `json:"seasons,omitempty"`
	Occasions   []Occasion `json:"occasions,omitempty"`
	Intensity   Intensity  `json:"intensity,omitempty"`
}

// Canonicalize replaces nil note slices with empty ones so that a
// fragrance round-trips through JSON with arrays, never null.
func (f *Fragrance) Canonicalize() {
	if f.TopNotes == nil {
		f.TopNotes = []string{}
	}
	if f.HeartNotes == nil {
		f.HeartNotes = []string{}
	}
	if f.BaseNotes == nil {
		f.BaseNotes = []string{}
	}
	if f.MainAccords == nil {
		f.MainAccords = []string{}
	}
}

// Profile is a user preference profile. Canonical questionnaire fields and
// legacy fields are additive: every populated field contributes terms.
type Profile struct {
	Moods        []Mood             `json:"moods,omitempty"`
	Moments      []Moment           `json:"moments,omitempty"`
	Times        []TimeOfDay        `json:"times,omitempty"`
	Intensities  []DesiredIntensity `json:"intensity,omitempty"`
	Styles       []Style            `json:"styles,omitempty"`
	NoteLikes    []NoteCategory     `json:"noteLikes,omitempty"`
	NoteDislikes []NoteCategory     `json:"noteDislikes,omitempty"`

	// Legacy fields.
	Contexts []Context `json:"contexts,omitempty"`
	Strength Intensity `json:"strength,omitempty"`
	Gender   Gender    `json:"gender,omitempty"`

	// Sliders, clamped to [0,5] during expansion.
	Sweetness int `json:"sweetness"`
	Freshness int `json:"freshness"`

	AvoidVerySweet bool `json:"avoid_very_sweet"`
	AvoidOud       bool `json:"avoid_oud"`

	// Limit is the maximum number of results. Zero means the engine default.
	Limit int `json:"limit"`
}

// TermKind classifies a vocabulary term by its source field.
type TermKind int

// Term kinds.
const (
	KindNote TermKind = iota
	KindTopNote
	KindHeartNote
	KindBaseNote
	KindAccord
	KindFamily
	KindGender
	KindSeason
	KindOccasion
	KindIntensity
	KindSweetAxis
	KindSweetAxisNote
	KindFreshAxis
	KindFreshAxisNote
	KindAvoid
)

// termPrefixes maps each kind to its vocabulary token prefix. The axis
// markers have no value component so their prefix is the full token.
var termPrefixes = [...]string{
	KindNote:          "note_",
	KindTopNote:       "topnote_",
	KindHeartNote:     "heartnote_",
	KindBaseNote:      "basenote_",
	KindAccord:        "accord_",
	KindFamily:        "family_",
	KindGender:        "gender_",
	KindSeason:        "season_",
	KindOccasion:      "occasion_",
	KindIntensity:     "intensity_",
	KindSweetAxis:     "axis_sweet",
	KindSweetAxisNote: "axis_sweet_note_",
	KindFreshAxis:     "axis_fresh",
	KindFreshAxisNote: "axis_fresh_note_",
	KindAvoid:         "avoid_",
}

// String returns the kind's token prefix without the trailing underscore.
func (k TermKind) String() string {
	if int(k) < 0 || int(k) >= len(termPrefixes) {
		return "unknown"
	}
	p := termPrefixes[k]
	if len(p) > 0 && p[len(p)-1] == '_' {
		return p[:len(p)-1]
	}
	return p
}

// Term is a single tagged vocabulary term. Value holds the normalized
// label; the Kind determines the rendered token prefix.
type Term struct {
	Kind  TermKind
	Value string
}

// Token renders the term as a vocabulary token string.
func (t Term) Token() string {
	if int(t.Kind) < 0 || int(t.Kind) >= len(termPrefixes) {
		return t.Value
	}
	return termPrefixes[t.Kind] + t.Value
}

// IsAvoidance reports whether the term expresses a dislike rather than a
// preference. Avoidance terms never enter the vector space.
func (t Term) IsAvoidance() bool {
	return t.Kind == KindAvoid
}

// Tokens renders a term sequence as token strings, preserving order and
// repetition.
func Tokens(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Token()
	}
	return out
}

// SplitTerms partitions terms into matching terms and avoidance terms,
// preserving relative order within each partition.
func SplitTerms(terms []Term) (match, avoid []Term) {
	for _, t := range terms {
		if t.IsAvoidance() {
			avoid = append(avoid, t)
		} else {
			match = append(match, t)
		}
	}
	return match, avoid
}

// Candidate is a locally scored catalog item handed to the re-ranker.
type Candidate struct {
	Fragrance Fragrance `json:"fragrance"`
	Score     float64   `json:"score"`
	Percent   int       `json:"match_percentage"`
}

// Ranking is one entry of the final presentation-layer ranking.
type Ranking struct {
	ID              string   `json:"id"`
	MatchPercentage int      `json:"match_percentage"`
	Reasons         []string `json:"reasons,omitempty"`
}

// Result is a single recommendation returned to the caller.
type Result struct {
	Fragrance       Fragrance `json:"fragrance"`
	Score           float64   `json:"score"`
	MatchPercentage int       `json:"match_percentage"`
	Reasons         []string  `json:"reasons,omitempty"`
}

// Recommendation is the full response of a single Recommend call.
type Recommendation struct {
	Results      []Result `json:"results"`
	ProfileText  string   `json:"profile_text_debug"`
	UsedFallback bool     `json:"used_fallback"`
	ModelVersion uint64   `json:"model_version"`
}

// Status describes the currently active model, if any.
type Status struct {
	Built          bool   `json:"built"`
	ModelVersion   uint64 `json:"model_version"`
	BuiltAt        string `json:"built_at,omitempty"`
	Documents      int    `json:"documents"`
	VocabularySize int    `json:"vocabulary_size"`
}

// CatalogProvider supplies the catalog snapshot the engine builds its
// model from. Implementations must return a stable insertion order: ties
// in score are broken by snapshot position.
type CatalogProvider interface {
	Snapshot(ctx context.Context) ([]Fragrance, error)
}

// Reranker reorders locally scored candidates for presentation. It never
// fails: on any upstream problem it must return a complete ranking
// synthesized from the local scores and report usedFallback = true.
type Reranker interface {
	Rerank(ctx context.Context, candidates []Candidate, profile Profile) (rankings []Ranking, usedFallback bool)
}

// LocalRankings synthesizes a ranking directly from local candidate
// scores. This is the deterministic fallback used when no external
// re-ranker is configured or the external call fails.
func LocalRankings(candidates []Candidate) []Ranking {
	out := make([]Ranking, len(candidates))
	for i, c := range candidates {
		out[i] = Ranking{
			ID:              c.Fragrance.ID,
			MatchPercentage: c.Percent,
		}
	}
	return out
}
