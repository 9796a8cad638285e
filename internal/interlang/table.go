package interlang

import "github.com/linguakit/linguakit/internal/signal"

// Note is the pedagogical metadata attached to an error cluster.
type Note struct {
	Rule             string
	TransferSource   string
	Intervention     string
	TheoreticalBasis string
}

// notes maps (error type, canonical category) to pedagogical metadata.
// Keys must already be in Normalize form.
var notes = map[signal.ErrorType]map[string]Note{
	signal.TypeGrammar: {
		"verb_conjugation": {
			Rule:             "Learner applies a single invariant verb form regardless of person and number",
			TransferSource:   "L1 with little or no verbal inflection",
			Intervention:     "Conjugation drills contrasting 1st/2nd/3rd person in minimal contexts",
			TheoreticalBasis: "Morpheme acquisition order studies",
		},
		"verb_tense": {
			Rule:             "Learner marks time lexically (adverbs) instead of morphologically",
			TransferSource:   "L1 that signals tense through context rather than verb morphology",
			Intervention:     "Timeline-anchored production tasks forcing tense contrasts",
			TheoreticalBasis: "Aspect hypothesis",
		},
		"subject_verb_agreement": {
			Rule:             "Learner treats agreement as optional surface marking",
			TransferSource:   "L1 without person/number agreement",
			Intervention:     "Input flooding with 3rd-person singular forms plus output correction",
			TheoreticalBasis: "Processability theory",
		},
		"verb": {
			Rule:             "Learner overgeneralizes a high-frequency verb construction",
			TransferSource:   "Intralingual overgeneralization",
			Intervention:     "Contrastive examples separating the overused construction from alternatives",
			TheoreticalBasis: "Interlanguage theory (Selinker)",
		},
		"article": {
			Rule:             "Learner omits or overuses articles following L1 definiteness marking",
			TransferSource:   "Article-less L1 (e.g. Slavic, East Asian languages)",
			Intervention:     "Noticing tasks on definite/indefinite contexts before production",
			TheoreticalBasis: "Contrastive analysis hypothesis",
		},
		"preposition": {
			Rule:             "Learner maps L1 spatial/temporal prepositions one-to-one onto the target",
			TransferSource:   "Direct L1 preposition translation",
			Intervention:     "Collocation-based practice grouping verbs with their governed prepositions",
			TheoreticalBasis: "Transfer theory",
		},
		"word_order": {
			Rule:             "Learner retains L1 constituent order in subordinate or inverted clauses",
			TransferSource:   "L1 canonical word order",
			Intervention:     "Sentence reconstruction tasks isolating the divergent clause type",
			TheoreticalBasis: "Processability theory",
		},
		"plural": {
			Rule:             "Learner leaves number unmarked when quantity is clear from context",
			TransferSource:   "L1 with optional or classifier-based number marking",
			Intervention:     "Form-focused correction on plural morphology in obligatory contexts",
			TheoreticalBasis: "Morpheme acquisition order studies",
		},
		"pronoun": {
			Rule:             "Learner drops or miscases pronouns following L1 pro-drop settings",
			TransferSource:   "Pro-drop L1",
			Intervention:     "Explicit contrast of obligatory subject contexts",
			TheoreticalBasis: "Parameter resetting (UG-based accounts)",
		},
		"negation": {
			Rule:             "Learner uses preverbal or double negation from an earlier acquisition stage",
			TransferSource:   "Developmental sequence, reinforced by L1 negation",
			Intervention:     "Stage-appropriate recasts moving negation to the target position",
			TheoreticalBasis: "Developmental sequence research",
		},
		"question_formation": {
			Rule:             "Learner signals questions by intonation only, without inversion or auxiliaries",
			TransferSource:   "L1 forming questions prosodically",
			Intervention:     "Scaffolded transformation drills from statement to question",
			TheoreticalBasis: "Developmental sequence research",
		},
		"conditional": {
			Rule:             "Learner simplifies conditional morphology to a single all-purpose form",
			TransferSource:   "Avoidance of low-frequency complex forms",
			Intervention:     "Meaning-first tasks pairing each conditional with its time reference",
			TheoreticalBasis: "Avoidance behavior studies",
		},
		"gender_agreement": {
			Rule:             "Learner assigns gender from semantics or L1 cognates rather than form",
			TransferSource:   "L1 gender system or genderless L1",
			Intervention:     "Chunk learning of noun+determiner pairs rather than bare nouns",
			TheoreticalBasis: "Lexical chunking research",
		},
	},
	signal.TypePronunciation: {
		"phonology": {
			Rule:             "Learner substitutes the nearest L1 phoneme for a missing target phoneme",
			TransferSource:   "L1 phoneme inventory",
			Intervention:     "Minimal-pair discrimination before production practice",
			TheoreticalBasis: "Speech learning model (Flege)",
		},
		"th_sound": {
			Rule:             "Learner realizes dental fricatives as stops or sibilants",
			TransferSource:   "L1 lacking dental fricatives",
			Intervention:     "Articulatory placement cues plus minimal pairs (think/sink)",
			TheoreticalBasis: "Markedness differential hypothesis",
		},
		"r_l_distinction": {
			Rule:             "Learner merges the liquid contrast into a single category",
			TransferSource:   "L1 with one liquid phoneme",
			Intervention:     "High-variability perceptual training across speakers",
			TheoreticalBasis: "Perceptual assimilation model",
		},
		"vowel_length": {
			Rule:             "Learner collapses tense/lax or long/short vowel contrasts",
			TransferSource:   "L1 with a smaller vowel inventory",
			Intervention:     "Duration-exaggerated listening followed by shadowing",
			TheoreticalBasis: "Speech learning model (Flege)",
		},
		"final_consonant": {
			Rule:             "Learner deletes or devoices word-final consonants",
			TransferSource:   "L1 open-syllable structure or final devoicing rule",
			Intervention:     "Linking exercises carrying the final consonant into the next word",
			TheoreticalBasis: "Syllable structure transfer",
		},
		"consonant_cluster": {
			Rule:             "Learner breaks clusters with epenthetic vowels",
			TransferSource:   "L1 forbidding complex onsets/codas",
			Intervention:     "Gradual cluster buildup drills (s → st → str)",
			TheoreticalBasis: "Markedness differential hypothesis",
		},
		"silent_letter": {
			Rule:             "Learner pronounces orthographic letters that are silent in speech",
			TransferSource:   "Spelling-pronunciation from a transparent-orthography L1",
			Intervention:     "Listen-first vocabulary introduction before written forms",
			TheoreticalBasis: "Orthographic interference research",
		},
		"aspiration": {
			Rule:             "Learner omits aspiration on voiceless stops, blurring voicing contrasts",
			TransferSource:   "L1 without aspirated/unaspirated contrast",
			Intervention:     "Paper-strip airflow feedback on initial stops",
			TheoreticalBasis: "Speech learning model (Flege)",
		},
	},
	signal.TypeSemantic: {
		"meaning": {
			Rule:             "Learner's production diverges from the intended proposition",
			TransferSource:   "Word-by-word composition from L1 semantics",
			Intervention:     "Paraphrase tasks expressing the same idea multiple ways",
			TheoreticalBasis: "Interlanguage semantics research",
		},
		"false_friend": {
			Rule:             "Learner assumes a cognate shares its L1 meaning",
			TransferSource:   "L1 cognate with divergent meaning",
			Intervention:     "Explicit false-friend contrast cards for the learner's L1",
			TheoreticalBasis: "Lexical transfer theory",
		},
		"collocation": {
			Rule:             "Learner combines words by meaning without regard to conventional pairing",
			TransferSource:   "L1 collocational patterns translated literally",
			Intervention:     "Corpus-derived collocation practice for high-frequency verbs",
			TheoreticalBasis: "Usage-based acquisition",
		},
		"word_choice": {
			Rule:             "Learner picks the dictionary-first translation regardless of context",
			TransferSource:   "Bilingual dictionary lookup strategy",
			Intervention:     "Context-rich vocabulary work with near-synonym contrasts",
			TheoreticalBasis: "Depth-of-processing research",
		},
		"register": {
			Rule:             "Learner transfers formality conventions from L1 social norms",
			TransferSource:   "L1 politeness system",
			Intervention:     "Role-play across formal and informal versions of the same exchange",
			TheoreticalBasis: "Sociolinguistic competence (Canale & Swain)",
		},
		"idiom": {
			Rule:             "Learner translates L1 idioms word-for-word",
			TransferSource:   "L1 figurative expressions",
			Intervention:     "Idiom families grouped by image rather than alphabetically",
			TheoreticalBasis: "Conceptual metaphor transfer",
		},
		"calque": {
			Rule:             "Learner builds compound expressions by literal L1 translation",
			TransferSource:   "L1 compounding patterns",
			Intervention:     "Attention-drawing feedback contrasting the calque with the native form",
			TheoreticalBasis: "Lexical transfer theory",
		},
	},
	signal.TypeIntonation: {
		"stress_pattern": {
			Rule:             "Learner applies fixed L1 stress placement to all words",
			TransferSource:   "L1 with predictable (fixed) word stress",
			Intervention:     "Contrastive stress pairs where placement changes meaning (record/record)",
			TheoreticalBasis: "Stress deafness research (Dupoux)",
		},
		"word_stress": {
			Rule:             "Learner stresses the syllable prominent in the L1 cognate",
			TransferSource:   "Cognate stress transfer",
			Intervention:     "Clapping/tapping drills isolating the stressed syllable",
			TheoreticalBasis: "Phonological transfer theory",
		},
		"sentence_stress": {
			Rule:             "Learner gives equal weight to every word, flattening information structure",
			TransferSource:   "Syllable-timed L1 rhythm",
			Intervention:     "Focus-word marking exercises on short dialogues",
			TheoreticalBasis: "Rhythm class typology",
		},
		"rising_intonation": {
			Rule:             "Learner ends statements with a rise, signaling unintended uncertainty",
			TransferSource:   "L1 discourse intonation habits",
			Intervention:     "Shadowing declarative contours with visual pitch feedback",
			TheoreticalBasis: "Discourse intonation (Brazil)",
		},
		"falling_intonation": {
			Rule:             "Learner ends yes/no questions with a fall, which can sound abrupt",
			TransferSource:   "L1 question prosody",
			Intervention:     "Perception-first contrast of question vs statement contours",
			TheoreticalBasis: "Discourse intonation (Brazil)",
		},
		"compound_stress": {
			Rule:             "Learner stresses both elements of compounds equally",
			TransferSource:   "L1 without compound stress rules",
			Intervention:     "Compound vs phrase minimal pairs (blackbird / black bird)",
			TheoreticalBasis: "Lexical phonology",
		},
	},
	signal.TypeRelevance: {
		"off_topic": {
			Rule:             "Learner steers to familiar vocabulary domains to avoid gaps",
			TransferSource:   "Avoidance strategy, not L1 transfer",
			Intervention:     "Pre-task vocabulary scaffolding for the target topic",
			TheoreticalBasis: "Communication strategy research (Tarone)",
		},
		"topic_drift": {
			Rule:             "Learner loses the discourse thread across longer turns",
			TransferSource:   "Working-memory load at the current proficiency level",
			Intervention:     "Shorter prompts with explicit topic-return cues",
			TheoreticalBasis: "Cognitive load theory",
		},
		"partial_answer": {
			Rule:             "Learner answers the fragment of the prompt they fully parsed",
			TransferSource:   "Incomplete comprehension of multi-part prompts",
			Intervention:     "Prompt decomposition practice before answering",
			TheoreticalBasis: "Input processing (VanPatten)",
		},
		"literal_interpretation": {
			Rule:             "Learner reads indirect prompts literally, missing pragmatic intent",
			TransferSource:   "L1 pragmatic conventions",
			Intervention:     "Speech-act awareness tasks on indirect requests",
			TheoreticalBasis: "Interlanguage pragmatics",
		},
	},
}

// fuzzyOrder lists, per error type, the table keys to try as substring
// matches when no exact match exists. Hand-ordered most-specific-first:
// "verb_conjugation" must win over "verb" for inputs containing both.
// The order is part of the contract; tests assert it.
var fuzzyOrder = map[signal.ErrorType][]string{
	signal.TypeGrammar: {
		"verb_conjugation",
		"subject_verb_agreement",
		"gender_agreement",
		"question_formation",
		"verb_tense",
		"word_order",
		"conditional",
		"negation",
		"article",
		"preposition",
		"pronoun",
		"plural",
		"verb",
	},
	signal.TypePronunciation: {
		"consonant_cluster",
		"final_consonant",
		"r_l_distinction",
		"vowel_length",
		"silent_letter",
		"th_sound",
		"aspiration",
		"phonology",
	},
	signal.TypeSemantic: {
		"false_friend",
		"word_choice",
		"collocation",
		"register",
		"calque",
		"idiom",
		"meaning",
	},
	signal.TypeIntonation: {
		"compound_stress",
		"sentence_stress",
		"stress_pattern",
		"word_stress",
		"rising_intonation",
		"falling_intonation",
	},
	signal.TypeRelevance: {
		"literal_interpretation",
		"partial_answer",
		"topic_drift",
		"off_topic",
	},
}

// defaults is the per-type fallback when nothing matches. Lookup never
// returns an empty Note.
var defaults = map[signal.ErrorType]Note{
	signal.TypeGrammar: {
		Rule:             "Learner applies a systematic but non-target grammatical rule",
		TransferSource:   "Unidentified (L1 transfer or overgeneralization)",
		Intervention:     "Collect more occurrences, then target the specific structure",
		TheoreticalBasis: "Interlanguage theory (Selinker)",
	},
	signal.TypePronunciation: {
		Rule:             "Learner substitutes target sounds with nearer L1 categories",
		TransferSource:   "L1 phonological system",
		Intervention:     "Perception training before production on the affected sounds",
		TheoreticalBasis: "Speech learning model (Flege)",
	},
	signal.TypeSemantic: {
		Rule:             "Learner maps meanings through L1 lexical categories",
		TransferSource:   "L1 semantic field boundaries",
		Intervention:     "Context-based vocabulary practice over translation pairs",
		TheoreticalBasis: "Lexical transfer theory",
	},
	signal.TypeIntonation: {
		Rule:             "Learner applies L1 prosodic patterns to target speech",
		TransferSource:   "L1 rhythm and stress system",
		Intervention:     "Shadowing exercises with attention to stress and contour",
		TheoreticalBasis: "Phonological transfer theory",
	},
	signal.TypeRelevance: {
		Rule:             "Learner manages discourse with strategies below the task's demands",
		TransferSource:   "Proficiency-level communication strategies",
		Intervention:     "Scaffolded prompts matched to the learner's level",
		TheoreticalBasis: "Communication strategy research (Tarone)",
	},
}

// genericDefault covers error types outside the known set.
var genericDefault = Note{
	Rule:             "Recurring non-target pattern in learner production",
	TransferSource:   "Unidentified",
	Intervention:     "Collect more occurrences before targeting",
	TheoreticalBasis: "Interlanguage theory (Selinker)",
}
