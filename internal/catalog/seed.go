package catalog

var topics = []Topic{
	{
		ID:            "present-perfect",
		Title:         "Present Perfect vs Past Simple",
		Category:      CategoryGrammar,
		Level:         LevelB1,
		EstimatedMins: 12,
		Tags:          []string{"tenses", "verbs"},
	},
	{
		ID:            "articles",
		Title:         "Articles: a, an and the",
		Category:      CategoryGrammar,
		Level:         LevelA2,
		EstimatedMins: 10,
		Tags:          []string{"nouns", "determiners"},
	},
	{
		ID:            "make-vs-do",
		Title:         "Make vs Do Collocations",
		Category:      CategoryVocabulary,
		Level:         LevelB1,
		EstimatedMins: 8,
		Tags:          []string{"collocations"},
	},
	{
		ID:            "phrasal-verbs-get",
		Title:         "Phrasal Verbs with Get",
		Category:      CategoryVocabulary,
		Level:         LevelB2,
		EstimatedMins: 10,
		Tags:          []string{"phrasal verbs", "idioms"},
	},
	{
		ID:            "polite-requests",
		Title:         "Making Polite Requests",
		Category:      CategorySpeaking,
		Level:         LevelA2,
		EstimatedMins: 8,
		Tags:          []string{"modals", "register"},
	},
	{
		ID:            "linking-contrast",
		Title:         "Linking Words for Contrast",
		Category:      CategoryWriting,
		Level:         LevelB2,
		EstimatedMins: 12,
		Tags:          []string{"connectors", "essays"},
	},
}

var lessonBank = map[string]Lesson{
	"present-perfect": {
		TopicID: "present-perfect",
		Title:   "Present Perfect or Past Simple?",
		Sections: []Section{
			{
				Heading:  "Finished time: past simple",
				Body:     "Use the past simple when the action happened at a finished time that is stated or understood.",
				Examples: []string{"I visited Rome in 2019.", "She called me yesterday."},
			},
			{
				Heading:  "Connection to now: present perfect",
				Body:     "Use have/has + past participle when the time is unfinished or not mentioned and the result matters now.",
				Examples: []string{"I have visited Rome twice.", "She has just called."},
			},
		},
		CommonMistake: "Do not use the present perfect with a finished time expression: say \"I saw it yesterday\", not \"I have seen it yesterday\".",
		Exercises: []MiniExercise{
			{
				Question:    "Which sentence is correct?",
				Options:     []string{"I have finished it last night.", "I finished it last night."},
				Answer:      "I finished it last night.",
				Explanation: "\"Last night\" is a finished time, so the past simple is needed.",
			},
			{
				Question:    "Choose the best form: \"___ you ever ___ sushi?\"",
				Options:     []string{"Did / eat", "Have / eaten"},
				Answer:      "Have / eaten",
				Explanation: "\"Ever\" asks about life experience up to now.",
			},
		},
	},
	"articles": {
		TopicID: "articles",
		Title:   "Choosing a, an or the",
		Sections: []Section{
			{
				Heading:  "A and an",
				Body:     "Use a or an with a singular countable noun mentioned for the first time. Choose an before a vowel sound.",
				Examples: []string{"I saw a dog.", "She ate an apple.", "It took an hour."},
			},
			{
				Heading:  "The",
				Body:     "Use the when the listener knows which one you mean: it was mentioned before or it is unique.",
				Examples: []string{"The dog was friendly.", "The sun is hot."},
			},
		},
		CommonMistake: "The choice between a and an depends on sound, not spelling: \"a university\", \"an hour\".",
		Exercises: []MiniExercise{
			{
				Question:    "Pick the correct article: \"She is ___ honest person.\"",
				Options:     []string{"a", "an", "the"},
				Answer:      "an",
				Explanation: "\"Honest\" starts with a vowel sound.",
			},
		},
	},
	"make-vs-do": {
		TopicID: "make-vs-do",
		Title:   "When to Make and When to Do",
		Sections: []Section{
			{
				Heading:  "Make: creating something",
				Body:     "Make is used when we produce or create something new.",
				Examples: []string{"make a cake", "make a decision", "make a mistake"},
			},
			{
				Heading:  "Do: tasks and activities",
				Body:     "Do is used for work, jobs and general activities.",
				Examples: []string{"do homework", "do the dishes", "do business"},
			},
		},
		CommonMistake: "We say \"make a mistake\", never \"do a mistake\".",
		Exercises: []MiniExercise{
			{
				Question:    "Complete: \"Can you ___ me a favour?\"",
				Options:     []string{"make", "do"},
				Answer:      "do",
				Explanation: "\"Do someone a favour\" is a fixed collocation.",
			},
		},
	},
	"phrasal-verbs-get": {
		TopicID: "phrasal-verbs-get",
		Title:   "Getting Around with Get",
		Sections: []Section{
			{
				Heading:  "Meaning changes with the particle",
				Body:     "The particle after get changes the meaning completely, so learn each phrasal verb as a new word.",
				Examples: []string{"get up (leave bed)", "get over (recover from)", "get along (have a good relationship)"},
			},
			{
				Heading:  "Separable or not",
				Body:     "Some get phrasal verbs take an object in the middle, others never separate.",
				Examples: []string{"I got over the flu.", "Get your coat on."},
			},
		},
		CommonMistake: "\"Get over\" is not separable: say \"I got over it\", not \"I got it over\" when you mean recover.",
		Exercises: []MiniExercise{
			{
				Question:    "Which means \"to recover\"?",
				Options:     []string{"get over", "get by", "get up"},
				Answer:      "get over",
				Explanation: "You get over an illness or a disappointment.",
			},
		},
	},
	"polite-requests": {
		TopicID: "polite-requests",
		Title:   "Asking Politely",
		Sections: []Section{
			{
				Heading:  "Softening with modals",
				Body:     "Could, would and may make a request softer than can or a bare imperative.",
				Examples: []string{"Could you open the window?", "Would you mind helping me?"},
			},
			{
				Heading:  "Would you mind + -ing",
				Body:     "After \"would you mind\" use the -ing form. Answer \"not at all\" to agree.",
				Examples: []string{"Would you mind closing the door?"},
			},
		},
		CommonMistake: "Say \"Would you mind opening\", not \"Would you mind to open\".",
		Exercises: []MiniExercise{
			{
				Question:    "Which request is the most polite?",
				Options:     []string{"Give me the salt.", "Can you give me the salt?", "Could you pass me the salt, please?"},
				Answer:      "Could you pass me the salt, please?",
				Explanation: "Could plus please is the softest form.",
			},
		},
	},
	"linking-contrast": {
		TopicID: "linking-contrast",
		Title:   "Showing Contrast in Writing",
		Sections: []Section{
			{
				Heading:  "Although and even though",
				Body:     "Although and even though introduce a clause with a subject and a verb.",
				Examples: []string{"Although it was raining, we went out."},
			},
			{
				Heading:  "Despite and in spite of",
				Body:     "Despite and in spite of are followed by a noun or an -ing form, not a full clause.",
				Examples: []string{"Despite the rain, we went out.", "In spite of feeling tired, she finished."},
			},
			{
				Heading:  "However",
				Body:     "However links two sentences and is usually followed by a comma.",
				Examples: []string{"The plan was good. However, it was expensive."},
			},
		},
		CommonMistake: "Do not write \"despite of\": it is either \"despite\" or \"in spite of\".",
		Exercises: []MiniExercise{
			{
				Question:    "Complete: \"___ the traffic, she arrived on time.\"",
				Options:     []string{"Although", "Despite", "However"},
				Answer:      "Despite",
				Explanation: "A noun phrase follows, so despite is needed.",
			},
		},
	},
}

var exemplars = map[string]Exemplar{
	"present-perfect": {
		KeyPoints: []KeyPoint{
			{Text: "The past simple is used with a finished time", Keywords: []string{"finished", "yesterday", "ago", "last", "past simple"}},
			{Text: "The present perfect connects the past to now", Keywords: []string{"now", "present", "until", "still", "result"}},
			{Text: "The present perfect is formed with have/has + past participle", Keywords: []string{"have", "has", "participle"}},
			{Text: "Experience words like ever, never and just go with the present perfect", Keywords: []string{"ever", "never", "just", "already", "yet"}},
		},
		Corrections: []Correction{
			{Before: "I have seen him yesterday.", After: "I saw him yesterday.", Why: "A finished time expression needs the past simple."},
			{Before: "Did you ever been to London?", After: "Have you ever been to London?", Why: "Life experience is expressed with the present perfect."},
		},
		ModelExplanation: "We use the past simple for actions at a finished time, like \"I visited Rome in 2019\". We use the present perfect, have or has plus the past participle, when the time is not finished or not stated and the result matters now, like \"I have visited Rome twice\". Words such as ever, never, just and already usually signal the present perfect.",
	},
	"articles": {
		KeyPoints: []KeyPoint{
			{Text: "A/an is used with singular countable nouns mentioned for the first time", Keywords: []string{"first", "singular", "countable", "new"}},
			{Text: "An is chosen before a vowel sound", Keywords: []string{"vowel", "sound"}},
			{Text: "The is used when the listener knows which one", Keywords: []string{"known", "specific", "already", "unique", "which"}},
		},
		Corrections: []Correction{
			{Before: "She is a honest person.", After: "She is an honest person.", Why: "\"Honest\" begins with a vowel sound."},
			{Before: "I saw the dog in park.", After: "I saw a dog in the park.", Why: "A new noun takes a; a known place takes the."},
		},
		ModelExplanation: "Use a or an for a singular countable noun the listener does not know yet, choosing an before a vowel sound, as in \"an hour\". Use the when both people know which thing you mean, because it was mentioned before or it is unique, as in \"the sun\".",
	},
	"make-vs-do": {
		KeyPoints: []KeyPoint{
			{Text: "Make is for creating or producing something", Keywords: []string{"create", "produce", "new", "build"}},
			{Text: "Do is for tasks, jobs and activities", Keywords: []string{"task", "job", "work", "activity", "homework"}},
			{Text: "Many combinations are fixed and must be memorised", Keywords: []string{"fixed", "collocation", "memor", "learn"}},
		},
		Corrections: []Correction{
			{Before: "I did a mistake.", After: "I made a mistake.", Why: "\"Make a mistake\" is the fixed collocation."},
			{Before: "Can you make me a favour?", After: "Can you do me a favour?", Why: "\"Do someone a favour\" is the fixed collocation."},
		},
		ModelExplanation: "We use make when we create or produce something, like \"make a cake\" or \"make a decision\". We use do for tasks, work and activities, like \"do homework\". Many pairs are fixed collocations, so it helps to learn them as chunks.",
	},
	"phrasal-verbs-get": {
		KeyPoints: []KeyPoint{
			{Text: "The particle changes the meaning of get", Keywords: []string{"particle", "meaning", "changes", "preposition"}},
			{Text: "Each phrasal verb should be learnt as a new word", Keywords: []string{"learn", "new word", "memor", "vocabulary"}},
			{Text: "Some phrasal verbs are separable and some are not", Keywords: []string{"separ", "object", "middle"}},
		},
		Corrections: []Correction{
			{Before: "I got it over quickly.", After: "I got over it quickly.", Why: "\"Get over\" meaning recover cannot be separated."},
			{Before: "We get along good.", After: "We get along well.", Why: "Use the adverb well after a verb."},
		},
		ModelExplanation: "Get combines with particles like up, over and along, and each particle gives a completely new meaning: get over means recover, get along means have a good relationship. Because the meaning is not obvious, learn each one as a new word, and notice whether the object can go in the middle.",
	},
	"polite-requests": {
		KeyPoints: []KeyPoint{
			{Text: "Could and would are softer than can", Keywords: []string{"could", "would", "softer", "polite"}},
			{Text: "Would you mind is followed by the -ing form", Keywords: []string{"mind", "-ing", "ing"}},
			{Text: "Please and tone make requests more polite", Keywords: []string{"please", "tone", "thank"}},
		},
		Corrections: []Correction{
			{Before: "Would you mind to open the window?", After: "Would you mind opening the window?", Why: "\"Mind\" is followed by the -ing form."},
			{Before: "Give me the menu.", After: "Could I have the menu, please?", Why: "An imperative sounds rude in a request."},
		},
		ModelExplanation: "To make a request polite, use could or would instead of can, and add please: \"Could you pass the salt, please?\". \"Would you mind\" is even softer and takes the -ing form: \"Would you mind closing the door?\".",
	},
	"linking-contrast": {
		KeyPoints: []KeyPoint{
			{Text: "Although and even though are followed by a clause", Keywords: []string{"although", "even though", "clause"}},
			{Text: "Despite and in spite of are followed by a noun or -ing form", Keywords: []string{"despite", "in spite", "noun", "-ing"}},
			{Text: "However links two sentences and takes a comma", Keywords: []string{"however", "comma", "sentence"}},
		},
		Corrections: []Correction{
			{Before: "Despite of the rain, we went out.", After: "Despite the rain, we went out.", Why: "Despite is never followed by of."},
			{Before: "Although the rain, we went out.", After: "Although it was raining, we went out.", Why: "Although needs a subject and a verb."},
		},
		ModelExplanation: "Although and even though introduce a full clause: \"Although it was raining, we went out\". Despite and in spite of take a noun or -ing form instead: \"Despite the rain\". However joins two separate sentences and is followed by a comma.",
	},
}
