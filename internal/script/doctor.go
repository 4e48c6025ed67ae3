package script

// Doctor returns the built-in Rogerian therapist script, a rendition of
// Weizenbaum's 1966 DOCTOR rules. Patterns are written against the speaker's
// own person; person flipping happens on captures at reassembly.
func Doctor() *Script {
	return &Script{
		Name: "doctor",
		Greetings: []string{
			"How do you do. Please tell me your problem",
		},
		Fallbacks: []string{
			"I am not sure I understand you fully",
			"Please go on",
			"What does that suggest to you",
			"Do you feel strongly about discussing such things",
		},
		Synonyms: map[string][]string{
			"belief":   {"feel", "think", "believe", "wish"},
			"family":   {"mother", "father", "sister", "brother", "wife", "children"},
			"sad":      {"sad", "unhappy", "depressed", "sick"},
			"happy":    {"happy", "elated", "glad", "better"},
			"everyone": {"everyone", "everybody", "nobody", "noone"},
			"computer": {"computer", "computers", "machine", "machines"},
			"xfremd":   {"deutsch", "francais", "italiano", "espanol"},
		},
		Pre: map[string]string{
			"dont":    "don't",
			"cant":    "can't",
			"wont":    "won't",
			"dreamed": "dreamt",
			"dreams":  "dream",
			"were":    "was",
			"mom":     "mother",
			"dad":     "father",
		},
		Person: map[string]string{
			"i":        "you",
			"me":       "you",
			"my":       "your",
			"mine":     "yours",
			"am":       "are",
			"myself":   "yourself",
			"i'm":      "you're",
			"you":      "I",
			"your":     "my",
			"yours":    "mine",
			"yourself": "myself",
			"you're":   "I'm",
		},
		Keywords: []Keyword{
			{Word: "sorry", Rules: []Rule{
				{Responses: []string{
					"Please don't apologize",
					"Apologies are not necessary",
					"What feelings do you have when you apologize",
					"I've told you that apologies are not required",
				}},
			}},
			{Word: "remember", Rank: 5, Rules: []Rule{
				{Pattern: "* i remember *", Responses: []string{
					"Do you often think of $4",
					"Does thinking of $4 bring anything else to mind",
					"What else do you remember",
					"Why do you remember $4 just now",
					"What in the present situation reminds you of $4",
					"What is the connection between me and $4",
				}},
				{Pattern: "* do you remember *", Responses: []string{
					"Did you think I would forget $5",
					"Why do you think I should recall $5 now",
					"What about $5",
					"=what",
					"You mentioned $5",
				}},
				{Responses: []string{NewKeyMarker}},
			}},
			{Word: "if", Rank: 3, Rules: []Rule{
				{Pattern: "* if *", Responses: []string{
					"Do you think its likely that $3",
					"Do you wish that $3",
					"What do you think about $3",
					"Really, if $3",
				}},
			}},
			{Word: "dreamt", Rank: 4, Rules: []Rule{
				{Pattern: "* i dreamt *", Responses: []string{
					"Really, $4",
					"Have you ever fantasied $4 while you were awake",
					"Have you dreamt $4 before",
					"=dream",
					NewKeyMarker,
				}},
				{Responses: []string{NewKeyMarker}},
			}},
			{Word: "dream", Rank: 3, Rules: []Rule{
				{Responses: []string{
					"What does that dream suggest to you",
					"Do you dream often",
					"What persons appear in your dreams",
					"Don't you believe that dream has something to do with your problem",
					NewKeyMarker,
				}},
			}},
			{Word: "how", Rules: []Rule{{Responses: []string{"=what"}}}},
			{Word: "when", Rules: []Rule{{Responses: []string{"=what"}}}},
			{Word: "alike", Rank: 10, Rules: []Rule{{Responses: []string{"=dit"}}}},
			{Word: "same", Rank: 10, Rules: []Rule{{Responses: []string{"=dit"}}}},
			{Word: "certainly", Rank: 10, Rules: []Rule{{Responses: []string{"=yes"}}}},
			{Word: "perhaps", Rules: []Rule{
				{Responses: []string{
					"You don't seem quite certain",
					"Why the uncertain tone",
					"Can't you be more positive",
					"You aren't sure",
					"Don't you know",
				}},
			}},
			{Word: "maybe", Rules: []Rule{{Responses: []string{"=perhaps"}}}},
			{Word: "name", Rank: 15, Rules: []Rule{
				{Responses: []string{
					"I am not interested in names",
					"I've told you before, I don't care about names - please continue",
				}},
			}},
			{Word: "xfremd", Rules: []Rule{
				{Responses: []string{"I am sorry, I speak only english"}},
			}},
			{Word: "hello", Rules: []Rule{
				{Responses: []string{"How do you do. Please state your problem"}},
			}},
			{Word: "computer", Rank: 50, Rules: []Rule{
				{Responses: []string{
					"Do computer worry you",
					"Why do you mention computers",
					"What do you think machines have to do with your problem",
					"Don't you think computers can help people",
					"What about machines worries you",
					"What do you think about machines",
				}},
			}},
			{Word: "am", Rules: []Rule{
				{Pattern: "* am i *", Responses: []string{
					"Do you believe you are $4",
					"Would you want to be $4",
					"You wish I would tell you you are $4",
					"What would it mean if you were $4",
					"=what",
				}},
				{Responses: []string{
					"Why do you say 'AM'",
					"I don't understand that",
				}},
			}},
			{Word: "are", Rules: []Rule{
				{Pattern: "* are you *", Responses: []string{
					"Why are you interested in whether I am $4 or not",
					"Would you prefer if I weren't $4",
					"Perhaps I am $4 in your fantasies",
					"Do you sometimes think I am $4",
					"=what",
				}},
				{Pattern: "* are *", Responses: []string{
					"Did you think they might not be $3",
					"Woud you like it if they were not $3",
					"What if they were not $3",
					"Possibly they are $3",
				}},
			}},
			{Word: "your", Rules: []Rule{
				{Pattern: "* your *", Responses: []string{
					"Why are you concerned over my $3",
					"What about your own $3",
					"Are you worried about someone elses $3",
					"Really, my $3",
				}},
			}},
			{Word: "was", Rank: 2, Rules: []Rule{
				{Pattern: "* was i *", Responses: []string{
					"What if you were $4",
					"Do you think you were $4",
					"Were you $4",
					"What would it mean if you were $4",
					"What does '$4' suggest to you",
					"=what",
				}},
				{Pattern: "* i was *", Responses: []string{
					"Were you really $4",
					"Why do you tell me you were $4 now",
					"Perhaps I already knew you were $4",
				}},
				{Pattern: "* was you *", Responses: []string{
					"Would you like to believe I was $4",
					"What suggests that I was $4",
					"What do you think",
					"Perhaps I was $4",
					"What if I had been $4",
				}},
				{Responses: []string{NewKeyMarker}},
			}},
			{Word: "i'm", Rules: []Rule{
				{Pattern: "* i'm *", Pre: "i am $3", Responses: []string{"=i"}},
			}},
			{Word: "you're", Rules: []Rule{
				{Pattern: "* you're *", Pre: "you are $3", Responses: []string{"=you"}},
			}},
			{Word: "i", Rules: []Rule{
				{Pattern: "* i want|need *", Responses: []string{
					"What would it mean to you if you got $4",
					"Why do you want $4",
					"Suppose you got $4 soon",
					"What if you never got $4",
					"What would getting $4 mean to you",
					"What does wanting $4 have to do with this discussion",
				}},
				{Pattern: "* i am * @sad *", Responses: []string{
					"I am sorry to hear you are $5",
					"Do you think coming here will help you not to be $5",
					"I'm sure its not pleasant to be $5",
					"Can you explin what made you $5",
				}},
				{Pattern: "* i am * @happy *", Responses: []string{
					"How have I helped you to be $5",
					"Has your treatment made you $5",
					"What makes you $5 just now",
					"Can you explin why you are suddenly $5",
				}},
				{Pattern: "* i was *", Responses: []string{"=was"}},
				{Pattern: "* i @belief i *", Responses: []string{
					"Do you really think so",
					"But you are not sure you $5",
					"Do you really doubt you $5",
				}},
				{Pattern: "* i * @belief * you *", Responses: []string{"=you"}},
				{Pattern: "* i am *", Responses: []string{
					"Is it because you are $4 that you came to me",
					"How long have you been $4",
					"Do you enjoy being $4",
				}},
				{Pattern: "* i can't|cannot *", Responses: []string{
					"How do you know you can't $4",
					"Have you tried",
					"Perhaps you could $4 now",
					"Do you really want to be able to $4",
				}},
				{Pattern: "* i don't *", Responses: []string{
					"Don't you really $4",
					"Why don't you $4",
					"Do you wish to be able to $4",
					"Does that trouble you",
				}},
				{Pattern: "* i feel *", Responses: []string{
					"Tell me more about such feelings",
					"Do you often feel $4",
					"Do you enjoy feeling $4",
					"Of what does feeling $4 reming you",
				}},
				{Responses: []string{
					"You say I",
					"Can you elaborate on that",
					"Do you say I for some special reason",
					"That's quite interesting",
				}},
			}},
			{Word: "you", Rules: []Rule{
				{Pattern: "* you remind me of *", Responses: []string{"=dit"}},
				{Pattern: "* you are *", Responses: []string{
					"What makes you think I am $4",
					"Does it please you to believe I am $4",
					"Do you sometimes wish you were $4",
					"Perhaps you would like to be $4",
				}},
				{Pattern: "* you * me *", Responses: []string{
					"Why do you think I $3 you",
					"You like to think I $3 you - don't you",
					"What makes you think I $3 you",
					"Really, I $3 you",
					"Do you wish to believe I $3 you",
					"Suppose I did $3 you - what would that mean",
					"Does someone else believe I $3 you",
				}},
				{Pattern: "* you *", Responses: []string{
					"We were discussing you - not me",
					"Oh, I $3",
					"You're not really talking about me - are you",
					"What are your feelings now",
				}},
			}},
			{Word: "yes", Rules: []Rule{
				{Responses: []string{
					"You seem quite positive",
					"You are sure",
					"I see",
					"I understand",
				}},
			}},
			{Word: "no", Rules: []Rule{
				{Responses: []string{
					"Are you saying 'no' just to be negative",
					"You are being a bit negative",
					"Why not",
					"Why 'no'",
				}},
			}},
			{Word: "my", Rank: 2,
				Rules: []Rule{
					{Pattern: "* my @family *", Responses: []string{
						"Tell me more about your family",
						"Who else if your family $4",
						"Your $3",
						"What else comes to mind when you think of your $3",
					}},
					{Pattern: "* my *", Responses: []string{
						"Your $3",
						"Why do you say your $3",
						"Does that suggest anything else which belongs to you",
						"Is it important to you that your $3",
					}},
				},
				Memory: []Rule{
					{Pattern: "* my *", Responses: []string{
						"Lets discuss further why your $3",
						"Earlier you said your $3",
						"But your $3",
						"Does that have anything to do with the fact that your $3",
					}},
				},
			},
			{Word: "can", Rules: []Rule{
				{Pattern: "* can you *", Responses: []string{
					"You believe I can $4 don't you",
					"=what",
					"You want me to be able to $4",
					"Perhaps you would like to be able to $4 yourself",
				}},
				{Pattern: "* can i *", Responses: []string{
					"Whether or not you can $4 depends on you more than on me",
					"Do you want to be able to $4",
					"Perhaps you don't want to $4",
					"=what",
				}},
			}},
			{Word: "what", Rules: []Rule{
				{Responses: []string{
					"Why do you ask",
					"Does that question interest you",
					"What is it you really want to know",
					"Are such questions much on your mind",
					"What answer would please you most",
					"What do you think",
					"What comes to your mind when you ask that",
					"Have you asked such question before",
					"Have you asked anyone else",
				}},
			}},
			{Word: "because", Rules: []Rule{
				{Responses: []string{
					"Is that the real reason",
					"Don't any other reasons come to mind",
					"Does that reason seem to explain anything else",
					"What other reasons might there be",
				}},
			}},
			{Word: "why", Rules: []Rule{
				{Pattern: "* why don't you *", Responses: []string{
					"Do you believe I don't $5",
					"Perhaps I will $5 in good time",
					"Should you $5 yourself",
					"You want me to $5",
					"=what",
				}},
				{Pattern: "* why can't i *", Responses: []string{
					"Do you think you should be able to $5",
					"Do you want to be able to $5",
					"Do you believe this will help you to $5",
					"Have you any idea why you can't $5",
					"=what",
				}},
				{Responses: []string{NewKeyMarker}},
			}},
			{Word: "everyone", Rank: 2, Rules: []Rule{
				{Pattern: "* @everyone *", Responses: []string{
					"Really, $2",
					"Surely not $2",
					"Can you think of anyone in particular",
					"Who, for example",
					"You are thinking of a very special person",
					"Who, may I ask",
					"Someone special perhaps",
					"You have a particular person in mind, don't you",
					"Who do you think you're talking about",
				}},
			}},
			{Word: "always", Rank: 1, Rules: []Rule{
				{Responses: []string{
					"Can you think of a specific example",
					"When",
					"What inciden are you thinking of",
					"Really, always",
				}},
			}},
			{Word: "like", Rank: 10, Rules: []Rule{
				{Pattern: "* am|is|are|was * like *", Responses: []string{"=dit"}},
				{Responses: []string{NewKeyMarker}},
			}},
			{Word: "dit", Rules: []Rule{
				{Responses: []string{
					"In what way",
					"What resemblance do you see",
					"What does that similarity suggest to you",
					"What other connections do you see",
					"What do you suppose that resemblance means",
					"What is the connection, do you suppose",
					"Could there really be some connection",
					"How",
				}},
			}},
		},
	}
}
