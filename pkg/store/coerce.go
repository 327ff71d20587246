package store

// CoerceQuestionSet reduces the many shapes a structured generation reply
// (or a cache read) can take into a canonical QuestionSet. Upstream stages
// have historically produced the typed object, a decoded JSON map, a bare
// list of question maps, and even a ("questions", [...]) pair; all of them
// must funnel through this single function so every consumer sees the same
// case analysis.
//
// Cases are tried in order until one matches:
//  1. already a QuestionSet (or pointer to one)
//  2. a map with a "questions" sequence
//  3. a sequence of maps each carrying a "question" key
//  4. a 2-element sequence whose second element is a sequence (a tagged
//     pair leaked from an upstream bug) - recurse on the second element
//  5. a single map describing one question
//  6. anything else (including chat-message-like maps with content/role)
//     yields an empty set
func CoerceQuestionSet(value interface{}) QuestionSet {
	switch v := value.(type) {
	case nil:
		return QuestionSet{}
	case QuestionSet:
		return v
	case *QuestionSet:
		if v == nil {
			return QuestionSet{}
		}
		return *v
	case []Question:
		return QuestionSet{Questions: v}
	case map[string]interface{}:
		if seq, ok := v["questions"].([]interface{}); ok {
			return QuestionSet{Questions: coerceQuestionSlice(seq)}
		}
		if typed, ok := v["questions"].([]Question); ok {
			return QuestionSet{Questions: typed}
		}
		if q, ok := coerceQuestion(v); ok {
			return QuestionSet{Questions: []Question{q}}
		}
		return QuestionSet{}
	case []interface{}:
		if qs, ok := trySequenceOfQuestions(v); ok {
			return qs
		}
		// Tagged pair, e.g. ["questions", [...]].
		if len(v) == 2 {
			if inner, ok := v[1].([]interface{}); ok {
				return CoerceQuestionSet(inner)
			}
		}
		return QuestionSet{}
	default:
		return QuestionSet{}
	}
}

func trySequenceOfQuestions(seq []interface{}) (QuestionSet, bool) {
	if len(seq) == 0 {
		return QuestionSet{}, false
	}
	questions := make([]Question, 0, len(seq))
	for _, item := range seq {
		m, ok := item.(map[string]interface{})
		if !ok {
			if q, isQ := item.(Question); isQ {
				questions = append(questions, q)
				continue
			}
			return QuestionSet{}, false
		}
		q, ok := coerceQuestion(m)
		if !ok {
			return QuestionSet{}, false
		}
		questions = append(questions, q)
	}
	return QuestionSet{Questions: questions}, true
}

// coerceQuestionSlice converts the elements of a "questions" sequence,
// skipping anything unrecognizable rather than failing the whole set.
func coerceQuestionSlice(seq []interface{}) []Question {
	questions := make([]Question, 0, len(seq))
	for _, item := range seq {
		switch q := item.(type) {
		case Question:
			questions = append(questions, q)
		case map[string]interface{}:
			if converted, ok := coerceQuestion(q); ok {
				questions = append(questions, converted)
			}
		case string:
			questions = append(questions, Question{Text: q})
		}
	}
	return questions
}

func coerceQuestion(m map[string]interface{}) (Question, bool) {
	text, ok := m["question"].(string)
	if !ok || text == "" {
		return Question{}, false
	}
	q := Question{Text: text}
	if ans, ok := m["answer"].(string); ok && ans != "" {
		q.Answer = &ans
	}
	return q, true
}
