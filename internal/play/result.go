package play

import (
	"fmt"

	"classquiz-service/internal/domain"
)

// Outcome is the consolidated view of a graded submission. The grading
// service is authoritative on correctness; this only derives counts and
// checks the response's own bookkeeping.
type Outcome struct {
	Result domain.SubmitQuizResult

	// TotalAnswered is how many answers the session submitted.
	TotalAnswered int
	// CorrectCount is how many graded answers came back correct.
	CorrectCount int
	// Accuracy is CorrectCount over the number of graded answers, 0 when
	// nothing was graded.
	Accuracy float64
	// Consistent reports whether the response's successCount/errorCount
	// match the item lists it carries.
	Consistent bool
}

// Aggregate reconciles the submitted answers with the grading response.
// Per-item failures never hide the successes alongside them.
func Aggregate(submitted []domain.Answer, result domain.SubmitQuizResult) Outcome {
	correct := 0
	for _, r := range result.Answers {
		if r.Correct {
			correct++
		}
	}

	accuracy := 0.0
	if len(result.Answers) > 0 {
		accuracy = float64(correct) / float64(len(result.Answers))
	}

	return Outcome{
		Result:        result,
		TotalAnswered: len(submitted),
		CorrectCount:  correct,
		Accuracy:      accuracy,
		Consistent: result.SuccessCount == len(result.Answers) &&
			result.ErrorCount == len(result.Errors),
	}
}

// ErrorMessages renders one message per failed item, for individual display
// alongside the summary count.
func (o Outcome) ErrorMessages() []string {
	if len(o.Result.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(o.Result.Errors))
	for _, e := range o.Result.Errors {
		msgs = append(msgs, fmt.Sprintf("%s (status: %s)", e.Error, e.Status))
	}
	return msgs
}
