package interactive

// Next tells Loop whether to present the question sequence again.
type Next int

const (
	Continue Next = iota
	Stop
)

// Step handles the answers of one pass through a question sequence. Side
// effects belong here; a step may run a nested Loop before returning.
type Step func(Answers) (Next, error)

// Loop presents questions and hands the answers to step until step returns
// Stop. There is no iteration bound: termination is decided by the answers.
// An error from the asker or the step ends the loop and is returned as is.
func Loop(asker Asker, questions []Question, step Step) error {
	for next := Continue; next == Continue; {
		answers, err := asker.Ask(questions)
		if err != nil {
			return err
		}
		if next, err = step(answers); err != nil {
			return err
		}
	}
	return nil
}
