package shell

// Choice is a menu selection.
type Choice int

const (
	InvalidChoice Choice = iota
	AnalyzeAll
	GenerateQuestions
	CreateStudyGuide
	Exit
)

// ParseChoice maps the exact menu input to a Choice. Anything other than
// "1" to "4" is InvalidChoice; surrounding whitespace is not trimmed.
func ParseChoice(s string) Choice {
	switch s {
	case "1":
		return AnalyzeAll
	case "2":
		return GenerateQuestions
	case "3":
		return CreateStudyGuide
	case "4":
		return Exit
	default:
		return InvalidChoice
	}
}

func (c Choice) String() string {
	switch c {
	case AnalyzeAll:
		return "analyze"
	case GenerateQuestions:
		return "questions"
	case CreateStudyGuide:
		return "study_guide"
	case Exit:
		return "exit"
	default:
		return "invalid"
	}
}
