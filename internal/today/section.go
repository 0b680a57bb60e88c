package today

// Section identifies one of the three buckets.
type Section int

const (
	Current Section = iota
	Overdue
	Completed
)

// SectionCount is the number of sections.
const SectionCount = 3

// Sections lists the sections in display order.
var Sections = [SectionCount]Section{Current, Overdue, Completed}

func (s Section) String() string {
	switch s {
	case Current:
		return "current"
	case Overdue:
		return "overdue"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Title is the heading shown above the section.
func (s Section) Title() string {
	switch s {
	case Overdue:
		return "Passed due date"
	case Completed:
		return "Complete"
	default:
		return "Current"
	}
}

// EmptyMessage is shown when the section has no tasks.
func (s Section) EmptyMessage() string {
	switch s {
	case Overdue:
		return "No passed due date tasks for today."
	case Completed:
		return "No completed tasks for today."
	default:
		return "No tasks for today."
	}
}

// ParseSection accepts the String form and a few aliases.
func ParseSection(raw string) (Section, bool) {
	switch raw {
	case "current", "cur", "c":
		return Current, true
	case "overdue", "incomplete", "passed", "o":
		return Overdue, true
	case "completed", "complete", "done", "d":
		return Completed, true
	default:
		return Current, false
	}
}
