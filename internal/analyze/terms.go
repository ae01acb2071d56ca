package analyze

import (
	"regexp"

	"github.com/nookly/lead-monitor/internal/core/domain"
)

// Term tables are data, not control flow: the scorer walks them in
// declaration order, so matching and tie-breaking stay deterministic.

type weightedTerm struct {
	phrase string
	weight float64
}

// highValueTerms contribute 2 points each when present.
var highValueTerms = []weightedTerm{
	{"visual schedule", 2},
	{"social story", 2},
	{"autism", 2},
	{"speech therapy", 2},
	{"speech therapy resources", 2},
	{"special needs", 2},
	{"iep", 2},
	{"504", 2},
	{"personalized learning", 2},
	{"inclusive books", 2},
	{"representation", 2},
	{"sel", 2},
	{"emotional regulation", 2},
	{"one-size-fits-all", 2},
	{"screen time", 2},
	{"teacher burnout", 2},
	{"resource preparation", 2},
	{"diverse materials", 2},
	{"inclusive materials", 2},
	{"personalized approach", 2},
	{"social-emotional", 2},
	{"autism support", 2},
	{"adhd support", 2},
	{"transition", 2},
	{"routine", 2},
	{"visual supports", 2},
}

// mediumValueTerms contribute 1 point each when present.
var mediumValueTerms = []weightedTerm{
	{"preschool", 1},
	{"kindergarten", 1},
	{"early childhood", 1},
	{"toddler", 1},
	{"bedtime stories", 1},
	{"learning differences", 1},
	{"homeschool", 1},
	{"teacher resources", 1},
	{"educational tools", 1},
	{"screen time management", 1},
	{"neurodivergent", 1},
	{"preschool readiness", 1},
	{"reading difficulties", 1},
	{"behavior management", 1},
}

// problemIndicators contribute 3 points each and anchor pain-point
// sentence extraction.
var problemIndicators = []weightedTerm{
	{"struggling with", 3},
	{"need help", 3},
	{"at my wit's end", 3},
	{"nothing works", 3},
	{"looking for", 3},
	{"recommendations", 3},
	{"difficulty", 3},
	{"challenge", 3},
	{"frustrated", 3},
	{"overwhelmed", 3},
}

// agePatterns match mentions of the 2-8 age range the product targets.
var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[2-8]\s*year\s*old`),
	regexp.MustCompile(`age\s*[2-8]`),
	regexp.MustCompile(`preschool`),
	regexp.MustCompile(`kindergarten`),
	regexp.MustCompile(`toddler`),
	regexp.MustCompile(`early learner`),
	regexp.MustCompile(`young child`),
}

// userTypeIndicators is ordered: ties in indicator counts resolve to the
// first declared type.
var userTypeIndicators = []struct {
	userType domain.UserType
	phrases  []string
}{
	{domain.UserTypeParent, []string{"my child", "my kid", "parent", "mom", "dad"}},
	{domain.UserTypeTeacher, []string{"my students", "classroom", "teacher", "educator"}},
	{domain.UserTypeTherapist, []string{"client", "patient", "therapy", "therapist", "slp"}},
	{domain.UserTypeAdministrator, []string{"school", "district", "principal", "admin"}},
}

// urgencyTerms map phrases to urgency values; 3 or above means high,
// 2 means medium.
var urgencyTerms = []struct {
	phrase string
	value  int
}{
	{"urgent", 3},
	{"emergency", 3},
	{"asap", 3},
	{"immediately", 3},
	{"right away", 3},
	{"desperate", 2},
	{"need help now", 2},
	{"struggling", 2},
}

const (
	urgencyHighValue   = 3
	urgencyMediumValue = 2
)

// competitorTerms are product names tracked for competitive mentions.
var competitorTerms = []string{
	"boardmaker",
	"social stories app",
	"visual schedule app",
	"autism app",
	"speech therapy app",
	"educational app",
	"learning app",
}
