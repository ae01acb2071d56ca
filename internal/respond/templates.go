package respond

import "github.com/nookly/lead-monitor/internal/core/domain"

// Template fallbacks used when the completion service is unavailable.
// One voice per audience; placeholders are filled from the assessment.
var fallbackTemplates = map[domain.UserType]string{
	domain.UserTypeParent: `I understand you're dealing with {issue} and looking for support. As a parent who's been through similar challenges, I wanted to share some resources that have helped us.

First, here are some free resources that might help:
- {resource_1}
- {resource_2}

I've found that having a structured approach makes a big difference. That's why I wanted to mention Nookly - it's been really helpful for us, especially their {feature}. It's not a magic solution, but it has made our daily routines much smoother.`,

	domain.UserTypeTeacher: `I understand you're dealing with {issue} in your classroom. It's a common challenge that many educators face.

Here are some free resources that might help:
- {resource_1}
- {resource_2}

I've found that having a structured approach makes a big difference. That's why I wanted to mention Nookly - their {feature} has been really helpful for creating a more supportive learning environment. It's not a complete solution, but it has made classroom management much more effective.`,

	domain.UserTypeTherapist: `I understand you're working with {issue} in your practice. It's a complex area that requires careful attention.

Here are some free resources that might help:
- {resource_1}
- {resource_2}

I've found that having a structured approach makes a big difference. That's why I wanted to mention Nookly - their {feature} has been really helpful for tracking progress and planning sessions. It's not a complete solution, but it has made therapy planning much more effective.`,
}

// freeResources maps resource keys to the blurb inserted into a draft.
var freeResources = map[string]string{
	"visual_schedules":     "Visual Schedule Creator - A free tool to create and print visual schedules for daily routines",
	"parent_support":       "Parent Support Guide - A comprehensive guide for parents dealing with challenging behaviors",
	"speech_activities":    "Speech Therapy Activities - A collection of free speech therapy exercises and activities",
	"behavior_tracking":    "Behavior Tracking Template - A free template for tracking and analyzing behaviors",
	"emotional_regulation": "Emotional Regulation Toolkit - Free resources for teaching emotional regulation skills",
	"curriculum_planning":  "Curriculum Planning Guide - A free guide for planning effective lessons and activities",
}

// productFeatures maps resource keys to the product feature blurb.
var productFeatures = map[string]string{
	"visual_schedules":     "visual schedule creator that helps create and maintain daily routines",
	"speech_activities":    "speech therapy activity library with customizable exercises",
	"behavior_tracking":    "behavior tracking system with detailed analytics and reporting",
	"emotional_regulation": "emotional regulation toolkit with interactive exercises and tracking",
	"curriculum_planning":  "curriculum planning tool with customizable templates and progress tracking",
}

// keywordResources maps thread keywords to resource keys, first match
// wins for the feature mention.
var keywordResources = []struct {
	keyword   string
	resources []string
}{
	{"autism", []string{"visual_schedules", "parent_support"}},
	{"adhd", []string{"visual_schedules", "emotional_regulation"}},
	{"speech", []string{"speech_activities"}},
	{"behavior", []string{"behavior_tracking"}},
	{"emotional", []string{"emotional_regulation"}},
	{"classroom", []string{"curriculum_planning"}},
	{"curriculum", []string{"curriculum_planning"}},
	{"homeschool", []string{"curriculum_planning", "parent_support"}},
}

// Defaults used when no keyword maps to anything.
const (
	defaultResourceFirst  = "parent_support"
	defaultResourceSecond = "visual_schedules"
	defaultFeature        = "visual_schedules"
	defaultIssue          = "these challenges"
)
