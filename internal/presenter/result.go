// Package presenter builds display models for results, history and resources.
// Views carry plain text and severity so every rendering decision is testable.
package presenter

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/api"
)

// Severity selects urgent or reassuring styling.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityClear
	SeverityUrgent
)

func (s Severity) String() string {
	switch s {
	case SeverityUrgent:
		return "urgent"
	case SeverityClear:
		return "clear"
	default:
		return "none"
	}
}

const (
	urgentMessage = "⚠️ Your result suggests a high likelihood of strep throat. Please seek medical attention."
	clearMessage  = "✅ You are in the clear! No signs of strep throat detected."
	noDataMessage = "❌ No result data available."
)

var (
	upperCaser = cases.Upper(language.English)
	titleCaser = cases.Title(language.English)
)

// ResultView is the result screen.
type ResultView struct {
	Label           string // title-cased verdict, e.g. "Strep"
	Positive        bool
	NoData          bool // probability absent; only the no-data message is shown
	Percent         int
	ProbabilityText string // "Probability of Strep Throat: 82%"
	Message         string
	Severity        Severity
	ShowMedicalHelp bool
}

// NewResultView builds the result screen for a fresh classification.
func NewResultView(r *api.ClassificationResult) ResultView {
	if r == nil {
		return ResultView{NoData: true, Message: noDataMessage}
	}
	var p *float64
	if r.HasProbability {
		p = &r.Probability
	}
	return newResultView(r.Label, p)
}

// NewResultViewFromHistory builds the result screen for a history entry.
func NewResultViewFromHistory(e *api.HistoryEntry) ResultView {
	if e == nil {
		return ResultView{NoData: true, Message: noDataMessage}
	}
	return newResultView(e.Label, e.Probability)
}

func newResultView(label api.Label, probability *float64) ResultView {
	v := ResultView{
		Label:    titleCaser.String(string(label)),
		Positive: label.Positive(),
	}
	if probability == nil {
		v.NoData = true
		v.Message = noDataMessage
		return v
	}

	v.Percent = Percent(*probability)
	v.ProbabilityText = fmt.Sprintf("Probability of Strep Throat: %d%%", v.Percent)
	if v.Positive {
		v.Message = urgentMessage
		v.Severity = SeverityUrgent
		v.ShowMedicalHelp = true
	} else {
		v.Message = clearMessage
		v.Severity = SeverityClear
	}
	return v
}

// MedicalHelpAlert returns the alert behind the "Get Medical Help" action.
func (v ResultView) MedicalHelpAlert() alert.Alert {
	return alert.MedicalHelp
}

// Percent converts a probability to a whole percentage, rounding halves up.
func Percent(p float64) int {
	return int(math.Floor(p*100 + 0.5))
}
