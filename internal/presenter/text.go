package presenter

import (
	"fmt"
	"io"
	"strings"
)

// WriteResult renders the result screen.
func WriteResult(w io.Writer, v ResultView) error {
	var b strings.Builder
	if v.NoData {
		b.WriteString(v.Message + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "Result: %s\n", v.Label)
	b.WriteString(v.ProbabilityText + "\n")
	b.WriteString(v.Message + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHistory renders history rows as numbered entries.
func WriteHistory(w io.Writer, rows []HistoryRow) error {
	var b strings.Builder
	for i, row := range rows {
		marker := " "
		if row.Severity == SeverityUrgent {
			marker = "!"
		}
		fmt.Fprintf(&b, "%s %2d. [%s] Diagnosis: %s\n", marker, i+1, row.ID, row.Label)
		fmt.Fprintf(&b, "       Date: %s\n", row.Date)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteResources renders articles separated by blank lines.
func WriteResources(w io.Writer, views []ResourceView) error {
	var b strings.Builder
	for i, v := range views {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.Title + "\n")
		b.WriteString(strings.Repeat("-", len([]rune(v.Title))) + "\n")
		b.WriteString(v.Body + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSlide renders one onboarding slide with its position.
func WriteSlide(w io.Writer, s Slide, index, total int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n(%d/%d) %s\n\n", index+1, total, s.Title)
	for _, line := range s.Lines {
		b.WriteString("  " + line + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteGuidelines renders the numbered capture guidelines.
func WriteGuidelines(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Capture guidelines:\n")
	for i, g := range CaptureGuidelines {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, g)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFAQ renders the FAQ screen.
func WriteFAQ(w io.Writer, entries []FAQEntry) error {
	var b strings.Builder
	b.WriteString("Frequently Asked Questions\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n❓ %s\n   %s\n", e.Question, e.Answer)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// NotificationText is the one-line summary pushed to notification services.
func NotificationText(v ResultView) string {
	if v.NoData {
		return "Result received without probability data."
	}
	msg := fmt.Sprintf("Result: %s. %s.", v.Label, v.ProbabilityText)
	if v.ShowMedicalHelp {
		msg += " Please consult a healthcare professional."
	}
	return msg
}
