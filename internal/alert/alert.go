// Package alert turns pipeline and session failures into the short
// title/message dialogs shown to the user.
package alert

import (
	"github.com/sayah-app/sayah-go/internal/api"
	"github.com/sayah-app/sayah-go/internal/errors"
)

// Alert is a modal message acknowledged with a single button.
type Alert struct {
	Title   string
	Message string
}

// IsZero reports whether a is empty, i.e. nothing should be shown.
func (a Alert) IsZero() bool {
	return a.Title == "" && a.Message == ""
}

// Fixed alerts for outcomes that are not errors.
var (
	RegistrationSucceeded = Alert{Title: "Success", Message: "Registration successful! Please log in."}
	LoggedOut             = Alert{Title: "Logged Out", Message: "You have been logged out successfully."}
	NoHistory             = Alert{Title: "No History", Message: "You have no previous records."}
	MedicalHelp           = Alert{
		Title:   "Seek Medical Help",
		Message: "Your test result suggests a possibility of strep throat. Please consult a healthcare professional.",
	}
)

// FromError maps err onto the alert for its failure kind. A nil error or a
// dismissed picker yields the zero Alert.
func FromError(err error) Alert {
	if err == nil {
		return Alert{}
	}

	switch errors.CategoryOf(err) {
	case errors.CategoryCanceled:
		return Alert{}
	case errors.CategoryPermission:
		return Alert{Title: "Permission Required", Message: "You need to grant camera access to use this feature."}
	case errors.CategoryProcessing:
		return Alert{Title: "Error", Message: "Image processing failed"}
	case errors.CategoryNotAuthenticated:
		return Alert{Title: "Not Logged In", Message: "You need to log in before submitting an image."}
	case errors.CategoryNoImage:
		return Alert{Title: "No Image", Message: "Please capture or upload an image first."}
	case errors.CategoryUpload:
		return Alert{Title: "Upload Failed", Message: "Could not analyze the image. Try again."}
	case errors.CategoryBusy:
		return Alert{Title: "Please Wait", Message: "An upload is already in progress."}
	case errors.CategoryAuth:
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = "Login failed. Wrong credentials"
		}
		return Alert{Title: "Error", Message: msg}
	case errors.CategorySession:
		return Alert{Title: "Error", Message: "Session ID not found. Please try again."}
	case errors.CategoryStorage:
		return Alert{Title: "Error", Message: "Failed to save session. Please try again."}
	case errors.CategoryValidation:
		return Alert{Title: "Error", Message: err.Error()}
	case errors.CategoryNetwork, errors.CategoryHTTP, errors.CategoryTimeout:
		if msg := api.ServerMessage(err); msg != "" {
			return Alert{Title: "Error", Message: msg}
		}
		return Alert{Title: "Error", Message: "Could not reach the server. Please try again."}
	case errors.CategoryConfiguration:
		return Alert{Title: "Configuration Error", Message: err.Error()}
	case errors.CategoryState:
		return Alert{Title: "Not Available", Message: err.Error()}
	default:
		return Alert{Title: "Error", Message: "An error occurred. Please try again."}
	}
}

// ForRegistration maps a registration failure, preferring the server's reason.
func ForRegistration(err error) Alert {
	if errors.IsCategory(err, errors.CategoryAuth) && api.ServerMessage(err) == "" {
		return Alert{Title: "Error", Message: "Registration failed."}
	}
	return FromError(err)
}
