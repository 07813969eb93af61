package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// EmailRegex validates email format
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// BoardIDRegex validates board/room identifier format
	BoardIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// ColorRegex validates cursor colors (#rgb, #rrggbb or a CSS name)
	ColorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|[a-zA-Z]+)$`)
)

// ValidateEmail validates email address
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long (max 254 characters)")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateBoardID validates a board identifier used as a room token
func ValidateBoardID(boardID string) error {
	if boardID == "" {
		return fmt.Errorf("board ID is required")
	}
	if len(boardID) > 100 {
		return fmt.Errorf("board ID is too long (max 100 characters)")
	}
	if !BoardIDRegex.MatchString(boardID) {
		return fmt.Errorf("invalid board ID format")
	}
	return nil
}

// ValidateTitle validates a board title
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > 255 {
		return fmt.Errorf("title is too long (max 255 characters)")
	}
	return nil
}

// ValidateUsername validates a display name carried in cursor and chat events
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) > 254 {
		return fmt.Errorf("username is too long (max 254 characters)")
	}
	return nil
}

// ValidateColor validates a cursor color
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if len(color) > 32 || !ColorRegex.MatchString(color) {
		return fmt.Errorf("invalid color format")
	}
	return nil
}
